package hashverify

import (
	"fmt"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// ExternalFile is one url plus content_hash pair found in a document.
type ExternalFile struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	ContentHash any    `json:"content_hash"`
}

// CollectExternalFiles scans the arrays and relationship descriptors for
// externally referenced content. Verification of the inventory is the
// caller's choice; collection itself never touches the network.
func CollectExternalFiles(doc vcon.Document) []ExternalFile {
	var files []ExternalFile
	appendFile := func(source string, obj map[string]any) {
		url, _ := obj["url"].(string)
		hash, hasHash := obj["content_hash"]
		if url == "" || !hasHash {
			return
		}
		files = append(files, ExternalFile{Source: source, URL: url, ContentHash: hash})
	}

	for _, field := range []string{"dialog", "attachments", "analysis"} {
		items, ok := doc.Array(field)
		if !ok {
			continue
		}
		for i, item := range items {
			if obj, ok := item.(map[string]any); ok {
				appendFile(fmt.Sprintf("%s[%d]", field, i), obj)
			}
		}
	}

	for _, field := range []string{"redacted", "appended"} {
		if obj, ok := doc.Object(field); ok {
			appendFile(field, obj)
		}
	}
	if group, ok := doc.Array("group"); ok {
		for i, item := range group {
			if obj, ok := item.(map[string]any); ok {
				appendFile(fmt.Sprintf("group[%d]", i), obj)
			}
		}
	}
	return files
}
