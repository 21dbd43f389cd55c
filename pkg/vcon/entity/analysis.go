package entity

import "github.com/quartzjer/vcon-info/pkg/vcon"

// Analysis is the enriched view of one analysis array element. Dialog
// holds the referenced dialog indices; a scalar reference in the source
// becomes a one-element slice.
type Analysis struct {
	Index     int      `json:"index"`
	Type      string   `json:"type"`
	Dialog    []int    `json:"dialog"`
	MediaType string   `json:"mediatype"`
	Filename  string   `json:"filename,omitempty"`
	Vendor    string   `json:"vendor,omitempty"`
	Product   string   `json:"product,omitempty"`
	Schema    string   `json:"schema,omitempty"`
	Content   *Content `json:"content"`
}

// BuildAnalysis enriches the analysis array.
func BuildAnalysis(doc vcon.Document) []Analysis {
	raw, _ := doc.Array("analysis")
	analyses := make([]Analysis, 0, len(raw))
	for i, a := range raw {
		obj, ok := a.(map[string]any)
		if !ok {
			continue
		}
		entry := Analysis{
			Index:     i,
			Type:      "unknown",
			Dialog:    []int{},
			MediaType: mediaTypeOf(obj, "application/json"),
			Content:   buildContent(obj),
		}
		if t, ok := obj["type"].(string); ok && t != "" {
			entry.Type = t
		}
		entry.Filename, _ = obj["filename"].(string)
		entry.Vendor, _ = obj["vendor"].(string)
		entry.Product, _ = obj["product"].(string)
		entry.Schema, _ = obj["schema"].(string)

		switch refs := obj["dialog"].(type) {
		case []any:
			for _, r := range refs {
				if idx, ok := vcon.AsIndex(r); ok {
					entry.Dialog = append(entry.Dialog, idx)
				}
			}
		default:
			if idx, ok := vcon.AsIndex(refs); ok {
				entry.Dialog = append(entry.Dialog, idx)
			}
		}
		analyses = append(analyses, entry)
	}
	return analyses
}
