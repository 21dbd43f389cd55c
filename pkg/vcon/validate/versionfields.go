package validate

import (
	"fmt"
	"sort"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Rule 11: field legality changed across vCon revisions. mimetype and
// alg/signature were superseded at 0.0.2 (by mediatype and content_hash);
// the hyphenated transfer-target and target-dialog were superseded at
// 0.3.0 by their underscored forms. The walk flags both directions: a
// superseded field under a newer declared version, and a newer field under
// an older one. Warnings only; comparison is numeric per component.
func (v *Validator) checkVersionFields(c *collector, doc vcon.Document) {
	version, ok := doc.String("vcon")
	if !ok || !vcon.WellFormedVersion(version) {
		return
	}
	walkVersionFields(c, map[string]any(doc), "", version)
}

func walkVersionFields(c *collector, obj map[string]any, path, version string) {
	atLeast := func(min string) bool { return vcon.CompareVersions(version, min) >= 0 }

	if atLeast("0.0.2") {
		if _, present := obj["mimetype"]; present {
			c.warnf(CategoryIntegrity, path+"mimetype",
				"mimetype deprecated in v0.0.2, use mediatype instead")
		}
		_, hasAlg := obj["alg"]
		_, hasSig := obj["signature"]
		_, hasHash := obj["content_hash"]
		if hasAlg && hasSig && !hasHash {
			c.warnf(CategoryIntegrity, path+"alg",
				"alg/signature deprecated in v0.0.2, use content_hash instead")
		}
	} else {
		if _, present := obj["mediatype"]; present {
			c.warnf(CategoryIntegrity, path+"mediatype",
				fmt.Sprintf("mediatype not available in v%s, use mimetype instead", version))
		}
		if _, present := obj["content_hash"]; present {
			c.warnf(CategoryIntegrity, path+"content_hash",
				fmt.Sprintf("content_hash not available in v%s, use alg/signature instead", version))
		}
	}

	if atLeast("0.3.0") {
		if _, present := obj["transfer-target"]; present {
			c.warnf(CategoryIntegrity, path+"transfer-target",
				"transfer-target deprecated in v0.3.0, use transfer_target instead")
		}
		if _, present := obj["target-dialog"]; present {
			c.warnf(CategoryIntegrity, path+"target-dialog",
				"target-dialog deprecated in v0.3.0, use target_dialog instead")
		}
	} else {
		if _, present := obj["transfer_target"]; present {
			c.warnf(CategoryIntegrity, path+"transfer_target",
				fmt.Sprintf("transfer_target not available in v%s, use transfer-target instead", version))
		}
		if _, present := obj["target_dialog"]; present {
			c.warnf(CategoryIntegrity, path+"target_dialog",
				fmt.Sprintf("target_dialog not available in v%s, use target-dialog instead", version))
		}
	}

	// Deterministic traversal order keeps repeated runs byte-identical.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch val := obj[key].(type) {
		case []any:
			for i, item := range val {
				if m, ok := item.(map[string]any); ok {
					walkVersionFields(c, m, fmt.Sprintf("%s%s[%d].", path, key, i), version)
				}
			}
		case map[string]any:
			walkVersionFields(c, val, path+key+".", version)
		}
	}
}
