package validate

import (
	"fmt"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Rule 7: the analysis array. Dialog references are bounds-checked against
// the actual dialog array length, same as party references elsewhere.
func (v *Validator) checkAnalysis(c *collector, doc vcon.Document) {
	raw, present := doc["analysis"]
	if !present {
		return
	}
	analyses, ok := raw.([]any)
	if !ok {
		c.errorf(CategoryIntegrity, "analysis", "analysis must be an array")
		return
	}
	nDialogs := -1
	if dialogs, ok := doc.Array("dialog"); ok {
		nDialogs = len(dialogs)
	}
	for i, a := range analyses {
		analysis, ok := a.(map[string]any)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("analysis", i, ""), "analysis entry must be an object")
			continue
		}
		v.checkAnalysisEntry(c, analysis, i, nDialogs)
	}
}

func (v *Validator) checkAnalysisEntry(c *collector, analysis map[string]any, i, nDialogs int) {
	if !vcon.HasContent(analysis["type"]) {
		c.errorf(CategoryIntegrity, indexPath("analysis", i, "type"), "Missing required 'type' field")
	}

	if raw, present := analysis["dialog"]; present {
		indices, ok := raw.([]any)
		if !ok {
			// A single numeric reference is tolerated downstream but
			// flagged here: the draft wants an array.
			if idx, single := vcon.AsIndex(raw); single {
				c.warnf(CategoryIntegrity, indexPath("analysis", i, "dialog"),
					"'dialog' should be an array of indices")
				if nDialogs >= 0 && idx >= nDialogs {
					c.errorf(CategoryIntegrity, indexPath("analysis", i, "dialog"),
						fmt.Sprintf("Invalid dialog index %d (only %d dialog entries defined)", idx, nDialogs))
				}
			} else {
				c.errorf(CategoryIntegrity, indexPath("analysis", i, "dialog"), "'dialog' must be an array")
			}
		} else {
			for pos, ref := range indices {
				idx, ok := vcon.AsIndex(ref)
				if !ok {
					c.errorf(CategoryIntegrity, indexPath("analysis", i, "dialog"),
						fmt.Sprintf("Invalid dialog index at position %d", pos))
					continue
				}
				if nDialogs >= 0 && idx >= nDialogs {
					c.errorf(CategoryIntegrity, indexPath("analysis", i, "dialog"),
						fmt.Sprintf("Invalid dialog index %d (only %d dialog entries defined)", idx, nDialogs))
				}
			}
		}
	}

	inline := vcon.HasContent(analysis["body"]) && vcon.HasContent(analysis["encoding"])
	external := vcon.HasContent(analysis["url"]) && vcon.HasContent(analysis["content_hash"])
	if !inline && !external {
		c.warnf(CategoryIntegrity, indexPath("analysis", i, ""),
			"Should contain either inline (body/encoding) or external (url/content_hash) content")
	}

	if mt, ok := analysis["mediatype"].(string); ok && !vcon.IsStandardMediaType(mt) {
		c.warnf(CategoryIntegrity, indexPath("analysis", i, "mediatype"),
			fmt.Sprintf("Non-standard media type %q", mt))
	}
}
