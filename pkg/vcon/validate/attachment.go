package validate

import (
	"fmt"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Rule 8: the attachments array. party and dialog references are
// bounds-checked against the owning arrays when those are known.
func (v *Validator) checkAttachments(c *collector, doc vcon.Document) {
	raw, present := doc["attachments"]
	if !present {
		return
	}
	attachments, ok := raw.([]any)
	if !ok {
		c.errorf(CategoryIntegrity, "attachments", "attachments must be an array")
		return
	}
	nParties := partiesLen(doc)
	nDialogs := -1
	if dialogs, ok := doc.Array("dialog"); ok {
		nDialogs = len(dialogs)
	}
	for i, a := range attachments {
		attachment, ok := a.(map[string]any)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("attachments", i, ""), "attachment must be an object")
			continue
		}
		v.checkAttachment(c, attachment, i, nParties, nDialogs)
	}
}

func (v *Validator) checkAttachment(c *collector, attachment map[string]any, i, nParties, nDialogs int) {
	if !vcon.HasContent(attachment["type"]) && !vcon.HasContent(attachment["purpose"]) {
		c.warnf(CategoryIntegrity, indexPath("attachments", i, ""), "Should have 'type' or 'purpose' field")
	}

	if raw, present := attachment["start"]; present {
		if start, ok := raw.(string); !ok || !ValidRFC3339(start) {
			c.errorf(CategoryIntegrity, indexPath("attachments", i, "start"), "'start' must be RFC3339 date format")
		}
	}

	if raw, present := attachment["party"]; present {
		idx, ok := vcon.AsIndex(raw)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("attachments", i, "party"), "Invalid party index")
		} else if nParties >= 0 && idx >= nParties {
			c.errorf(CategoryIntegrity, indexPath("attachments", i, "party"),
				fmt.Sprintf("Invalid party index %d (only %d parties defined)", idx, nParties))
		}
	}

	if raw, present := attachment["dialog"]; present {
		idx, ok := vcon.AsIndex(raw)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("attachments", i, "dialog"), "Invalid dialog index")
		} else if nDialogs >= 0 && idx >= nDialogs {
			c.errorf(CategoryIntegrity, indexPath("attachments", i, "dialog"),
				fmt.Sprintf("Invalid dialog index %d (only %d dialog entries defined)", idx, nDialogs))
		}
	}

	inline := vcon.HasContent(attachment["body"]) && vcon.HasContent(attachment["encoding"])
	external := vcon.HasContent(attachment["url"]) && vcon.HasContent(attachment["content_hash"])
	if !inline && !external {
		c.warnf(CategoryIntegrity, indexPath("attachments", i, ""),
			"Should contain either inline (body/encoding) or external (url/content_hash) content")
	}

	if mt, ok := attachment["mediatype"].(string); ok && !vcon.IsStandardMediaType(mt) {
		c.warnf(CategoryIntegrity, indexPath("attachments", i, "mediatype"),
			fmt.Sprintf("Non-standard media type %q", mt))
	}
}
