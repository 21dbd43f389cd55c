package validate

import (
	"fmt"
	"strings"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// partiesLen returns the length of the top-level parties array, or -1 when
// it is absent or not an array (bounds checks are skipped in that case;
// other rules already report the shape problem).
func partiesLen(doc vcon.Document) int {
	parties, ok := doc.Array("parties")
	if !ok {
		return -1
	}
	return len(parties)
}

// Rule 6: the dialog array.
func (v *Validator) checkDialog(c *collector, doc vcon.Document) {
	raw, present := doc["dialog"]
	if !present {
		return
	}
	dialogs, ok := raw.([]any)
	if !ok {
		c.errorf(CategoryIntegrity, "dialog", "dialog must be an array")
		return
	}
	nParties := partiesLen(doc)
	for i, d := range dialogs {
		dialog, ok := d.(map[string]any)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, ""), "dialog entry must be an object")
			continue
		}
		v.checkDialogEntry(c, dialog, i, nParties)
	}
}

func (v *Validator) checkDialogEntry(c *collector, dialog map[string]any, i, nParties int) {
	dtype, _ := dialog["type"].(string)
	switch {
	case dtype == "":
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "type"), "Missing required 'type' field")
	case !vcon.ValidDialogType(dtype):
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "type"),
			fmt.Sprintf("Invalid type %q (must be one of: %s)", dtype, strings.Join(vcon.DialogTypes, ", ")))
	}

	start, hasStart := dialog["start"].(string)
	switch {
	case !hasStart:
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "start"), "Missing required 'start' field")
	case !ValidRFC3339(start):
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "start"), "'start' must be RFC3339 date format")
	}

	v.checkDialogParties(c, dialog, i, nParties)

	if origin, present := dialog["originator"]; present {
		idx, ok := vcon.AsIndex(origin)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "originator"),
				"originator must be a non-negative party index")
		} else if nParties >= 0 && idx >= nParties {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "originator"),
				fmt.Sprintf("Invalid originator party index %d (only %d parties defined)", idx, nParties))
		}
	}

	if dur, present := dialog["duration"]; present {
		if f, ok := dur.(float64); !ok || f < 0 {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "duration"),
				"'duration' must be a non-negative number")
		}
	}

	hasBody := vcon.HasContent(dialog["body"])
	hasURL := vcon.HasContent(dialog["url"])

	switch dtype {
	case vcon.DialogIncomplete:
		disposition, present := dialog["disposition"].(string)
		if !present || disposition == "" {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "disposition"),
				"'disposition' is required for incomplete type")
		} else if !vcon.ValidDisposition(disposition) {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "disposition"),
				fmt.Sprintf("Invalid disposition %q", disposition))
		}
		if hasBody || hasURL {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, ""),
				"incomplete dialogs must not have body or url content")
		}
	case vcon.DialogTransfer:
		if hasBody || hasURL {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, ""),
				"transfer dialogs must not have body or url content")
		}
		var missing []string
		for _, field := range []string{"transferee", "transferor", "transfer_target"} {
			if _, present := dialog[field]; !present {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, ""),
				"transfer dialog missing required fields: "+strings.Join(missing, ", "))
		}
	default:
		// disposition is legal only on incomplete dialogs.
		if _, present := dialog["disposition"]; present {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "disposition"),
				"'disposition' is only allowed on incomplete dialogs")
		}
		inline := vcon.HasContent(dialog["body"]) && vcon.HasContent(dialog["encoding"])
		external := vcon.HasContent(dialog["url"]) && vcon.HasContent(dialog["content_hash"])
		if !inline && !external {
			c.warnf(CategoryIntegrity, indexPath("dialog", i, ""),
				"Should contain either inline (body/encoding) or external (url/content_hash) content")
		}
		// Inline content must declare its media type.
		if hasBody && !vcon.HasContent(dialog["mediatype"]) && !vcon.HasContent(dialog["mimetype"]) {
			c.warnf(CategoryIntegrity, indexPath("dialog", i, "mediatype"),
				"mediatype should be present when inline body is present")
		}
	}

	if mt, ok := dialog["mediatype"].(string); ok && !vcon.IsStandardMediaType(mt) {
		c.warnf(CategoryIntegrity, indexPath("dialog", i, "mediatype"),
			fmt.Sprintf("Non-standard media type %q", mt))
	}

	v.checkPartyHistory(c, dialog, i, nParties)
}

func (v *Validator) checkDialogParties(c *collector, dialog map[string]any, i, nParties int) {
	raw, present := dialog["parties"]
	if !present {
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "parties"), "Missing required 'parties' field")
		return
	}
	indices, ok := raw.([]any)
	if !ok {
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "parties"), "'parties' must be an array")
		return
	}
	if len(indices) == 0 {
		c.warnf(CategoryIntegrity, indexPath("dialog", i, "parties"), "'parties' array should not be empty")
		return
	}
	for pos, raw := range indices {
		idx, ok := vcon.AsIndex(raw)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "parties"),
				fmt.Sprintf("Invalid party index at position %d", pos))
			continue
		}
		if nParties >= 0 && idx >= nParties {
			c.errorf(CategoryIntegrity, indexPath("dialog", i, "parties"),
				fmt.Sprintf("Invalid party index %d (only %d parties defined)", idx, nParties))
		}
	}
}

func (v *Validator) checkPartyHistory(c *collector, dialog map[string]any, i, nParties int) {
	raw, present := dialog["party_history"]
	if !present {
		return
	}
	events, ok := raw.([]any)
	if !ok {
		c.errorf(CategoryIntegrity, indexPath("dialog", i, "party_history"), "party_history must be an array")
		return
	}
	for j, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			c.errorf(CategoryIntegrity, fmt.Sprintf("dialog[%d].party_history[%d]", i, j),
				"party_history entry must be an object")
			continue
		}
		path := fmt.Sprintf("dialog[%d].party_history[%d]", i, j)
		if idx, ok := vcon.AsIndex(event["party"]); !ok {
			c.errorf(CategoryIntegrity, path, "party_history entry requires a numeric party index")
		} else if nParties >= 0 && idx >= nParties {
			c.errorf(CategoryIntegrity, path,
				fmt.Sprintf("Invalid party index %d (only %d parties defined)", idx, nParties))
		}
		if ts, ok := event["time"].(string); !ok || !ValidRFC3339(ts) {
			c.errorf(CategoryIntegrity, path, "party_history entry requires a valid RFC3339 time")
		}
		if name, ok := event["event"].(string); !ok || !vcon.ValidPartyEvent(name) {
			c.errorf(CategoryIntegrity, path,
				fmt.Sprintf("Invalid party event (must be one of: %s)", strings.Join(vcon.PartyEvents, ", ")))
		}
	}
}
