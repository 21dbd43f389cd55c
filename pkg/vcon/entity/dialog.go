package entity

import (
	"time"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// PartyRef is a resolved party-index reference. A bad index keeps the raw
// value and an error string instead of failing the whole transform.
type PartyRef struct {
	Index int    `json:"index"`
	Party *Party `json:"party,omitempty"`
	Error string `json:"error,omitempty"`
}

// Content summarizes where a dialog, attachment, or analysis entry keeps
// its payload.
type Content struct {
	HasBody     bool   `json:"has_body"`
	HasURL      bool   `json:"has_url"`
	URL         string `json:"url,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
	ContentHash any    `json:"content_hash,omitempty"`
}

// Transfer carries the cross-references of a transfer-type dialog.
type Transfer struct {
	Transferee     any `json:"transferee"`
	Transferor     any `json:"transferor"`
	TransferTarget any `json:"transfer_target"`
	Original       any `json:"original,omitempty"`
	Consultation   any `json:"consultation,omitempty"`
	TargetDialog   any `json:"target_dialog,omitempty"`
}

// Incomplete describes why an incomplete-type dialog never happened.
type Incomplete struct {
	HasDisposition bool   `json:"has_disposition"`
	Reason         string `json:"reason"`
}

// HistoryEvent is one party_history entry.
type HistoryEvent struct {
	Party int    `json:"party"`
	Time  string `json:"time"`
	Event string `json:"event"`
}

// Dialog is the enriched view of one dialog array element.
type Dialog struct {
	Index        int            `json:"index"`
	Type         string         `json:"type"`
	Start        string         `json:"start,omitempty"`
	End          string         `json:"end,omitempty"`
	Duration     float64        `json:"duration,omitempty"`
	Parties      []PartyRef     `json:"parties"`
	Originator   *PartyRef      `json:"originator,omitempty"`
	Disposition  string         `json:"disposition,omitempty"`
	MediaType    string         `json:"mediatype,omitempty"`
	Filename     string         `json:"filename,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	Application  string         `json:"application,omitempty"`
	MessageID    string         `json:"message_id,omitempty"`
	Content      *Content       `json:"content,omitempty"`
	Transfer     *Transfer      `json:"transfer,omitempty"`
	Incomplete   *Incomplete    `json:"incomplete,omitempty"`
	PartyHistory []HistoryEvent `json:"party_history,omitempty"`
}

// BuildDialog enriches the dialog array against the already-built parties.
func BuildDialog(doc vcon.Document, parties []Party) []Dialog {
	raw, _ := doc.Array("dialog")
	dialogs := make([]Dialog, 0, len(raw))
	for i, d := range raw {
		obj, ok := d.(map[string]any)
		if !ok {
			dialogs = append(dialogs, Dialog{Index: i, Type: "unknown", Parties: []PartyRef{}})
			continue
		}
		dialogs = append(dialogs, buildDialog(obj, i, parties))
	}
	return dialogs
}

func buildDialog(obj map[string]any, index int, parties []Party) Dialog {
	d := Dialog{Index: index, Type: "unknown", Parties: []PartyRef{}}
	if t, ok := obj["type"].(string); ok && t != "" {
		d.Type = t
	}
	d.Start, _ = obj["start"].(string)
	d.Duration, _ = obj["duration"].(float64)
	d.Disposition, _ = obj["disposition"].(string)
	d.Filename, _ = obj["filename"].(string)
	d.SessionID, _ = obj["session_id"].(string)
	d.Application, _ = obj["application"].(string)
	d.MessageID, _ = obj["message_id"].(string)
	d.MediaType = mediaTypeOf(obj, "")

	d.Parties = resolveParties(obj["parties"], parties)
	if origin, present := obj["originator"]; present {
		ref := resolveParty(origin, parties)
		d.Originator = &ref
	}

	switch d.Type {
	case vcon.DialogTransfer:
		d.Transfer = &Transfer{
			Transferee:     obj["transferee"],
			Transferor:     obj["transferor"],
			TransferTarget: obj["transfer_target"],
			Original:       obj["original"],
			Consultation:   obj["consultation"],
			TargetDialog:   obj["target_dialog"],
		}
	case vcon.DialogIncomplete:
		inc := &Incomplete{HasDisposition: d.Disposition != "", Reason: "not specified"}
		if d.Disposition != "" {
			inc.Reason = d.Disposition
		}
		d.Incomplete = inc
	default:
		d.Content = buildContent(obj)
	}

	d.End = deriveEnd(obj, d.Start, d.Duration)
	d.PartyHistory = buildPartyHistory(obj)
	return d
}

// deriveEnd computes start + duration when both are present; an explicit
// end field wins only when the derivation is impossible.
func deriveEnd(obj map[string]any, start string, duration float64) string {
	if start != "" && duration > 0 {
		if t, err := time.Parse(time.RFC3339Nano, start); err == nil {
			return t.Add(time.Duration(duration * float64(time.Second))).Format(time.RFC3339Nano)
		}
	}
	end, _ := obj["end"].(string)
	return end
}

func buildContent(obj map[string]any) *Content {
	c := &Content{
		HasBody: vcon.HasContent(obj["body"]),
		HasURL:  vcon.HasContent(obj["url"]),
	}
	c.URL, _ = obj["url"].(string)
	c.Encoding, _ = obj["encoding"].(string)
	c.ContentHash = obj["content_hash"]
	return c
}

func buildPartyHistory(obj map[string]any) []HistoryEvent {
	raw, ok := obj["party_history"].([]any)
	if !ok {
		return nil
	}
	events := make([]HistoryEvent, 0, len(raw))
	for _, e := range raw {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		event := HistoryEvent{Party: -1}
		if idx, ok := vcon.AsIndex(entry["party"]); ok {
			event.Party = idx
		}
		event.Time, _ = entry["time"].(string)
		event.Event, _ = entry["event"].(string)
		events = append(events, event)
	}
	return events
}

func resolveParties(raw any, parties []Party) []PartyRef {
	if raw == nil {
		return []PartyRef{}
	}
	indices, ok := raw.([]any)
	if !ok {
		indices = []any{raw}
	}
	refs := make([]PartyRef, 0, len(indices))
	for _, idx := range indices {
		refs = append(refs, resolveParty(idx, parties))
	}
	return refs
}

func resolveParty(raw any, parties []Party) PartyRef {
	idx, ok := vcon.AsIndex(raw)
	if !ok || idx >= len(parties) {
		ref := PartyRef{Index: -1, Error: "Invalid party reference"}
		if ok {
			ref.Index = idx
		}
		return ref
	}
	return PartyRef{Index: idx, Party: &parties[idx]}
}

// mediaTypeOf reads mediatype with a fallback to the deprecated mimetype
// spelling, then to the given default.
func mediaTypeOf(obj map[string]any, fallback string) string {
	if mt, ok := obj["mediatype"].(string); ok && mt != "" {
		return mt
	}
	if mt, ok := obj["mimetype"].(string); ok && mt != "" {
		return mt
	}
	return fallback
}
