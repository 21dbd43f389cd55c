// Package timeline flattens a vCon's temporal facts into one ordered
// event sequence for display. Events come from the document timestamps,
// dialog starts and ends, party history, and attachment starts.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/quartzjer/vcon-info/pkg/vcon"
	"github.com/quartzjer/vcon-info/pkg/vcon/entity"
)

// Event is one timeline entry. Time keeps the source's string form next
// to the parsed instant so callers can render exactly what was written.
type Event struct {
	Time        time.Time      `json:"time"`
	Raw         string         `json:"raw_time"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
}

// Build produces the ascending timeline. The sort is stable; ties keep
// insertion order, which places the creation event first when it shares
// an instant with a dialog start.
func Build(doc vcon.Document, entities *entity.Entities) []Event {
	var events []Event
	add := func(raw, kind, description string, details map[string]any) {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return
		}
		events = append(events, Event{Time: t, Raw: raw, Type: kind, Description: description, Details: details})
	}

	created, _ := doc.String("created_at")
	if created != "" {
		uuid, _ := doc.String("uuid")
		add(created, "system", "vCon created", map[string]any{"uuid": uuid})
	}

	for _, d := range entities.Dialog {
		if d.Start != "" {
			add(d.Start, "dialog_start", d.Type+" started", map[string]any{
				"index":   d.Index,
				"parties": len(d.Parties),
				"type":    d.Type,
			})
		}
		if d.End != "" {
			details := map[string]any{"index": d.Index}
			if d.Duration > 0 {
				details["duration"] = d.Duration
			}
			add(d.End, "dialog_end", d.Type+" ended", details)
		}
		for _, h := range d.PartyHistory {
			add(h.Time, "party_"+h.Event,
				fmt.Sprintf("Party %d %s", h.Party, h.Event),
				map[string]any{"dialog": d.Index, "party": h.Party, "event": h.Event})
		}
	}

	for _, a := range entities.Attachments {
		if a.Start != "" {
			add(a.Start, "attachment", a.Type+" attached", map[string]any{
				"index":     a.Index,
				"filename":  a.Filename,
				"mediatype": a.MediaType,
			})
		}
	}

	if updated, _ := doc.String("updated_at"); updated != "" && updated != created {
		add(updated, "system", "vCon updated", nil)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events
}
