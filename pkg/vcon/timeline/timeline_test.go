package timeline

import (
	"encoding/json"
	"testing"

	"github.com/quartzjer/vcon-info/pkg/vcon"
	"github.com/quartzjer/vcon-info/pkg/vcon/entity"
)

func buildFrom(t *testing.T, raw string) []Event {
	t.Helper()
	var doc vcon.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return Build(doc, entity.Build(doc))
}

func TestBuildOrdering(t *testing.T) {
	events := buildFrom(t, `{
		"vcon": "0.3.0",
		"uuid": "u",
		"created_at": "2024-03-15T10:00:00Z",
		"updated_at": "2024-03-15T12:00:00Z",
		"parties": [{"name": "A"}, {"name": "B"}],
		"dialog": [{
			"type": "recording",
			"start": "2024-03-15T10:05:00Z",
			"duration": 600,
			"parties": [0, 1],
			"url": "https://example.org/r.wav",
			"content_hash": "sha256-x",
			"party_history": [
				{"party": 1, "time": "2024-03-15T10:06:00Z", "event": "join"},
				{"party": 1, "time": "2024-03-15T10:10:00Z", "event": "drop"}
			]
		}],
		"attachments": [{"type": "contract", "start": "2024-03-15T11:00:00Z", "body": "x", "encoding": "none"}]
	}`)

	wantTypes := []string{
		"system",       // created 10:00
		"dialog_start", // 10:05
		"party_join",   // 10:06
		"party_drop",   // 10:10
		"dialog_end",   // 10:15 derived
		"attachment",   // 11:00
		"system",       // updated 12:00
	}
	if len(events) != len(wantTypes) {
		t.Fatalf("events = %d, want %d: %+v", len(events), len(wantTypes), events)
	}
	for i, want := range wantTypes {
		if events[i].Type != want {
			t.Errorf("event[%d].Type = %q, want %q", i, events[i].Type, want)
		}
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time.Before(events[i-1].Time) {
			t.Errorf("timeline not ascending at %d", i)
		}
	}
}

func TestBuildCreationFirstOnTie(t *testing.T) {
	events := buildFrom(t, `{
		"vcon": "0.3.0",
		"uuid": "u",
		"created_at": "2024-03-15T10:00:00Z",
		"parties": [{"name": "A"}],
		"dialog": [{"type": "text", "start": "2024-03-15T10:00:00Z", "parties": [0], "body": "hi", "encoding": "none"}]
	}`)

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Description != "vCon created" {
		t.Errorf("creation should sort first on a tie, got %q", events[0].Description)
	}
}

func TestBuildSkipsUnparseableTimes(t *testing.T) {
	events := buildFrom(t, `{
		"vcon": "0.3.0",
		"uuid": "u",
		"created_at": "not-a-date",
		"parties": [{"name": "A"}]
	}`)
	if len(events) != 0 {
		t.Errorf("unparseable times should be skipped, got %+v", events)
	}
}

func TestBuildUpdateEqualsCreateSuppressed(t *testing.T) {
	events := buildFrom(t, `{
		"vcon": "0.3.0",
		"uuid": "u",
		"created_at": "2024-03-15T10:00:00Z",
		"updated_at": "2024-03-15T10:00:00Z",
		"parties": []
	}`)
	if len(events) != 1 {
		t.Errorf("identical updated_at should not add a second event: %+v", events)
	}
}
