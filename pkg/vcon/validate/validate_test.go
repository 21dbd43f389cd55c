package validate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

func parseDoc(t *testing.T, raw string) vcon.Document {
	t.Helper()
	var doc vcon.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("test fixture is not valid JSON: %v", err)
	}
	return doc
}

func hasEntry(entries []Entry, substr string) bool {
	for _, e := range entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func hasField(entries []Entry, field string) bool {
	for _, e := range entries {
		if e.Field == field {
			return true
		}
	}
	return false
}

const validMinimal = `{
	"vcon": "0.3.0",
	"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
	"created_at": "2024-03-15T10:23:45.123Z",
	"parties": [{"name": "Alice"}]
}`

func TestValidateMinimalDocument(t *testing.T) {
	v := New(nil, "")
	res := v.Validate(parseDoc(t, validMinimal))

	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", res.Warnings)
	}
	if !hasEntry(res.Warnings, "validation SHOULD be provided") {
		t.Errorf("expected missing-validation warning, got %v", res.Warnings)
	}
	if res.OverallStatus != StatusWarning {
		t.Errorf("OverallStatus = %q, want %q", res.OverallStatus, StatusWarning)
	}
}

func TestValidateBadUUID(t *testing.T) {
	doc := parseDoc(t, validMinimal)
	doc["uuid"] = "not-a-uuid"

	res := New(nil, "").Validate(doc)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 1 || !hasEntry(res.Errors, "UUID format") {
		t.Errorf("expected a single UUID format error, got %v", res.Errors)
	}
	if res.Categories[CategoryIntegrity] != StatusFail {
		t.Errorf("integrity category = %q, want fail", res.Categories[CategoryIntegrity])
	}
}

func TestValidateIncompleteDialogWithBody(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45.123Z",
		"parties": [{}],
		"dialog": [{"type": "incomplete", "start": "2024-03-15T10:23:45Z", "parties": [0], "body": "x"}]
	}`)

	res := New(nil, "").Validate(doc)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if !hasEntry(res.Errors, "disposition") {
		t.Errorf("expected missing disposition error, got %v", res.Errors)
	}
	if !hasEntry(res.Errors, "must not have body or url") {
		t.Errorf("expected body-on-incomplete error, got %v", res.Errors)
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected exactly two errors, got %v", res.Errors)
	}
}

func TestValidateMissingRequiredFields(t *testing.T) {
	res := New(nil, "").Validate(vcon.Document{})
	for _, field := range []string{"vcon", "uuid", "created_at", "parties"} {
		if !hasField(res.Errors, field) {
			t.Errorf("expected error for missing %q, got %v", field, res.Errors)
		}
	}
	if res.Categories[CategorySchema] != StatusFail {
		t.Errorf("schema category = %q, want fail", res.Categories[CategorySchema])
	}
	if res.Categories[CategoryRequired] != StatusFail {
		t.Errorf("required category = %q, want fail", res.Categories[CategoryRequired])
	}
}

func TestValidateVersionPolicy(t *testing.T) {
	tests := []struct {
		version   string
		wantError bool
		wantWarn  bool
	}{
		{"0.3.0", false, false},
		{"0.0.1", false, true}, // supported but not current
		{"0.9.0", false, true}, // well-formed, unknown
		{"banana", true, false},
	}
	for _, tt := range tests {
		doc := parseDoc(t, validMinimal)
		doc["vcon"] = tt.version
		doc["parties"] = []any{map[string]any{"name": "A", "validation": "passport"}}

		res := New(nil, "").Validate(doc)
		gotError := hasField(res.Errors, "vcon")
		gotWarn := hasField(res.Warnings, "vcon")
		if gotError != tt.wantError || gotWarn != tt.wantWarn {
			t.Errorf("version %q: error=%v warn=%v, want error=%v warn=%v",
				tt.version, gotError, gotWarn, tt.wantError, tt.wantWarn)
		}
	}
}

func TestValidateConfiguredVersions(t *testing.T) {
	doc := parseDoc(t, validMinimal)
	doc["vcon"] = "1.0.0"
	doc["parties"] = []any{map[string]any{"name": "A", "validation": "passport"}}

	res := New([]string{"0.0.1", "0.3.0", "1.0.0"}, "1.0.0").Validate(doc)
	if !res.Valid || len(res.Warnings) != 0 {
		t.Errorf("1.0.0 should be clean under a custom supported set: errors=%v warnings=%v",
			res.Errors, res.Warnings)
	}
}

func TestValidatePartyIndexBounds(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45Z",
		"parties": [{"name": "A", "validation": "x"}],
		"dialog": [{"type": "text", "start": "2024-03-15T10:23:45Z", "parties": [0, 3], "originator": 5, "body": "hi", "encoding": "none"}]
	}`)

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Errors, "party index 3") {
		t.Errorf("expected out-of-bounds error for index 3, got %v", res.Errors)
	}
	if !hasEntry(res.Errors, "originator party index 5") {
		t.Errorf("expected originator bounds error, got %v", res.Errors)
	}
}

func TestValidateMutualExclusivity(t *testing.T) {
	doc := parseDoc(t, validMinimal)
	doc["redacted"] = map[string]any{"uuid": "x"}
	doc["group"] = []any{map[string]any{"uuid": "y"}}

	res := New(nil, "").Validate(doc)
	count := 0
	for _, e := range res.Errors {
		if strings.Contains(e.Message, "mutually exclusive") {
			count++
			if !strings.Contains(e.Message, "redacted") || !strings.Contains(e.Message, "group") {
				t.Errorf("error should name every conflicting field: %q", e.Message)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one mutual-exclusivity error, got %d", count)
	}
}

func TestValidateMutualExclusivityEmptyFields(t *testing.T) {
	doc := parseDoc(t, validMinimal)
	doc["redacted"] = map[string]any{}
	doc["appended"] = map[string]any{}

	res := New(nil, "").Validate(doc)
	if hasEntry(res.Errors, "mutually exclusive") {
		t.Errorf("empty exclusive fields should not be an error: %v", res.Errors)
	}
	if !hasEntry(res.Warnings, "present but empty") {
		t.Errorf("expected present-but-empty warning, got %v", res.Warnings)
	}
}

func TestValidateTransferDialog(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45Z",
		"parties": [{"name": "A", "validation": "x"}, {"name": "B", "validation": "x"}],
		"dialog": [{"type": "transfer", "start": "2024-03-15T10:23:45Z", "parties": [0], "transferee": 0}]
	}`)

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Errors, "transferor") || !hasEntry(res.Errors, "transfer_target") {
		t.Errorf("expected missing transfer fields named, got %v", res.Errors)
	}
	if hasEntry(res.Errors, "transferee,") && !strings.Contains(res.Errors[0].Message, "transferor") {
		t.Errorf("transferee is present and should not be reported: %v", res.Errors)
	}
}

func TestValidateMustSupport(t *testing.T) {
	doc := parseDoc(t, validMinimal)
	doc["must_support"] = []any{"com.example.ext", "https://example.org/ext", "", float64(4), "bad ext name"}

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Errors, "cannot be empty") {
		t.Errorf("expected empty-name error, got %v", res.Errors)
	}
	if !hasEntry(res.Errors, "must be strings") {
		t.Errorf("expected non-string error, got %v", res.Errors)
	}
	if !hasEntry(res.Warnings, "valid identifier or URI") {
		t.Errorf("expected identifier-format warning, got %v", res.Warnings)
	}
}

func TestValidateTimestamps(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"2024-03-15T10:23:45Z", true},
		{"2024-03-15T10:23:45.123Z", true},
		{"2024-03-15T10:23:45+02:00", true},
		{"2024-03-15 10:23:45", false},
		{"2024-13-45T99:99:99Z", false},
		{"yesterday", false},
	}
	for _, tt := range tests {
		doc := parseDoc(t, validMinimal)
		doc["created_at"] = tt.value
		res := New(nil, "").Validate(doc)
		gotErr := hasField(res.Errors, "created_at")
		if gotErr == tt.ok {
			t.Errorf("created_at %q: error=%v, want error=%v", tt.value, gotErr, !tt.ok)
		}
	}
}

func TestValidateVersionConditionalFields(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45Z",
		"parties": [{"name": "A", "validation": "x"}],
		"dialog": [{"type": "text", "start": "2024-03-15T10:23:45Z", "parties": [0],
			"body": "hi", "encoding": "none", "mediatype": "text/plain",
			"mimetype": "text/plain", "transfer-target": "tel:+15551234567"}]
	}`)

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Warnings, "mimetype deprecated in v0.0.2") {
		t.Errorf("expected mimetype deprecation warning, got %v", res.Warnings)
	}
	if !hasEntry(res.Warnings, "transfer-target deprecated in v0.3.0") {
		t.Errorf("expected transfer-target deprecation warning, got %v", res.Warnings)
	}

	// Under an old declared version the direction flips.
	doc["vcon"] = "0.0.1"
	res = New(nil, "").Validate(doc)
	if !hasEntry(res.Warnings, "mediatype not available in v0.0.1") {
		t.Errorf("expected mediatype-not-available warning, got %v", res.Warnings)
	}
}

func TestValidatePartyHistory(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45Z",
		"parties": [{"name": "A", "validation": "x"}],
		"dialog": [{"type": "recording", "start": "2024-03-15T10:23:45Z", "parties": [0],
			"url": "https://example.org/r.wav", "content_hash": "sha256-abc",
			"party_history": [
				{"party": 0, "time": "2024-03-15T10:23:50Z", "event": "join"},
				{"party": 0, "time": "2024-03-15T10:24:50Z", "event": "teleport"}
			]}]
	}`)

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Errors, "Invalid party event") {
		t.Errorf("expected invalid party event error, got %v", res.Errors)
	}
}

func TestValidateDeterministic(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "nope",
		"created_at": "bad",
		"parties": [{}, {"name": "B"}],
		"dialog": [{"type": "weird", "parties": []}],
		"x-custom": {"mimetype": "a/b", "nested": {"transfer-target": "x"}}
	}`)
	v := New(nil, "")
	first := v.Validate(doc)
	for i := 0; i < 5; i++ {
		again := v.Validate(doc)
		if len(again.Errors) != len(first.Errors) || len(again.Warnings) != len(first.Warnings) {
			t.Fatalf("diagnostic counts changed between runs")
		}
		for j := range first.Warnings {
			if again.Warnings[j] != first.Warnings[j] {
				t.Fatalf("warning order changed between runs: %v vs %v", again.Warnings[j], first.Warnings[j])
			}
		}
	}
}

func TestValidateAttachmentStart(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		wantErr bool
	}{
		{"valid timestamp", `"2024-03-15T10:23:45Z"`, false},
		{"malformed string", `"yesterday"`, true},
		{"numeric", `1710498225`, true},
		{"object", `{"at": "2024-03-15T10:23:45Z"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, `{
				"vcon": "0.3.0",
				"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
				"created_at": "2024-03-15T10:23:45Z",
				"parties": [{"name": "A"}],
				"attachments": [{"type": "transcript", "start": `+tt.start+`,
					"body": "aGk=", "encoding": "base64url"}]
			}`)
			res := New(nil, "").Validate(doc)
			got := hasEntry(res.Errors, "'start' must be RFC3339 date format")
			if got != tt.wantErr {
				t.Errorf("start=%s: error=%v, want %v (errors: %v)", tt.start, got, tt.wantErr, res.Errors)
			}
		})
	}
}

func TestValidateAnalysisScalarDialog(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45Z",
		"parties": [{"name": "A"}],
		"dialog": [{"type": "text", "start": "2024-03-15T10:23:45Z", "parties": [0],
			"body": "aGk=", "encoding": "base64url"}],
		"analysis": [{"type": "summary", "dialog": 0, "body": "aGk=", "encoding": "base64url"}]
	}`)

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Warnings, "'dialog' should be an array of indices") {
		t.Errorf("expected scalar dialog reference warning, got %v", res.Warnings)
	}
	if hasField(res.Errors, "analysis[0].dialog") {
		t.Errorf("in-range scalar reference should not error, got %v", res.Errors)
	}
}

func TestValidateAnalysisScalarDialogOutOfRange(t *testing.T) {
	doc := parseDoc(t, `{
		"vcon": "0.3.0",
		"uuid": "018e3f72-c3a8-8b8e-b468-6ebf2e2e8c14",
		"created_at": "2024-03-15T10:23:45Z",
		"parties": [{"name": "A"}],
		"dialog": [{"type": "text", "start": "2024-03-15T10:23:45Z", "parties": [0],
			"body": "aGk=", "encoding": "base64url"}],
		"analysis": [{"type": "summary", "dialog": 4, "body": "aGk=", "encoding": "base64url"}]
	}`)

	res := New(nil, "").Validate(doc)
	if !hasEntry(res.Errors, "Invalid dialog index 4") {
		t.Errorf("expected out-of-range dialog error, got %v", res.Errors)
	}
	if !hasEntry(res.Warnings, "'dialog' should be an array of indices") {
		t.Errorf("expected scalar dialog reference warning, got %v", res.Warnings)
	}
}
