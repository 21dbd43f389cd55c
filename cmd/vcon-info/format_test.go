package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
	"github.com/quartzjer/vcon-info/pkg/vcon/validate"
)

const testVCon = `{
	"vcon": "0.3.0",
	"uuid": "01905ae3-5c1e-8b5c-9e4f-2a7d8f3b1c6e",
	"created_at": "2024-03-15T10:00:00Z",
	"parties": [
		{"tel": "+15551234567", "name": "Alice"},
		{"mailto": "bob@example.com", "name": "Bob"}
	],
	"dialog": [
		{
			"type": "recording",
			"start": "2024-03-15T10:00:30Z",
			"parties": [0, 1],
			"body": "aGVsbG8=",
			"encoding": "base64url",
			"mediatype": "audio/wav"
		}
	]
}`

func processFixture(t *testing.T, input string) *pipeline.Result {
	t.Helper()
	pipe := pipeline.New()
	return pipe.Process(context.Background(), input, pipeline.Keys{})
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status validate.Status
		want   string
	}{
		{validate.StatusGood, "GOOD"},
		{validate.StatusWarning, "WARNING"},
		{validate.StatusFail, "FAIL"},
		{validate.StatusPending, "PENDING"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status, false); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestWriteValidationOutput(t *testing.T) {
	result := processFixture(t, testVCon)

	var buf bytes.Buffer
	writeValidation(&buf, result)
	out := buf.String()

	if !strings.Contains(out, "Overall:") {
		t.Errorf("output missing overall verdict: %s", out)
	}
	for _, cat := range []string{"schema", "required", "integrity", "security"} {
		if !strings.Contains(out, cat) {
			t.Errorf("output missing category %q: %s", cat, out)
		}
	}
}

func TestWriteValidationParseError(t *testing.T) {
	result := processFixture(t, "this is not json")

	var buf bytes.Buffer
	writeValidation(&buf, result)
	out := buf.String()

	if !strings.Contains(out, "Errors (1)") {
		t.Errorf("output missing error count: %s", out)
	}
	if !strings.Contains(out, "[parse_error]") {
		t.Errorf("output missing parse_error field label: %s", out)
	}
}

func TestWriteCryptoSkipsPlain(t *testing.T) {
	result := processFixture(t, testVCon)

	var buf bytes.Buffer
	writeCrypto(&buf, result.Crypto)
	if buf.Len() != 0 {
		t.Errorf("expected no envelope section for plain input, got %q", buf.String())
	}
}

func TestWriteCryptoSigned(t *testing.T) {
	verified := true
	crypto := &pipeline.Crypto{
		IsSigned:       true,
		Format:         "jws-json",
		SignatureCount: 2,
		Verified:       &verified,
	}

	var buf bytes.Buffer
	writeCrypto(&buf, crypto)
	out := buf.String()

	if !strings.Contains(out, "jws-json") {
		t.Errorf("output missing format: %s", out)
	}
	if !strings.Contains(out, "signatures: 2") {
		t.Errorf("output missing signature count: %s", out)
	}
	if !strings.Contains(out, "verified: true") {
		t.Errorf("output missing verification outcome: %s", out)
	}
}

func TestWriteSummaryAndParties(t *testing.T) {
	result := processFixture(t, testVCon)

	var buf bytes.Buffer
	writeSummary(&buf, result)
	writeParties(&buf, result)
	out := buf.String()

	if !strings.Contains(out, "01905ae3-5c1e-8b5c-9e4f-2a7d8f3b1c6e") {
		t.Errorf("summary missing uuid: %s", out)
	}
	if !strings.Contains(out, "0.3.0") {
		t.Errorf("summary missing version: %s", out)
	}
	if !strings.Contains(out, "Alice") || !strings.Contains(out, "Bob") {
		t.Errorf("parties table missing names: %s", out)
	}
	if !strings.Contains(out, "tel:") {
		t.Errorf("parties table missing tel identifier: %s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	result := processFixture(t, testVCon)

	var buf bytes.Buffer
	if err := writeJSON(&buf, result); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["validation"]; !ok {
		t.Errorf("JSON output missing validation key: %v", decoded)
	}
}
