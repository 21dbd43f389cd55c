package hashverify

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/quartzjer/vcon-info/pkg/errors"
	"github.com/quartzjer/vcon-info/pkg/vcon"
)

func sha256Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256-" + base64.RawURLEncoding.EncodeToString(sum[:])
}

func TestParseContentHash(t *testing.T) {
	tests := []struct {
		in      string
		wantAlg string
		wantErr bool
	}{
		{"sha256-abc123", "sha256", false},
		{"sha384-abc123", "sha384", false},
		{"sha512-abc123", "sha512", false},
		{"md5-abc123", "", true},
		{"SHA256-abc123", "", true}, // algorithm must be lowercase
		{"sha256", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseContentHash(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseContentHash(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.Algorithm != tt.wantAlg {
			t.Errorf("ParseContentHash(%q).Algorithm = %q, want %q", tt.in, got.Algorithm, tt.wantAlg)
		}
	}
}

func TestParseContentHashUnsupported(t *testing.T) {
	_, err := ParseContentHash("md5-abc")
	if !errors.Is(err, pkgerrors.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestParseContentHashesArray(t *testing.T) {
	hashes, err := ParseContentHashes([]any{"sha256-a", "sha512-b"})
	if err != nil {
		t.Fatalf("ParseContentHashes: %v", err)
	}
	if len(hashes) != 2 || hashes[1].Algorithm != "sha512" {
		t.Errorf("hashes = %+v", hashes)
	}

	if _, err := ParseContentHashes([]any{}); err == nil {
		t.Error("empty array should be rejected")
	}
	if _, err := ParseContentHashes(42.0); err == nil {
		t.Error("numeric content_hash should be rejected")
	}
}

func TestVerify(t *testing.T) {
	data := []byte("hello vcon")

	sum := sha256.Sum256(data)
	good := ContentHash{Algorithm: "sha256", Digest: base64.RawURLEncoding.EncodeToString(sum[:])}
	if v := Verify(good, data); !v.Valid {
		t.Errorf("expected valid, got %+v", v)
	}

	if v := Verify(good, []byte("tampered")); v.Valid {
		t.Error("tampered data should not verify")
	}

	sum512 := sha512.Sum512(data)
	good512 := ContentHash{Algorithm: "sha512", Digest: base64.RawURLEncoding.EncodeToString(sum512[:])}
	if v := Verify(good512, data); !v.Valid {
		t.Errorf("sha512 should verify, got %+v", v)
	}
}

func TestVerifyAllFailClosed(t *testing.T) {
	data := []byte("payload")
	sum := sha256.Sum256(data)
	good := ContentHash{Algorithm: "sha256", Digest: base64.RawURLEncoding.EncodeToString(sum[:])}
	bad := ContentHash{Algorithm: "sha512", Digest: "bm90LXRoZS1oYXNo"}

	ok, results := VerifyAll([]ContentHash{good, bad}, data)
	if ok {
		t.Error("one mismatch must fail the whole set")
	}
	if len(results) != 2 || !results[0].Valid || results[1].Valid {
		t.Errorf("results = %+v", results)
	}

	if ok, _ := VerifyAll(nil, data); ok {
		t.Error("zero hashes must not report success")
	}
}

func TestFetchAndVerify(t *testing.T) {
	content := []byte("external recording bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)

	res := FetchAndVerify(context.Background(), f, srv.URL, sha256Hash(content))
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if string(res.Data) != string(content) {
		t.Error("verified data should be returned")
	}

	res = FetchAndVerify(context.Background(), f, srv.URL, sha256Hash([]byte("other")))
	if res.Success || res.Data != nil {
		t.Errorf("mismatched hash must withhold data: %+v", res)
	}

	res = FetchAndVerify(context.Background(), f, srv.URL, []any{sha256Hash(content), "sha512-wrong"})
	if res.Success || res.Data != nil {
		t.Errorf("one bad hash among several must withhold data: %+v", res)
	}

	res = FetchAndVerify(context.Background(), f, srv.URL, "md5-nope")
	if res.Success || res.Error == "" {
		t.Errorf("unsupported algorithm should fail with an error: %+v", res)
	}
}

func TestFetchAndVerifyNetworkError(t *testing.T) {
	f := NewHTTPFetcher(500 * time.Millisecond)
	res := FetchAndVerify(context.Background(), f, "http://127.0.0.1:1/nothing", "sha256-abc")
	if res.Success || res.Error == "" {
		t.Errorf("network failure should surface in the result: %+v", res)
	}
}

func TestCollectExternalFiles(t *testing.T) {
	var doc vcon.Document
	raw := `{
		"vcon": "0.3.0",
		"dialog": [
			{"type": "recording", "url": "https://example.org/r.wav", "content_hash": "sha256-a"},
			{"type": "text", "body": "inline"}
		],
		"attachments": [{"url": "https://example.org/doc.pdf", "content_hash": ["sha256-b", "sha512-c"]}],
		"analysis": [{"type": "transcript", "url": "https://example.org/t.txt", "content_hash": "sha256-d"}],
		"redacted": {"uuid": "r", "url": "https://example.org/unredacted", "content_hash": "sha256-e"},
		"group": [{"uuid": "g", "url": "https://example.org/g.json", "content_hash": "sha256-f"}]
	}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}

	files := CollectExternalFiles(doc)
	if len(files) != 5 {
		t.Fatalf("files = %d, want 5: %+v", len(files), files)
	}
	sources := map[string]bool{}
	for _, f := range files {
		sources[f.Source] = true
	}
	for _, want := range []string{"dialog[0]", "attachments[0]", "analysis[0]", "redacted", "group[0]"} {
		if !sources[want] {
			t.Errorf("missing source %s", want)
		}
	}
}
