// Package envelope classifies raw vCon input as plain JSON or a JOSE
// envelope, extracts payloads and headers without verifying signatures,
// and checks envelopes against the vCon JOSE profile. Decryption and
// signature verification live behind the jose provider; everything here
// works on untrusted bytes and never panics.
package envelope

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind classifies the serialization of a raw vCon input.
type Kind string

const (
	KindPlain        Kind = "plain"
	KindJWSCompact   Kind = "jws-compact"
	KindJWSJSON      Kind = "jws-json"
	KindJWECompact   Kind = "jwe-compact"
	KindJWEJSON      Kind = "jwe-json"
	KindUnrecognized Kind = "unrecognized"
)

// Signed reports whether the kind is a JWS form.
func (k Kind) Signed() bool { return k == KindJWSCompact || k == KindJWSJSON }

// Encrypted reports whether the kind is a JWE form.
func (k Kind) Encrypted() bool { return k == KindJWECompact || k == KindJWEJSON }

var (
	jwsCompactRe = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)
	jweCompactRe = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)
)

// Detection is the classification of one raw input. Object is the parsed
// top-level JSON for JSON-shaped input so callers do not parse twice, and
// ParseError carries the JSON error text when classification failed on a
// parse failure.
type Detection struct {
	Kind       Kind
	Object     map[string]any
	ParseError string
}

// Detect classifies trimmed raw input. Compact-serialization checks run
// before JSON-shape checks. It never returns an error; unparseable input
// comes back as KindUnrecognized with the parse error attached.
func Detect(raw string) Detection {
	trimmed := strings.TrimSpace(raw)

	if jwsCompactRe.MatchString(trimmed) {
		return Detection{Kind: KindJWSCompact}
	}
	if jweCompactRe.MatchString(trimmed) {
		return Detection{Kind: KindJWECompact}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return Detection{Kind: KindUnrecognized, ParseError: err.Error()}
	}

	switch {
	case isJWSShape(obj):
		return Detection{Kind: KindJWSJSON, Object: obj}
	case isJWEShape(obj):
		return Detection{Kind: KindJWEJSON, Object: obj}
	default:
		if _, ok := obj["vcon"]; ok {
			return Detection{Kind: KindPlain, Object: obj}
		}
		return Detection{Kind: KindUnrecognized, Object: obj}
	}
}

func isJWSShape(obj map[string]any) bool {
	_, ok := obj["signatures"].([]any)
	return ok
}

func isJWEShape(obj map[string]any) bool {
	has := func(key string) bool {
		_, ok := obj[key]
		return ok
	}
	if !has("iv") || !has("ciphertext") || !has("tag") {
		return false
	}
	// General serialization carries recipients; flattened carries the
	// encrypted_key inline next to the protected header.
	if has("recipients") {
		return true
	}
	return has("protected") && has("encrypted_key")
}
