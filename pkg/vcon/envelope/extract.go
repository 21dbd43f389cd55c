package envelope

import (
	"encoding/json"
	"strings"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Signature is one entry of a JWS General Serialization signatures array.
// Protected holds the decoded protected header; Header the unprotected one.
type Signature struct {
	Protected map[string]any
	Header    map[string]any
	Signature string
}

// Recipient is one entry of a JWE recipients array.
type Recipient struct {
	Header       map[string]any
	EncryptedKey string
}

// Envelope is the parsed JOSE wrapper around a vCon. For JWS forms the
// Payload holds the decoded (but unverified) inner document bytes; for JWE
// forms Payload stays nil until a decrypt succeeds elsewhere.
type Envelope struct {
	Kind        Kind
	Raw         string
	Protected   map[string]any
	Unprotected map[string]any
	Signatures  []Signature
	Recipients  []Recipient
	Payload     []byte
}

// Document parses the extracted payload into a vCon document. Only valid
// for signed envelopes after extraction.
func (e *Envelope) Document() (vcon.Document, error) {
	if e.Payload == nil {
		return nil, newError(ErrBadJSON, "payload", nil)
	}
	var doc vcon.Document
	if err := json.Unmarshal(e.Payload, &doc); err != nil {
		return nil, newError(ErrBadJSON, "payload", err)
	}
	return doc, nil
}

// HeaderString looks up a string claim, preferring the protected header.
func (e *Envelope) HeaderString(key string) (string, bool) {
	if v, ok := e.Protected[key].(string); ok {
		return v, true
	}
	if v, ok := e.Unprotected[key].(string); ok {
		return v, true
	}
	return "", false
}

// Extract pulls headers and (for JWS) the unverified payload out of a
// classified envelope. Signature verification and decryption are separate
// key-bearing operations; extraction succeeds with no keys at all.
func Extract(det Detection, raw string) (*Envelope, error) {
	raw = strings.TrimSpace(raw)
	env := &Envelope{Kind: det.Kind, Raw: raw}
	switch det.Kind {
	case KindJWSCompact:
		return env, extractJWSCompact(env, raw)
	case KindJWSJSON:
		return env, extractJWSJSON(env, det.Object)
	case KindJWECompact:
		return env, extractJWECompact(env, raw)
	case KindJWEJSON:
		return env, extractJWEJSON(env, det.Object)
	default:
		return nil, newError(ErrBadJSON, "envelope", nil)
	}
}

func extractJWSCompact(env *Envelope, raw string) error {
	segments := strings.Split(raw, ".")
	if len(segments) != 3 {
		return newError(ErrSegmentCount, "jws", nil)
	}
	header, err := decodeHeaderSegment(segments[0], "protected")
	if err != nil {
		return err
	}
	env.Protected = header
	payload, err := decodeBase64URL(segments[1])
	if err != nil {
		return newError(ErrBadBase64, "payload", err)
	}
	env.Payload = payload
	env.Signatures = []Signature{{Protected: header, Signature: segments[2]}}
	return nil
}

func extractJWSJSON(env *Envelope, obj map[string]any) error {
	rawPayload, _ := obj["payload"].(string)
	if rawPayload == "" {
		return newError(ErrBadJSON, "payload", nil)
	}
	payload, err := decodeBase64URL(rawPayload)
	if err != nil {
		return newError(ErrBadBase64, "payload", err)
	}
	env.Payload = payload

	sigs, _ := obj["signatures"].([]any)
	for _, s := range sigs {
		entry, ok := s.(map[string]any)
		if !ok {
			continue
		}
		sig := Signature{}
		if protected, ok := entry["protected"].(string); ok {
			header, err := decodeHeaderSegment(protected, "signatures.protected")
			if err != nil {
				return err
			}
			sig.Protected = header
		}
		sig.Header, _ = entry["header"].(map[string]any)
		sig.Signature, _ = entry["signature"].(string)
		env.Signatures = append(env.Signatures, sig)
	}
	if len(env.Signatures) > 0 {
		env.Protected = env.Signatures[0].Protected
		env.Unprotected = env.Signatures[0].Header
	}
	return nil
}

func extractJWECompact(env *Envelope, raw string) error {
	segments := strings.Split(raw, ".")
	if len(segments) != 5 {
		return newError(ErrSegmentCount, "jwe", nil)
	}
	header, err := decodeHeaderSegment(segments[0], "protected")
	if err != nil {
		return err
	}
	env.Protected = header
	env.Recipients = []Recipient{{EncryptedKey: segments[1]}}
	return nil
}

func extractJWEJSON(env *Envelope, obj map[string]any) error {
	if protected, ok := obj["protected"].(string); ok && protected != "" {
		header, err := decodeHeaderSegment(protected, "protected")
		if err != nil {
			return err
		}
		env.Protected = header
	}
	env.Unprotected, _ = obj["unprotected"].(map[string]any)

	if recipients, ok := obj["recipients"].([]any); ok {
		for _, r := range recipients {
			entry, ok := r.(map[string]any)
			if !ok {
				continue
			}
			rec := Recipient{}
			rec.Header, _ = entry["header"].(map[string]any)
			rec.EncryptedKey, _ = entry["encrypted_key"].(string)
			env.Recipients = append(env.Recipients, rec)
		}
	} else if key, ok := obj["encrypted_key"].(string); ok {
		// Flattened serialization folds the single recipient inline.
		env.Recipients = []Recipient{{EncryptedKey: key}}
	}
	return nil
}

func decodeHeaderSegment(segment, where string) (map[string]any, error) {
	data, err := decodeBase64URL(segment)
	if err != nil {
		return nil, newError(ErrBadBase64, where, err)
	}
	var header map[string]any
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, newError(ErrBadJSON, where, err)
	}
	return header, nil
}

// PlaceholderDocument builds a synthetic minimal vCon for an envelope whose
// payload is unavailable, so display stages have a well-formed shape. The
// uuid comes from the envelope headers when one is present.
func PlaceholderDocument(env *Envelope) vcon.Document {
	doc := vcon.Document{
		"vcon":        vcon.CurrentVersion,
		"uuid":        "",
		"parties":     []any{},
		"dialog":      []any{},
		"analysis":    []any{},
		"attachments": []any{},
	}
	if env != nil {
		if id, ok := env.HeaderString("uuid"); ok {
			doc["uuid"] = id
		}
	}
	return doc
}
