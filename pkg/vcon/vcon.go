// Package vcon defines the core vCon document model and field vocabularies
// from draft-ietf-vcon-vcon-core.
package vcon

import "strings"

// Document is a parsed plain vCon JSON object. It is write-once: a document
// is constructed from parsed JSON for one processing pass and never mutated.
type Document map[string]any

// Standard top-level field names. Anything else is an extension and must
// round-trip unchanged.
var StandardFields = []string{
	"vcon", "uuid", "created_at", "updated_at", "subject",
	"redacted", "appended", "group", "parties", "dialog",
	"analysis", "attachments", "must_support", "extensions",
}

// RequiredFields must be present on every plain vCon.
var RequiredFields = []string{"vcon", "uuid", "created_at", "parties"}

// Dialog types form a closed set; no other values are legal.
const (
	DialogRecording  = "recording"
	DialogText       = "text"
	DialogTransfer   = "transfer"
	DialogIncomplete = "incomplete"
)

// DialogTypes lists the closed set of dialog type values.
var DialogTypes = []string{DialogRecording, DialogText, DialogTransfer, DialogIncomplete}

// Dispositions is the closed vocabulary for incomplete dialogs.
var Dispositions = []string{
	"no-answer", "congestion", "failed", "busy",
	"hung-up", "rejected", "redirected", "voicemail-no-message",
}

// PartyEvents is the closed vocabulary for dialog party_history entries.
var PartyEvents = []string{"join", "drop", "hold", "unhold", "mute", "unmute"}

// StandardMediaTypes are the media types named by the vCon spec. Unknown
// media types are legal, just flagged.
var StandardMediaTypes = []string{
	"text/plain",
	"audio/x-wav",
	"audio/x-mp3",
	"audio/x-mp4",
	"audio/ogg",
	"video/x-mp4",
	"video/ogg",
	"multipart/mixed",
	"application/json",
	"application/pdf",
}

// String returns the string value of a top-level field.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Array returns the array value of a top-level field.
func (d Document) Array(key string) ([]any, bool) {
	a, ok := d[key].([]any)
	return a, ok
}

// Object returns the object value of a top-level field.
func (d Document) Object(key string) (map[string]any, bool) {
	m, ok := d[key].(map[string]any)
	return m, ok
}

// Extensions returns all top-level keys outside the standard field set,
// preserved verbatim.
func (d Document) Extensions() map[string]any {
	ext := make(map[string]any)
	for k, v := range d {
		if !IsStandardField(k) {
			ext[k] = v
		}
	}
	return ext
}

// Type classifies the document by its relationship descriptor.
func (d Document) Type() string {
	switch {
	case d["redacted"] != nil:
		return "redacted"
	case d["appended"] != nil:
		return "appended"
	case d["group"] != nil:
		return "group"
	default:
		return "standard"
	}
}

// IsStandardField reports whether key is a standard top-level vCon field.
func IsStandardField(key string) bool {
	for _, f := range StandardFields {
		if f == key {
			return true
		}
	}
	return false
}

// IsStandardMediaType reports whether mt is one of the media types the vCon draft names.
func IsStandardMediaType(mt string) bool {
	for _, s := range StandardMediaTypes {
		if s == mt {
			return true
		}
	}
	return false
}

// ValidDisposition reports whether d is in the closed disposition vocabulary.
func ValidDisposition(d string) bool {
	for _, v := range Dispositions {
		if v == d {
			return true
		}
	}
	return false
}

// ValidDialogType reports whether t is in the closed dialog type set.
func ValidDialogType(t string) bool {
	for _, v := range DialogTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidPartyEvent reports whether e is a known party_history event.
func ValidPartyEvent(e string) bool {
	for _, v := range PartyEvents {
		if v == e {
			return true
		}
	}
	return false
}

// AsIndex converts a JSON value to an array index. JSON numbers decode as
// float64; only non-negative integral values qualify.
func AsIndex(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// HasContent reports whether a value carries meaningful content: a non-empty
// string, a non-empty array, or an object with at least one key. Numbers and
// booleans always count as content.
func HasContent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
