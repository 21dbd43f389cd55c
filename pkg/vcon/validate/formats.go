package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field format checks. These are the machine-checkable grammars the vCon
// spec names; everything here is a pure predicate.

var (
	// Strict RFC 3339 grammar: date, T, time, optional fraction, Z or
	// numeric offset.
	rfc3339Pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

	telPattern   = regexp.MustCompile(`^(tel:)?\+?[0-9\-().\s]+$`)
	sipPattern   = regexp.MustCompile(`^(sips?:)?[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	emailPattern = regexp.MustCompile(`^(mailto:)?[^\s@]+@[^\s@]+\.[^\s@]+$`)
	didPattern   = regexp.MustCompile(`^did:[a-zA-Z0-9]+:[a-zA-Z0-9._-]+$`)
	jwtPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

	mediaTypePattern = regexp.MustCompile(`^(?i)[a-z]+/[a-z0-9.+-]+$`)
	identPattern     = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	uriPattern       = regexp.MustCompile(`^https?://`)
)

// ValidUUID reports whether s is a canonical RFC 4122 UUID, versions 1-8.
// The vCon draft asks for version 8 UUIDs but earlier versions are accepted
// for compatibility. URN and braced forms are rejected.
func ValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	v := u.Version()
	return v >= 1 && v <= 8 && u.Variant() == uuid.RFC4122
}

// ValidRFC3339 reports whether s matches the strict RFC 3339 grammar and
// parses as a real instant.
func ValidRFC3339(s string) bool {
	if !rfc3339Pattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

// ValidTel reports whether s is a plausible tel URI or E.164-ish number.
func ValidTel(s string) bool {
	return s != "" && telPattern.MatchString(s)
}

// ValidSIP reports whether s is a plausible SIP address.
func ValidSIP(s string) bool {
	return sipPattern.MatchString(s)
}

// ValidEmail reports whether s is a plausible mailto address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidDID reports whether s matches the did:method:identifier grammar.
func ValidDID(s string) bool {
	return didPattern.MatchString(s)
}

// ValidSTIR reports whether s is shaped like a PASSporT token (a JWT).
func ValidSTIR(s string) bool {
	return jwtPattern.MatchString(s)
}

// ValidGMLPos reports whether s is "latitude longitude" with both values
// in range.
func ValidGMLPos(s string) bool {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 2 {
		return false
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lon, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidMediaTypeFormat reports whether s matches the type/subtype grammar.
func ValidMediaTypeFormat(s string) bool {
	return mediaTypePattern.MatchString(s)
}

// ValidExtensionName reports whether s is a bare identifier or an http(s)
// URI, the two forms extension names should take.
func ValidExtensionName(s string) bool {
	return identPattern.MatchString(s) || uriPattern.MatchString(s)
}
