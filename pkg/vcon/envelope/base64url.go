package envelope

import (
	"encoding/base64"
	"strings"
)

// decodeBase64URL decodes base64url input, tolerating both missing padding
// and inputs that used the standard alphabet.
func decodeBase64URL(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "+", "-")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.TrimRight(s, "=")
	return base64.RawURLEncoding.DecodeString(s)
}

func encodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
