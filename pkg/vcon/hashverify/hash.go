// Package hashverify checks vCon content_hash attestations against
// external content. Hash parsing and digest comparison are pure; only the
// fetch path touches the network, and verification is always opt-in.
package hashverify

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"regexp"
	"strings"

	"github.com/quartzjer/vcon-info/pkg/errors"
)

// ContentHash is one parsed "<algorithm>-<base64url-digest>" attestation.
type ContentHash struct {
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

var algorithmRe = regexp.MustCompile(`^[a-z0-9]+$`)

var digesters = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// ParseContentHash parses a single content_hash string.
func ParseContentHash(s string) (ContentHash, error) {
	algorithm, digest, found := strings.Cut(s, "-")
	if !found || digest == "" {
		return ContentHash{}, fmt.Errorf("%w: content_hash %q is not algorithm-digest", errors.ErrInvalidInput, s)
	}
	if !algorithmRe.MatchString(algorithm) {
		return ContentHash{}, fmt.Errorf("%w: malformed hash algorithm %q", errors.ErrInvalidInput, algorithm)
	}
	if _, ok := digesters[algorithm]; !ok {
		return ContentHash{}, fmt.Errorf("%w: hash algorithm %q", errors.ErrUnsupported, algorithm)
	}
	return ContentHash{Algorithm: algorithm, Digest: digest}, nil
}

// ParseContentHashes accepts the wire forms of content_hash: a single
// string or an array of strings for multi-algorithm attestation.
func ParseContentHashes(raw any) ([]ContentHash, error) {
	switch v := raw.(type) {
	case string:
		h, err := ParseContentHash(v)
		if err != nil {
			return nil, err
		}
		return []ContentHash{h}, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty content_hash array", errors.ErrInvalidInput)
		}
		hashes := make([]ContentHash, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: content_hash entries must be strings", errors.ErrInvalidInput)
			}
			h, err := ParseContentHash(s)
			if err != nil {
				return nil, err
			}
			hashes = append(hashes, h)
		}
		return hashes, nil
	default:
		return nil, fmt.Errorf("%w: content_hash must be a string or array", errors.ErrInvalidInput)
	}
}

// Verification reports one digest comparison. Error text is captured
// instead of returned so a batch of checks always completes.
type Verification struct {
	Valid     bool   `json:"valid"`
	Algorithm string `json:"algorithm"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Error     string `json:"error,omitempty"`
}

// Verify computes the digest of data and compares it case-sensitively to
// the attested value.
func Verify(h ContentHash, data []byte) Verification {
	v := Verification{Algorithm: h.Algorithm, Expected: h.Digest}
	digester, ok := digesters[h.Algorithm]
	if !ok {
		v.Error = fmt.Sprintf("unsupported hash algorithm %q", h.Algorithm)
		return v
	}
	d := digester()
	d.Write(data)
	v.Actual = base64.RawURLEncoding.EncodeToString(d.Sum(nil))
	v.Valid = v.Actual == v.Expected
	return v
}

// VerifyAll runs every attestation against data. Valid overall only when
// every single hash matched; one mismatch poisons the whole set.
func VerifyAll(hashes []ContentHash, data []byte) (bool, []Verification) {
	results := make([]Verification, 0, len(hashes))
	allValid := len(hashes) > 0
	for _, h := range hashes {
		r := Verify(h, data)
		if !r.Valid {
			allValid = false
		}
		results = append(results, r)
	}
	return allValid, results
}
