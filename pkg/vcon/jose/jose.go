// Package jose is the cryptographic collaborator for signed and encrypted
// vCons. It wraps JWS verification and JWE decryption (plus the signing
// and encrypting counterparts) behind a narrow interface so the rest of
// the engine can treat crypto as an opaque, optional capability.
package jose

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwe"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/quartzjer/vcon-info/pkg/errors"
)

// VerifyResult is the outcome of one signature verification.
type VerifyResult struct {
	Verified bool           `json:"verified"`
	Payload  []byte         `json:"-"`
	Header   map[string]any `json:"header,omitempty"`
}

// DecryptResult is the outcome of one decryption.
type DecryptResult struct {
	Plaintext []byte         `json:"-"`
	Headers   map[string]any `json:"headers,omitempty"`
}

// Provider performs the key-bearing JOSE operations. Implementations must
// be safe for concurrent use.
type Provider interface {
	Verify(ctx context.Context, rawJWS []byte, publicKey jwk.Key) (*VerifyResult, error)
	Decrypt(ctx context.Context, rawJWE []byte, privateKey jwk.Key) (*DecryptResult, error)
}

// JWXProvider implements Provider on top of lestrrat-go/jwx.
type JWXProvider struct{}

// New returns the default provider.
func New() *JWXProvider { return &JWXProvider{} }

// Verify checks the signature of a compact or JSON serialized JWS. The
// algorithm comes from the protected header of the first signature.
func (p *JWXProvider) Verify(ctx context.Context, rawJWS []byte, publicKey jwk.Key) (*VerifyResult, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("%w: public key required for verification", errors.ErrNoKey)
	}
	msg, err := jws.Parse(rawJWS)
	if err != nil {
		return nil, fmt.Errorf("parse jws: %w", err)
	}
	sigs := msg.Signatures()
	if len(sigs) == 0 {
		return nil, fmt.Errorf("%w: jws carries no signatures", errors.ErrInvalidInput)
	}
	alg := sigs[0].ProtectedHeaders().Algorithm()
	if alg == "" {
		alg = jwa.RS256
	}

	payload, err := jws.Verify(rawJWS, jws.WithKey(alg, publicKey))
	if err != nil {
		return &VerifyResult{Verified: false}, fmt.Errorf("verify jws: %w", err)
	}
	header, err := sigs[0].ProtectedHeaders().AsMap(ctx)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Verified: true, Payload: payload, Header: header}, nil
}

// Decrypt opens a compact or JSON serialized JWE with the given private
// key. The key encryption algorithm comes from the protected header.
func (p *JWXProvider) Decrypt(ctx context.Context, rawJWE []byte, privateKey jwk.Key) (*DecryptResult, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: private key required for decryption", errors.ErrNoKey)
	}
	msg, err := jwe.Parse(rawJWE)
	if err != nil {
		return nil, fmt.Errorf("parse jwe: %w", err)
	}
	alg := msg.ProtectedHeaders().Algorithm()
	if alg == "" {
		if recipients := msg.Recipients(); len(recipients) > 0 {
			alg = recipients[0].Headers().Algorithm()
		}
	}
	if alg == "" {
		alg = jwa.RSA_OAEP
	}

	plaintext, err := jwe.Decrypt(rawJWE, jwe.WithKey(alg, privateKey))
	if err != nil {
		return nil, fmt.Errorf("decrypt jwe: %w", err)
	}
	headers, err := msg.ProtectedHeaders().AsMap(ctx)
	if err != nil {
		return nil, err
	}
	return &DecryptResult{Plaintext: plaintext, Headers: headers}, nil
}

// Sign wraps payload in a JWS General Serialization envelope per the vCon
// profile: RS256 and a uuid header claim.
func Sign(payload []byte, key jwk.Key, uuid string) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: signing key required", errors.ErrNoKey)
	}
	headers := jws.NewHeaders()
	if uuid != "" {
		if err := headers.Set("uuid", uuid); err != nil {
			return nil, err
		}
	}
	return jws.Sign(payload,
		jws.WithKey(jwa.RS256, key, jws.WithProtectedHeaders(headers)),
		jws.WithJSON())
}

// Encrypt wraps payload in a JWE General Serialization envelope per the
// vCon profile: RSA-OAEP key wrap, A256GCM content encryption, and the
// uuid plus cty header claims.
func Encrypt(payload []byte, key jwk.Key, uuid string) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: encryption key required", errors.ErrNoKey)
	}
	headers := jwe.NewHeaders()
	if err := headers.Set("cty", "application/vcon+json"); err != nil {
		return nil, err
	}
	if uuid != "" {
		if err := headers.Set("uuid", uuid); err != nil {
			return nil, err
		}
	}
	return jwe.Encrypt(payload,
		jwe.WithKey(jwa.RSA_OAEP, key),
		jwe.WithContentEncryption(jwa.A256GCM),
		jwe.WithProtectedHeaders(headers),
		jwe.WithJSON())
}
