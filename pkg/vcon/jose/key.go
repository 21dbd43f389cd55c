package jose

import (
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/quartzjer/vcon-info/pkg/errors"
)

// ParseKey loads key material given as either a JWK JSON object or a PEM
// block (PKCS#1, PKCS#8, SEC1, or certificate).
func ParseKey(data []byte) (jwk.Key, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty key material", errors.ErrInvalidInput)
	}
	key, jwkErr := jwk.ParseKey(data)
	if jwkErr == nil {
		return key, nil
	}
	key, pemErr := jwk.ParseKey(data, jwk.WithPEM(true))
	if pemErr == nil {
		return key, nil
	}
	return nil, fmt.Errorf("%w: not JWK (%v) and not PEM (%v)", errors.ErrInvalidInput, jwkErr, pemErr)
}
