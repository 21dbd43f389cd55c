package envelope

import (
	"fmt"
	"slices"

	"github.com/quartzjer/vcon-info/pkg/vcon/validate"
)

// Compliance is the result of checking an envelope against the vCon JOSE
// profile. Errors fail the security category; warnings degrade it.
type Compliance struct {
	IsCompliant bool             `json:"is_compliant"`
	Errors      []validate.Entry `json:"errors"`
	Warnings    []validate.Entry `json:"warnings"`
}

var allowedEnc = []string{"A128CBC-HS256", "A256CBC-HS512", "A128GCM", "A256GCM"}

var allowedKeyAlg = []string{"RSA-OAEP", "RSA-OAEP-256"}

// Check validates a signed or encrypted envelope against the vCon JOSE
// profile. obj is the raw top-level JSON object for JSON serializations
// (nil for compact forms); payloadUUID is the inner document's uuid when
// the payload could be extracted, used to cross-check the header claim.
// The check never mutates its inputs.
func Check(env *Envelope, obj map[string]any, payloadUUID string) Compliance {
	c := Compliance{}
	switch {
	case env.Kind.Signed():
		checkJWS(&c, env)
		checkHeaderUUID(&c, env, payloadUUID)
	case env.Kind.Encrypted():
		checkJWE(&c, env, obj)
	}
	c.IsCompliant = len(c.Errors) == 0
	return c
}

func (c *Compliance) errorf(field, format string, args ...any) {
	c.Errors = append(c.Errors, validate.Entry{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *Compliance) warnf(field, format string, args ...any) {
	c.Warnings = append(c.Warnings, validate.Entry{Field: field, Message: fmt.Sprintf(format, args...)})
}

func checkJWS(c *Compliance, env *Envelope) {
	if env.Kind == KindJWSCompact {
		c.errorf("jws", "vCon JWS must use JSON General Serialization, not compact serialization")
	}

	if alg, ok := env.HeaderString("alg"); ok && alg != "RS256" {
		c.warnf("jws.alg", "Signature algorithm %s used; RS256 is recommended", alg)
	}

	hasCertClaim := false
	for _, sig := range env.Signatures {
		for _, header := range []map[string]any{sig.Header, sig.Protected} {
			if header == nil {
				continue
			}
			if _, ok := header["x5c"]; ok {
				hasCertClaim = true
			}
			if _, ok := header["x5u"]; ok {
				hasCertClaim = true
			}
		}
	}
	if !hasCertClaim {
		c.errorf("jws.header", "JWS header must contain x5c or x5u certificate claim")
	}
}

func checkHeaderUUID(c *Compliance, env *Envelope, payloadUUID string) {
	claim, ok := env.HeaderString("uuid")
	if !ok {
		c.warnf("jws.header", "JWS header should contain a uuid claim")
		return
	}
	if payloadUUID != "" && claim != payloadUUID {
		c.warnf("jws.header", "JWS header uuid %s does not match payload uuid %s", claim, payloadUUID)
	}
}

func checkJWE(c *Compliance, env *Envelope, obj map[string]any) {
	if env.Kind == KindJWECompact {
		c.errorf("jwe", "vCon JWE must use JSON General Serialization, not compact serialization")
	}

	if id, ok := env.HeaderString("uuid"); !ok {
		c.errorf("jwe.header", "JWE header must contain a uuid claim")
	} else if !validate.ValidUUID(id) {
		c.errorf("jwe.header", "JWE header uuid %q is not a valid UUID", id)
	}

	if cty, ok := env.HeaderString("cty"); !ok {
		c.warnf("jwe.header", "JWE header should declare cty application/vcon+json")
	} else if cty != "application/vcon+json" {
		c.warnf("jwe.header", "JWE cty %q should be application/vcon+json", cty)
	}

	if enc, ok := env.HeaderString("enc"); !ok {
		c.errorf("jwe.header", "JWE header must declare the enc algorithm")
	} else if !slices.Contains(allowedEnc, enc) {
		c.warnf("jwe.enc", "Content encryption algorithm %s used; one of %v is recommended", enc, allowedEnc)
	}

	if len(env.Recipients) == 0 {
		c.warnf("jwe.recipients", "No recipients found - JWE cannot be decrypted")
	}
	for i, rec := range env.Recipients {
		field := fmt.Sprintf("jwe.recipients[%d]", i)
		if rec.EncryptedKey == "" {
			c.errorf(field, "Recipient is missing encrypted_key")
		}
		alg, ok := rec.Header["alg"].(string)
		if !ok {
			alg, ok = env.HeaderString("alg")
		}
		if ok && !slices.Contains(allowedKeyAlg, alg) {
			c.warnf(field, "Key encryption algorithm %s used; one of %v is recommended", alg, allowedKeyAlg)
		}
	}

	if obj != nil {
		for _, field := range []string{"iv", "ciphertext", "tag"} {
			if s, ok := obj[field].(string); !ok || s == "" {
				c.errorf("jwe."+field, "JWE is missing required %s field", field)
			}
		}
	}
}
