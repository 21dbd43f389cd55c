// Package pipeline wires the processing stages into the engine's single
// entry point: detect the serialization, unwrap any JOSE envelope,
// validate the document, enrich entities, build the timeline, and inventory
// external content. Every call is independent and side-effect-free apart
// from optional crypto and fetch collaborators, so a Pipeline may be shared
// across goroutines.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/quartzjer/vcon-info/pkg/vcon"
	"github.com/quartzjer/vcon-info/pkg/vcon/entity"
	"github.com/quartzjer/vcon-info/pkg/vcon/envelope"
	"github.com/quartzjer/vcon-info/pkg/vcon/hashverify"
	"github.com/quartzjer/vcon-info/pkg/vcon/jose"
	"github.com/quartzjer/vcon-info/pkg/vcon/timeline"
	"github.com/quartzjer/vcon-info/pkg/vcon/validate"
)

// Keys is the optional key material for one processing pass.
type Keys struct {
	Private jwk.Key
	Public  jwk.Key
}

// Pipeline holds the collaborators shared across passes. Construct with
// New; the zero value is not usable.
type Pipeline struct {
	validator *validate.Validator
	provider  jose.Provider
	fetcher   hashverify.Fetcher
	maxDepth  int
	log       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithVersions sets the supported-version policy.
func WithVersions(supported []string, current string) Option {
	return func(p *Pipeline) { p.validator = validate.New(supported, current) }
}

// WithProvider sets the crypto collaborator. Without one, signed input is
// still parsed and validated; verification and decryption are skipped.
func WithProvider(provider jose.Provider) Option {
	return func(p *Pipeline) { p.provider = provider }
}

// WithFetcher sets the collaborator used by VerifyExternalFiles.
func WithFetcher(f hashverify.Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New builds a Pipeline. Defaults: package version policy, jwx crypto
// provider, no fetcher, decrypt recursion capped at 2 envelopes.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		validator: validate.New(nil, ""),
		provider:  jose.New(),
		maxDepth:  2,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one pass over raw input. It never panics; unexpected
// failures degrade into a parse_error result.
func (p *Pipeline) Process(ctx context.Context, raw string, keys Keys) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("processing pass panicked", "panic", r)
			result = parseErrorResult(fmt.Sprintf("internal processing failure: %v", r))
		}
	}()
	return p.process(ctx, raw, keys, 0)
}

func (p *Pipeline) process(ctx context.Context, raw string, keys Keys, depth int) *Result {
	det := envelope.Detect(raw)
	p.log.Debug("detected input format", "kind", det.Kind, "depth", depth)

	switch {
	case det.Kind == envelope.KindUnrecognized:
		msg := "Unrecognized input: not a vCon document or JOSE envelope"
		if det.ParseError != "" {
			msg = "Invalid JSON: " + det.ParseError
		}
		return parseErrorResult(msg)
	case det.Kind == envelope.KindPlain:
		return p.finish(vcon.Document(det.Object), &Crypto{Format: string(envelope.KindPlain)}, nil)
	case det.Kind.Signed():
		return p.processSigned(ctx, det, raw, keys)
	default:
		return p.processEncrypted(ctx, det, raw, keys, depth)
	}
}

func (p *Pipeline) processSigned(ctx context.Context, det envelope.Detection, raw string, keys Keys) *Result {
	env, err := envelope.Extract(det, raw)
	crypto := &Crypto{
		IsSigned:        true,
		Format:          string(det.Kind),
		DecryptionState: StateNotAttempted,
	}
	if err != nil {
		return p.envelopeFailure(env, crypto, "Malformed JWS envelope: "+err.Error())
	}
	crypto.SignatureCount = len(env.Signatures)

	doc, docErr := env.Document()
	payloadUUID := ""
	if docErr == nil {
		payloadUUID, _ = doc.String("uuid")
	}
	compliance := envelope.Check(env, det.Object, payloadUUID)
	crypto.Compliance = &compliance

	if keys.Public != nil && p.provider != nil {
		res, err := p.provider.Verify(ctx, []byte(env.Raw), keys.Public)
		verified := err == nil && res != nil && res.Verified
		crypto.Verified = &verified
		if err != nil {
			crypto.VerificationError = err.Error()
			p.log.Warn("signature verification failed", "err", err)
		}
	}

	if docErr != nil {
		// Headers were readable but the payload was not. Fall back to a
		// placeholder so display stages still run.
		result := p.finish(envelope.PlaceholderDocument(env), crypto, nil)
		result.Validation.Errors = append(result.Validation.Errors, validate.Entry{
			Field: "payload", Message: "JWS payload is not valid JSON: " + docErr.Error(),
		})
		result.IsValid = false
		return result
	}
	return p.finish(doc, crypto, nil)
}

func (p *Pipeline) processEncrypted(ctx context.Context, det envelope.Detection, raw string, keys Keys, depth int) *Result {
	env, err := envelope.Extract(det, raw)
	crypto := &Crypto{
		IsEncrypted:     true,
		Format:          string(det.Kind),
		DecryptionState: StateNotAttempted,
	}
	if err != nil {
		return p.envelopeFailure(env, crypto, "Malformed JWE envelope: "+err.Error())
	}
	compliance := envelope.Check(env, det.Object, "")
	crypto.Compliance = &compliance

	if keys.Private != nil && p.provider != nil && depth < p.maxDepth {
		res, err := p.provider.Decrypt(ctx, []byte(env.Raw), keys.Private)
		if err != nil {
			crypto.DecryptionState = StateFailed + ": " + err.Error()
			p.log.Warn("decryption failed", "err", err)
		} else {
			crypto.DecryptionState = StateSucceeded
			inner := p.process(ctx, string(res.Plaintext), keys, depth+1)
			mergeCrypto(inner, crypto)
			if inner.Validation != nil {
				applySecurityCategory(inner.Validation, inner.Crypto)
			}
			inner.IsValid = inner.IsValid && len(crypto.complianceErrors()) == 0
			return inner
		}
	}

	// No key or a failed decrypt: run the display stages over a synthetic
	// placeholder. Its structural validity is not meaningful, so the
	// validation result stays pending rather than reporting failures.
	return p.finishPlaceholder(envelope.PlaceholderDocument(env), crypto)
}

// envelopeFailure degrades a recognized-but-malformed envelope into a
// placeholder result so the display stages still run. The fault lands in
// the schema category; the envelope metadata survives on the result.
func (p *Pipeline) envelopeFailure(env *envelope.Envelope, crypto *Crypto, msg string) *Result {
	result := p.finishPlaceholder(envelope.PlaceholderDocument(env), crypto)
	result.Validation.Errors = append(result.Validation.Errors, validate.Entry{
		Field: "envelope", Message: msg,
	})
	result.Validation.Valid = false
	result.Validation.Categories[validate.CategorySchema] = validate.StatusFail
	result.Validation.OverallStatus = validate.StatusFail
	result.IsValid = false
	return result
}

// mergeCrypto folds the outer envelope's metadata into the inner pass's
// crypto info instead of replacing it.
func mergeCrypto(inner *Result, outer *Crypto) {
	if inner.Crypto == nil {
		inner.Crypto = outer
		return
	}
	c := inner.Crypto
	c.IsEncrypted = true
	c.EncryptedFormat = outer.Format
	c.DecryptionState = outer.DecryptionState
	if outer.Compliance != nil {
		if c.Compliance == nil {
			c.Compliance = outer.Compliance
		} else {
			c.Compliance.Errors = append(c.Compliance.Errors, outer.Compliance.Errors...)
			c.Compliance.Warnings = append(c.Compliance.Warnings, outer.Compliance.Warnings...)
			c.Compliance.IsCompliant = c.Compliance.IsCompliant && outer.Compliance.IsCompliant
		}
	}
}

func (p *Pipeline) finish(doc vcon.Document, crypto *Crypto, validation *validate.Result) *Result {
	if validation == nil {
		validation = p.validator.Validate(doc)
	}
	applySecurityCategory(validation, crypto)

	entities := entity.Build(doc)
	result := &Result{
		IsValid:       validation.Valid && len(crypto.complianceErrors()) == 0,
		Validation:    validation,
		Document:      doc,
		Entities:      entities,
		Timeline:      timeline.Build(doc, entities),
		ExternalFiles: hashverify.CollectExternalFiles(doc),
		Crypto:        crypto,
	}
	return result
}

func (p *Pipeline) finishPlaceholder(doc vcon.Document, crypto *Crypto) *Result {
	validation := validate.Pending()
	applySecurityCategory(validation, crypto)

	entities := entity.Build(doc)
	return &Result{
		IsValid:       len(crypto.complianceErrors()) == 0,
		Validation:    validation,
		Document:      doc,
		Entities:      entities,
		Timeline:      timeline.Build(doc, entities),
		ExternalFiles: hashverify.CollectExternalFiles(doc),
		Crypto:        crypto,
		Placeholder:   true,
	}
}

// applySecurityCategory derives the security status from the envelope
// compliance outcome. Plain documents stay at the validator's default.
func applySecurityCategory(validation *validate.Result, crypto *Crypto) {
	if crypto == nil || crypto.Compliance == nil {
		return
	}
	switch {
	case len(crypto.Compliance.Errors) > 0:
		validation.Categories[validate.CategorySecurity] = validate.StatusFail
		validation.OverallStatus = validate.StatusFail
	case len(crypto.Compliance.Warnings) > 0:
		validation.Categories[validate.CategorySecurity] = validate.StatusWarning
		if validation.OverallStatus == validate.StatusGood || validation.OverallStatus == validate.StatusPending {
			validation.OverallStatus = validate.StatusWarning
		}
	default:
		validation.Categories[validate.CategorySecurity] = validate.StatusGood
	}
}

// VerifyExternalFiles fetches and checks every collected url/content_hash
// pair. It requires a configured fetcher; verification is opt-in because
// it needs network access.
func (p *Pipeline) VerifyExternalFiles(ctx context.Context, files []hashverify.ExternalFile) ([]hashverify.FetchResult, error) {
	if p.fetcher == nil {
		return nil, fmt.Errorf("no content fetcher configured")
	}
	results := make([]hashverify.FetchResult, 0, len(files))
	for _, f := range files {
		results = append(results, hashverify.FetchAndVerify(ctx, p.fetcher, f.URL, f.ContentHash))
	}
	return results, nil
}
