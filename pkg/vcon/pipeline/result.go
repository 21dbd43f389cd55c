package pipeline

import (
	"github.com/quartzjer/vcon-info/pkg/vcon"
	"github.com/quartzjer/vcon-info/pkg/vcon/entity"
	"github.com/quartzjer/vcon-info/pkg/vcon/envelope"
	"github.com/quartzjer/vcon-info/pkg/vcon/hashverify"
	"github.com/quartzjer/vcon-info/pkg/vcon/timeline"
	"github.com/quartzjer/vcon-info/pkg/vcon/validate"
)

// Decryption states carried in Crypto.DecryptionState.
const (
	StateNotAttempted = "not-attempted"
	StateSucceeded    = "succeeded"
	StateFailed       = "failed"
)

// Crypto summarizes the JOSE envelope handling of one pass. For an
// encrypted-then-signed document the signed pass owns Format and the
// outer encryption is recorded in EncryptedFormat.
type Crypto struct {
	IsSigned          bool                 `json:"is_signed"`
	IsEncrypted       bool                 `json:"is_encrypted"`
	Format            string               `json:"format"`
	EncryptedFormat   string               `json:"encrypted_format,omitempty"`
	SignatureCount    int                  `json:"signature_count,omitempty"`
	Verified          *bool                `json:"verified,omitempty"`
	VerificationError string               `json:"verification_error,omitempty"`
	DecryptionState   string               `json:"decryption_state,omitempty"`
	Compliance        *envelope.Compliance `json:"compliance,omitempty"`
}

func (c *Crypto) complianceErrors() []validate.Entry {
	if c == nil || c.Compliance == nil {
		return nil
	}
	return c.Compliance.Errors
}

// Result is the complete outcome of one processing pass.
type Result struct {
	IsValid       bool                      `json:"is_valid"`
	Placeholder   bool                      `json:"placeholder,omitempty"`
	Validation    *validate.Result          `json:"validation"`
	Document      vcon.Document             `json:"document,omitempty"`
	Entities      *entity.Entities          `json:"entities,omitempty"`
	Timeline      []timeline.Event          `json:"timeline"`
	ExternalFiles []hashverify.ExternalFile `json:"external_files"`
	FetchResults  []hashverify.FetchResult  `json:"fetch_results,omitempty"`
	Crypto        *Crypto                   `json:"crypto,omitempty"`
}

// Errors returns the combined structural and compliance errors.
func (r *Result) Errors() []validate.Entry {
	var entries []validate.Entry
	if r.Validation != nil {
		entries = append(entries, r.Validation.Errors...)
	}
	entries = append(entries, r.Crypto.complianceErrors()...)
	return entries
}

// Warnings returns the combined structural and compliance warnings.
func (r *Result) Warnings() []validate.Entry {
	var entries []validate.Entry
	if r.Validation != nil {
		entries = append(entries, r.Validation.Warnings...)
	}
	if r.Crypto != nil && r.Crypto.Compliance != nil {
		entries = append(entries, r.Crypto.Compliance.Warnings...)
	}
	return entries
}

// parseErrorResult is the single-error outcome for input that is neither
// JSON nor a JOSE envelope. No further stages run.
func parseErrorResult(message string) *Result {
	validation := &validate.Result{
		Valid:  false,
		Errors: []validate.Entry{{Field: "parse_error", Message: message}},
		Categories: map[validate.Category]validate.Status{
			validate.CategorySchema:    validate.StatusFail,
			validate.CategoryRequired:  validate.StatusPending,
			validate.CategoryIntegrity: validate.StatusPending,
			validate.CategorySecurity:  validate.StatusPending,
		},
		OverallStatus: validate.StatusFail,
	}
	return &Result{
		IsValid:       false,
		Validation:    validation,
		Timeline:      []timeline.Event{},
		ExternalFiles: []hashverify.ExternalFile{},
	}
}
