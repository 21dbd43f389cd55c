// Package validate implements the vCon structural rule engine. It checks a
// parsed plain-vCon document against the field, format, cross-reference,
// and mutual-exclusion rules of draft-ietf-vcon-vcon-core and reports every
// violation with a field path. Nothing here mutates the document and no
// rule short-circuits another.
package validate

import (
	"fmt"
	"slices"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Validator holds the immutable version policy for a validation pass.
// The zero value is not usable; construct with New.
type Validator struct {
	supported []string
	current   string
}

// New returns a Validator for the given supported-version set. Empty
// arguments fall back to the package defaults.
func New(supported []string, current string) *Validator {
	if len(supported) == 0 {
		supported = vcon.DefaultSupportedVersions
	}
	if current == "" {
		current = vcon.CurrentVersion
	}
	return &Validator{supported: slices.Clone(supported), current: current}
}

// Validate runs every structural rule against doc and returns the complete
// diagnostic list. It never panics on malformed shapes; shape problems
// become entries.
func (v *Validator) Validate(doc vcon.Document) *Result {
	c := newCollector()

	v.checkVersion(c, doc)
	v.checkRequiredFields(c, doc)
	v.checkUUID(c, doc)
	v.checkTimestamps(c, doc)
	v.checkParties(c, doc)
	v.checkDialog(c, doc)
	v.checkAnalysis(c, doc)
	v.checkAttachments(c, doc)
	v.checkExclusiveFields(c, doc)
	v.checkExtensionArrays(c, doc)
	v.checkVersionFields(c, doc)

	return c.result()
}

// Rule 1: the vcon version field.
func (v *Validator) checkVersion(c *collector, doc vcon.Document) {
	raw, present := doc["vcon"]
	if !present {
		c.errorf(CategorySchema, "vcon", "Missing required vCon version field")
		return
	}
	version, ok := raw.(string)
	if !ok {
		c.errorf(CategorySchema, "vcon", "vCon version must be a string")
		return
	}
	if slices.Contains(v.supported, version) {
		if version != v.current {
			c.warnf(CategorySchema, "vcon",
				fmt.Sprintf("vCon version %s is valid but not current (latest: %s)", version, v.current))
		}
		return
	}
	if vcon.WellFormedVersion(version) {
		c.warnf(CategorySchema, "vcon",
			fmt.Sprintf("vCon version %s may not be fully supported", version))
		return
	}
	c.errorf(CategorySchema, "vcon",
		fmt.Sprintf("Invalid vCon version format: %s (expected format: x.y.z)", version))
}

// Rule 2: required top-level fields.
func (v *Validator) checkRequiredFields(c *collector, doc vcon.Document) {
	for _, field := range vcon.RequiredFields {
		if _, present := doc[field]; !present {
			c.errorf(CategoryRequired, field, "Missing required field: "+field)
		}
	}
}

// Rule 3: UUID format. Malformed syntax is an error; the permissive regex
// already admits versions 1-8.
func (v *Validator) checkUUID(c *collector, doc vcon.Document) {
	raw, present := doc["uuid"]
	if !present {
		return
	}
	id, ok := raw.(string)
	if !ok || !ValidUUID(id) {
		c.errorf(CategoryIntegrity, "uuid", "Invalid UUID format (must be RFC 4122 compliant)")
	}
}

// Rule 4: timestamp fields.
func (v *Validator) checkTimestamps(c *collector, doc vcon.Document) {
	for _, field := range []string{"created_at", "updated_at"} {
		raw, present := doc[field]
		if !present {
			continue
		}
		ts, ok := raw.(string)
		if !ok || !ValidRFC3339(ts) {
			c.errorf(CategoryIntegrity, field, field+" must be in RFC3339 date format")
		}
	}
}

// indexPath formats an element path such as "dialog[2].parties".
func indexPath(array string, i int, field string) string {
	if field == "" {
		return fmt.Sprintf("%s[%d]", array, i)
	}
	return fmt.Sprintf("%s[%d].%s", array, i, field)
}
