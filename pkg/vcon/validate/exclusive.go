package validate

import (
	"fmt"
	"strings"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Rule 9: redacted, appended, and group are mutually exclusive. More than
// one populated field is a single error naming every offender; more than
// one present-but-empty field is only a warning.
func (v *Validator) checkExclusiveFields(c *collector, doc vcon.Document) {
	var withContent, empty []string
	for _, name := range []string{"redacted", "appended", "group"} {
		value, present := doc[name]
		if !present {
			continue
		}
		if vcon.HasContent(value) {
			withContent = append(withContent, name)
		} else {
			empty = append(empty, name)
		}
	}

	if len(withContent) > 1 {
		c.errorf(CategoryIntegrity, "vcon",
			strings.Join(withContent, ", ")+" parameters are mutually exclusive and cannot all have values")
	} else if len(empty) > 1 {
		c.warnf(CategoryIntegrity, "vcon",
			strings.Join(empty, ", ")+" parameters are present but empty - these are mutually exclusive fields")
	}
}

// Rule 10: must_support and extensions must be arrays of non-empty strings;
// each entry should be a bare identifier or an http(s) URI.
func (v *Validator) checkExtensionArrays(c *collector, doc vcon.Document) {
	for _, field := range []string{"must_support", "extensions"} {
		raw, present := doc[field]
		if !present {
			continue
		}
		items, ok := raw.([]any)
		if !ok {
			c.errorf(CategoryIntegrity, field, field+" must be an array of strings")
			continue
		}
		for i, item := range items {
			name, ok := item.(string)
			switch {
			case !ok:
				c.errorf(CategoryIntegrity, indexPath(field, i, ""), "Extension names must be strings")
			case strings.TrimSpace(name) == "":
				c.errorf(CategoryIntegrity, indexPath(field, i, ""), "Extension names cannot be empty")
			case !ValidExtensionName(name):
				c.warnf(CategoryIntegrity, indexPath(field, i, ""),
					fmt.Sprintf("Extension name %q should be a valid identifier or URI", name))
			}
		}
	}
}
