package validate

import (
	"fmt"

	"github.com/quartzjer/vcon-info/pkg/vcon"
)

// Rule 5: the parties array and each party's identifiers. Loose identifier
// grammars (tel, sip, email, did) warn on mismatch; uuid and gmlpos claim a
// precise machine-checkable format, so those are errors when malformed.
func (v *Validator) checkParties(c *collector, doc vcon.Document) {
	raw, present := doc["parties"]
	if !present {
		return
	}
	parties, ok := raw.([]any)
	if !ok {
		c.errorf(CategoryIntegrity, "parties", "parties must be an array")
		return
	}
	if len(parties) == 0 {
		c.warnf(CategoryIntegrity, "parties", "parties array is empty")
		return
	}
	for i, p := range parties {
		party, ok := p.(map[string]any)
		if !ok {
			c.errorf(CategoryIntegrity, indexPath("parties", i, ""), "party must be an object")
			continue
		}
		v.checkParty(c, party, i)
	}
}

func (v *Validator) checkParty(c *collector, party map[string]any, i int) {
	identifying := []string{"tel", "sip", "mailto", "email", "name", "did", "uuid"}
	hasIdentifier := false
	for _, key := range identifying {
		if vcon.HasContent(party[key]) {
			hasIdentifier = true
			break
		}
	}
	if !hasIdentifier {
		c.warnf(CategoryIntegrity, indexPath("parties", i, ""), "party has no identifying information")
	}

	if tel, ok := party["tel"].(string); ok && !ValidTel(tel) {
		c.warnf(CategoryIntegrity, indexPath("parties", i, "tel"), "Invalid tel URL format")
	}
	if sip, ok := party["sip"].(string); ok && !ValidSIP(sip) {
		c.warnf(CategoryIntegrity, indexPath("parties", i, "sip"), "Invalid SIP address format")
	}
	for _, key := range []string{"mailto", "email"} {
		if addr, ok := party[key].(string); ok && !ValidEmail(addr) {
			c.warnf(CategoryIntegrity, indexPath("parties", i, key), "Invalid email format")
		}
	}
	if did, ok := party["did"].(string); ok && !ValidDID(did) {
		c.warnf(CategoryIntegrity, indexPath("parties", i, "did"), "Invalid DID format")
	}
	if stir, ok := party["stir"].(string); ok && !ValidSTIR(stir) {
		c.warnf(CategoryIntegrity, indexPath("parties", i, "stir"), "Invalid STIR PASSporT format")
	}

	// name without validation is allowed but the draft says validation
	// SHOULD accompany it.
	if vcon.HasContent(party["name"]) && !vcon.HasContent(party["validation"]) {
		c.warnf(CategoryIntegrity, indexPath("parties", i, "validation"),
			"validation SHOULD be provided when name is present")
	}

	if id, ok := party["uuid"].(string); ok && !ValidUUID(id) {
		c.errorf(CategoryIntegrity, indexPath("parties", i, "uuid"), "Invalid UUID format")
	}
	if pos, ok := party["gmlpos"].(string); ok && !ValidGMLPos(pos) {
		c.errorf(CategoryIntegrity, indexPath("parties", i, "gmlpos"),
			fmt.Sprintf("Invalid gmlpos %q (expected \"latitude longitude\")", pos))
	}
}
