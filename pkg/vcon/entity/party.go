// Package entity derives presentation-ready structures from a validated
// vCon document. Everything here is a pure transform: bad references
// degrade into explicit placeholders instead of errors, since structural
// validation has already reported them.
package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quartzjer/vcon-info/pkg/vcon"
	"github.com/quartzjer/vcon-info/pkg/vcon/validate"
)

// Identifier is one tagged party identifier with its display form and a
// format-validity flag.
type Identifier struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Display string `json:"display"`
	Valid   bool   `json:"valid"`
}

// ValidationInfo classifies a party's free-text validation descriptor.
type ValidationInfo struct {
	Raw     string `json:"raw"`
	Type    string `json:"type"`
	Display string `json:"display"`
}

// GMLPosition is a parsed "latitude longitude" pair. Parsed is false when
// the raw string did not yield two coordinates.
type GMLPosition struct {
	Raw       string  `json:"raw"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Parsed    bool    `json:"parsed"`
	Display   string  `json:"display"`
}

// CivicAddress carries the raw civic address value plus a flattened
// display string.
type CivicAddress struct {
	Raw     any    `json:"raw"`
	Display string `json:"display"`
}

// Location groups a party's geographic hints.
type Location struct {
	GMLPos *GMLPosition  `json:"gmlpos,omitempty"`
	Civic  *CivicAddress `json:"civic,omitempty"`
}

// Party is the enriched view of one parties array element. Index is the
// only stable reference key; dialog and attachment entries refer to
// parties by index alone.
type Party struct {
	Index       int             `json:"index"`
	Name        string          `json:"name,omitempty"`
	Identifiers []Identifier    `json:"identifiers"`
	Validation  *ValidationInfo `json:"validation,omitempty"`
	Location    *Location       `json:"location,omitempty"`
	Timezone    string          `json:"timezone,omitempty"`
	JCard       any             `json:"jcard,omitempty"`
}

// Display picks the best human-readable label for the party.
func (p *Party) Display() string {
	if p.Name != "" {
		return p.Name
	}
	for _, id := range p.Identifiers {
		if id.Display != "" {
			return id.Display
		}
	}
	return fmt.Sprintf("party %d", p.Index)
}

// BuildParties enriches the parties array. Non-object elements become
// bare placeholder parties so indices stay aligned with the source array.
func BuildParties(doc vcon.Document) []Party {
	raw, _ := doc.Array("parties")
	parties := make([]Party, 0, len(raw))
	for i, p := range raw {
		obj, ok := p.(map[string]any)
		if !ok {
			parties = append(parties, Party{Index: i, Identifiers: []Identifier{}})
			continue
		}
		parties = append(parties, buildParty(obj, i))
	}
	return parties
}

func buildParty(obj map[string]any, index int) Party {
	party := Party{Index: index, Identifiers: []Identifier{}}
	party.Name, _ = obj["name"].(string)
	party.Timezone, _ = obj["timezone"].(string)
	party.JCard = obj["jCard"]

	if tel, ok := obj["tel"].(string); ok {
		party.Identifiers = append(party.Identifiers, Identifier{
			Type: "tel", Value: tel, Display: formatPhoneNumber(tel), Valid: validate.ValidTel(tel),
		})
	}
	if sip, ok := obj["sip"].(string); ok {
		party.Identifiers = append(party.Identifiers, Identifier{
			Type: "sip", Value: sip, Display: sip, Valid: validate.ValidSIP(sip),
		})
	}
	for _, key := range []string{"mailto", "email"} {
		if addr, ok := obj[key].(string); ok {
			party.Identifiers = append(party.Identifiers, Identifier{
				Type: "email", Value: addr,
				Display: strings.TrimPrefix(addr, "mailto:"),
				Valid:   validate.ValidEmail(addr),
			})
			break
		}
	}
	if did, ok := obj["did"].(string); ok {
		party.Identifiers = append(party.Identifiers, Identifier{
			Type: "did", Value: did, Display: did, Valid: validate.ValidDID(did),
		})
	}
	if stir, ok := obj["stir"].(string); ok {
		party.Identifiers = append(party.Identifiers, Identifier{
			Type: "stir", Value: stir, Display: "PASSporT Token", Valid: validate.ValidSTIR(stir),
		})
	}
	if id, ok := obj["uuid"].(string); ok {
		party.Identifiers = append(party.Identifiers, Identifier{
			Type: "uuid", Value: id, Display: id, Valid: validate.ValidUUID(id),
		})
	}

	if v, ok := obj["validation"].(string); ok && v != "" {
		party.Validation = classifyValidation(v)
	}
	party.Location = buildLocation(obj)
	return party
}

var validationTypes = []struct{ needle, kind string }{
	{"ssn", "government_id"},
	{"social security", "government_id"},
	{"dob", "personal_info"},
	{"date of birth", "personal_info"},
	{"user id", "credential"},
	{"password", "credential"},
	{"username", "credential"},
	{"pin", "credential"},
	{"id card", "document"},
	{"passport", "document"},
	{"driver license", "document"},
}

func classifyValidation(raw string) *ValidationInfo {
	info := &ValidationInfo{Raw: raw, Type: "custom"}
	if raw == "none" {
		info.Type = "none"
		info.Display = "None"
		return info
	}
	lower := strings.ToLower(raw)
	for _, vt := range validationTypes {
		if strings.Contains(lower, vt.needle) {
			info.Type = vt.kind
			break
		}
	}
	info.Display = capitalize(raw)
	return info
}

// capitalize uppercases the first rune. Slicing by byte would corrupt a
// multibyte leading character.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func buildLocation(obj map[string]any) *Location {
	gmlpos, hasGML := obj["gmlpos"].(string)
	civic, hasCivic := obj["civicaddress"]
	if !hasGML && !hasCivic {
		return nil
	}
	loc := &Location{}
	if hasGML {
		loc.GMLPos = parseGMLPos(gmlpos)
	}
	if hasCivic {
		loc.Civic = &CivicAddress{Raw: civic, Display: formatCivicAddress(civic)}
	}
	return loc
}

func parseGMLPos(raw string) *GMLPosition {
	pos := &GMLPosition{Raw: raw, Display: raw}
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) < 2 {
		return pos
	}
	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return pos
	}
	pos.Latitude = lat
	pos.Longitude = lon
	pos.Parsed = true
	pos.Display = fmt.Sprintf("%.6f, %.6f", lat, lon)
	return pos
}

func formatCivicAddress(civic any) string {
	switch v := civic.(type) {
	case string:
		return v
	case map[string]any:
		var parts []string
		for _, key := range []string{"street", "city", "state", "postal", "country"} {
			if s, ok := v[key].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return "Civic Address"
}

var nanpRe = regexp.MustCompile(`^\+1(\d{3})(\d{3})(\d{4})$`)

func formatPhoneNumber(tel string) string {
	number := strings.TrimPrefix(tel, "tel:")
	if m := nanpRe.FindStringSubmatch(number); m != nil {
		return fmt.Sprintf("+1 (%s) %s-%s", m[1], m[2], m[3])
	}
	return number
}
