package license

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EntityType is the legal form of the copyright holder
type EntityType string

const (
	Individual         EntityType = "individual"
	Corporation        EntityType = "corporation"
	LLC                EntityType = "llc"
	MedicalCorporation EntityType = "medical_corporation"
)

// EntityTypes lists the accepted entity types in display order
var EntityTypes = []EntityType{Individual, Corporation, LLC, MedicalCorporation}

// Valid reports whether t is one of EntityTypes
func (t EntityType) Valid() bool {
	for _, et := range EntityTypes {
		if t == et {
			return true
		}
	}
	return false
}

// Article returns the phrase used in ownership statements, e.g. "a corporation"
func (t EntityType) Article() string {
	switch t {
	case Individual:
		return "an individual"
	case Corporation:
		return "a corporation"
	case LLC:
		return "a limited liability company"
	case MedicalCorporation:
		return "a medical corporation"
	}
	return string(t)
}

// Title returns the display form, e.g. "Medical Corporation"
func (t EntityType) Title() string {
	if t == LLC {
		return "LLC"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

// ParseEntityType parses a CLI/config value
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &TemplateError{Field: "entity type", Reason: fmt.Sprintf("unknown value %q (supported: individual, corporation, llc, medical_corporation)", s)}
	}
	return t, nil
}

// Tier selects the license template
type Tier string

const (
	TierStandard Tier = "standard"
	TierMaximum  Tier = "maximum"
)

// ParseTier parses a tier name. "military-grade" and "elevated" are accepted
// as aliases of the maximum tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "v1":
		return TierStandard, nil
	case "maximum", "max", "military-grade", "elevated", "v2":
		return TierMaximum, nil
	}
	return "", &TemplateError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q (supported: standard, maximum)", s)}
}

// Request holds the parameters a license is rendered from
type Request struct {
	EntityName      string
	EntityType      EntityType
	Jurisdiction    string
	SecondaryEntity string // non-empty switches to joint ownership
	ContactName     string
	ContactEmail    string
	County          string // forum county for the maximum tier
}

// MinEntityLength is the shortest copyright holder name accepted
const MinEntityLength = 3

// CheckEntityName rejects a holder name the copyright line cannot carry:
// empty, shorter than MinEntityLength or spanning lines
func CheckEntityName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &TemplateError{Field: "entity name", Reason: "is required"}
	}
	if len(name) < MinEntityLength {
		return &TemplateError{Field: "entity name", Reason: fmt.Sprintf("%q is shorter than %d characters", name, MinEntityLength)}
	}
	return checkLine("entity name", name)
}

// checkLine rejects control characters in a single-line field
func checkLine(field, value string) error {
	if i := strings.IndexFunc(value, unicode.IsControl); i >= 0 {
		c, _ := utf8.DecodeRuneInString(value[i:])
		return &TemplateError{Field: field, Reason: fmt.Sprintf("contains control character %q", c)}
	}
	return nil
}

// Validate checks the required fields
func (r Request) Validate() error {
	if err := CheckEntityName(r.EntityName); err != nil {
		return err
	}
	if r.EntityType == "" {
		return &TemplateError{Field: "entity type", Reason: "is required"}
	}
	if !r.EntityType.Valid() {
		return &TemplateError{Field: "entity type", Reason: fmt.Sprintf("unknown value %q", r.EntityType)}
	}
	if strings.TrimSpace(r.Jurisdiction) == "" {
		return &TemplateError{Field: "jurisdiction", Reason: "is required"}
	}
	for _, f := range []struct{ field, value string }{
		{"secondary entity", strings.TrimSpace(r.SecondaryEntity)},
		{"jurisdiction", strings.TrimSpace(r.Jurisdiction)},
		{"county", strings.TrimSpace(r.County)},
		{"contact name", strings.TrimSpace(r.ContactName)},
		{"contact email", strings.TrimSpace(r.ContactEmail)},
	} {
		if err := checkLine(f.field, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Joint reports whether the work is jointly owned
func (r Request) Joint() bool {
	return strings.TrimSpace(r.SecondaryEntity) != ""
}

// HolderName is the copyright holder line: both entities when joint
func (r Request) HolderName() string {
	if r.Joint() {
		return fmt.Sprintf("%s and %s", strings.TrimSpace(r.EntityName), strings.TrimSpace(r.SecondaryEntity))
	}
	return strings.TrimSpace(r.EntityName)
}
