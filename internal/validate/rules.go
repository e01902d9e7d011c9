package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/skills"
)

// RulesVersion identifies the rule tables; bump it when a rule changes
const RulesVersion = "2.0.0"

// Outcome is what a rule check returns
type Outcome struct {
	Passed  bool
	Message string
	Detail  string
}

// Rule is one named check
type Rule struct {
	Name  string
	Check func(*Artifacts) Outcome
}

func pass(message string) Outcome {
	return Outcome{Passed: true, Message: message}
}

func fail(message string) Outcome {
	return Outcome{Message: message}
}

var (
	slugRe      = regexp.MustCompile(`[^a-z0-9]+`)
	copyrightRe = regexp.MustCompile(`Copyright \(c\) \d{4} (.+)`)
	versionRe   = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(license.VersionLinePrefix) + `(\S+)`)
)

func slug(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// ruleSet builds the ordered rules for tier
func ruleSet(tier Tier, schema *jsonschema.Schema) []Rule {
	var rules []Rule

	for _, c := range license.BasicClauses {
		rules = append(rules, clauseRule(c))
	}
	rules = append(rules,
		Rule{Name: "descriptor/license-reference", Check: descriptorReference},
		Rule{Name: "entity/copyright", Check: entityRule},
		Rule{Name: "entity/placeholders", Check: placeholderRule},
	)

	if tier.includes(TierAIProhibition) {
		for _, term := range license.AIProhibitionTerms {
			rules = append(rules, termRule(term))
		}
	}

	if !tier.includes(TierMaximum) {
		return append(rules, versionRule(">= 1.0"))
	}

	rules = append(rules, versionRule(">= 2.0"))
	for _, c := range license.MaximumClauses {
		rules = append(rules, clauseRule(c))
	}
	for _, s := range license.CriminalStatutes {
		rules = append(rules, statuteRule(s))
	}
	rules = append(rules,
		Rule{Name: "metadata/present", Check: metadataPresent},
		Rule{Name: "metadata/schema", Check: metadataSchema(schema)},
		Rule{Name: "metadata/version", Check: metadataVersion},
		Rule{Name: "metadata/entity", Check: metadataEntity},
	)
	for _, d := range license.LiquidatedDamages {
		rules = append(rules, damagesTextRule(d), damagesMetadataRule(d))
	}
	rules = append(rules, Rule{Name: "descriptor/maximum-reference", Check: descriptorMaximum})

	return rules
}

func clauseRule(c license.Clause) Rule {
	return Rule{
		Name: "clause/" + slug(c.Text),
		Check: func(a *Artifacts) Outcome {
			if strings.Contains(a.License, c.Text) {
				return pass("Found: " + c.Text)
			}
			return fail(c.Missing)
		},
	}
}

func termRule(term string) Rule {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	return Rule{
		Name: "ai-term/" + slug(term),
		Check: func(a *Artifacts) Outcome {
			if re.MatchString(a.License) {
				return pass("AI prohibition covers " + term)
			}
			return fail("Missing AI prohibition term: " + term)
		},
	}
}

func statuteRule(s license.Statute) Rule {
	return Rule{
		Name: "statute/" + slug(s.Short),
		Check: func(a *Artifacts) Outcome {
			if strings.Contains(a.License, s.Citation) {
				return pass("Cites " + s.Reference())
			}
			return fail(fmt.Sprintf("Missing criminal statute: %s", s.Reference()))
		},
	}
}

// entityRule extracts the copyright holder from the copyright line
func entityRule(a *Artifacts) Outcome {
	m := copyrightRe.FindStringSubmatch(a.License)
	if m == nil {
		return fail("Missing copyright line with year and entity name")
	}
	entity := strings.TrimSpace(m[1])
	if len(entity) < license.MinEntityLength {
		return Outcome{Message: fmt.Sprintf("Copyright entity name %q is too short", entity), Detail: entity}
	}
	return Outcome{Passed: true, Message: "Copyright holder: " + entity, Detail: entity}
}

func placeholderRule(a *Artifacts) Outcome {
	for _, marker := range license.PlaceholderMarkers {
		if strings.Contains(a.License, marker) {
			return Outcome{Message: "License contains unfilled placeholder", Detail: marker}
		}
	}
	return pass("No unfilled placeholders")
}

func versionRule(constraint string) Rule {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		panic(fmt.Sprintf("invalid version constraint %q: %v", constraint, err))
	}
	return Rule{
		Name: "version/license",
		Check: func(a *Artifacts) Outcome {
			m := versionRe.FindStringSubmatch(a.License)
			if m == nil {
				return fail("Missing license version line")
			}
			v, err := semver.NewVersion(m[1])
			if err != nil {
				return Outcome{Message: fmt.Sprintf("Unreadable license version %q", m[1]), Detail: err.Error()}
			}
			if !c.Check(v) {
				return Outcome{Message: fmt.Sprintf("License version %s does not satisfy %s", m[1], constraint), Detail: v.String()}
			}
			return Outcome{Passed: true, Message: "License version " + m[1], Detail: v.String()}
		},
	}
}

// descriptorLicense returns the license: value of the descriptor front matter
func descriptorLicense(a *Artifacts) (string, Outcome, bool) {
	if !a.HasDescriptor {
		return "", fail(skills.DescriptorFile + " not found"), false
	}
	fm, ok := skills.FrontMatter(a.Descriptor)
	if !ok {
		return "", fail(skills.DescriptorFile + " has no front matter"), false
	}
	metadata, err := skills.ParseFrontMatter(fm)
	if err != nil {
		return "", Outcome{Message: skills.DescriptorFile + " front matter is not valid YAML", Detail: err.Error()}, false
	}
	if metadata.License == "" {
		return "", fail(skills.DescriptorFile + " front matter has no license field"), false
	}
	return metadata.License, Outcome{}, true
}

func descriptorReference(a *Artifacts) Outcome {
	value, outcome, ok := descriptorLicense(a)
	if !ok {
		return outcome
	}
	if !strings.Contains(value, license.LicenseFile) {
		return Outcome{Message: skills.DescriptorFile + " license field does not reference " + license.LicenseFile, Detail: value}
	}
	return Outcome{Passed: true, Message: skills.DescriptorFile + " references " + license.LicenseFile, Detail: value}
}

func descriptorMaximum(a *Artifacts) Outcome {
	value, outcome, ok := descriptorLicense(a)
	if !ok {
		return outcome
	}
	if !strings.Contains(value, license.MaximumDescriptorMarker) {
		return Outcome{Message: skills.DescriptorFile + " does not reference maximum protection", Detail: value}
	}
	return pass(skills.DescriptorFile + " references maximum protection")
}

func metadataPresent(a *Artifacts) Outcome {
	if !a.HasMetadata {
		return fail("Missing forensic metadata file " + license.MetadataFile)
	}
	if _, err := a.ForensicMetadata(); err != nil {
		return Outcome{Message: "Invalid JSON in forensic metadata", Detail: err.Error()}
	}
	return pass("Forensic metadata present")
}

func metadataSchema(schema *jsonschema.Schema) func(*Artifacts) Outcome {
	return func(a *Artifacts) Outcome {
		if !a.HasMetadata {
			return fail("Cannot check metadata fields: " + license.MetadataFile + " not found")
		}
		var doc any
		if err := json.Unmarshal(a.Metadata, &doc); err != nil {
			return Outcome{Message: "Cannot check metadata fields: invalid JSON", Detail: err.Error()}
		}
		if err := schema.Validate(doc); err != nil {
			return Outcome{Message: "Forensic metadata is missing or has malformed fields", Detail: err.Error()}
		}
		return pass("Forensic metadata fields complete")
	}
}

func metadataVersion(a *Artifacts) Outcome {
	meta, err := a.ForensicMetadata()
	if err != nil {
		return Outcome{Message: "Cannot check metadata version", Detail: err.Error()}
	}
	if !strings.Contains(meta.LicenseVersion, license.MetadataVersionTag) {
		return Outcome{Message: "Metadata does not indicate maximum protection", Detail: meta.LicenseVersion}
	}
	return pass("Metadata version " + meta.LicenseVersion)
}

func metadataEntity(a *Artifacts) Outcome {
	meta, err := a.ForensicMetadata()
	if err != nil {
		return Outcome{Message: "Cannot check metadata entity", Detail: err.Error()}
	}
	m := copyrightRe.FindStringSubmatch(a.License)
	if m == nil || strings.TrimSpace(m[1]) != meta.Entity {
		return Outcome{Message: "Metadata entity does not match the copyright holder", Detail: meta.Entity}
	}
	return pass("Metadata entity matches copyright holder")
}

func damagesTextRule(d license.Damage) Rule {
	return Rule{
		Name: "damages/" + d.Kind + "/text",
		Check: func(a *Artifacts) Outcome {
			if strings.Contains(a.License, d.ScheduleLine()) {
				return pass("Damages schedule lists " + d.ScheduleLine())
			}
			return Outcome{Message: fmt.Sprintf("Missing %s damages (%s) in schedule", d.Label, d.Text()), Detail: d.ScheduleLine()}
		},
	}
}

func damagesMetadataRule(d license.Damage) Rule {
	return Rule{
		Name: "damages/" + d.Kind + "/metadata",
		Check: func(a *Artifacts) Outcome {
			meta, err := a.ForensicMetadata()
			if err != nil {
				return Outcome{Message: fmt.Sprintf("Cannot check %s damages amount in metadata", d.Kind), Detail: err.Error()}
			}
			got, ok := meta.Enforcement.LiquidatedDamages[d.Kind]
			if !ok {
				return fail(fmt.Sprintf("Metadata has no %s damages amount", d.Kind))
			}
			if got != d.Amount {
				return Outcome{
					Message: fmt.Sprintf("Metadata %s damages amount %d does not match %d", d.Kind, got, d.Amount),
					Detail:  fmt.Sprintf("%d", got),
				}
			}
			return pass(fmt.Sprintf("Metadata %s damages amount %d", d.Kind, got))
		},
	}
}
