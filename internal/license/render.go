package license

import (
	"bytes"
	"crypto/rand"
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DateLayout is the "Last Updated" date format
const DateLayout = "January 2, 2006"

// Rendered is one filled-in license. It is never modified after Render returns.
type Rendered struct {
	Tier       Tier
	Text       string
	EntityName string // holder line, both entities when joint
	SkillPath  string
	Generated  time.Time
	Signature  string // maximum tier only
	Marker     string // maximum tier only
}

// Renderer fills license templates
type Renderer struct {
	sources map[Tier]string
	entropy io.Reader
}

// Option configures a Renderer
type Option func(*Renderer)

// WithTemplate replaces the embedded template for a tier
func WithTemplate(tier Tier, text string) Option {
	return func(r *Renderer) {
		r.sources[tier] = text
	}
}

// WithEntropy sets the random source for marker tokens
func WithEntropy(entropy io.Reader) Option {
	return func(r *Renderer) {
		r.entropy = entropy
	}
}

// NewRenderer creates a renderer over the embedded templates
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		sources: make(map[Tier]string),
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render fills the tier's template for req. skillPath and now feed the
// signature and dates; Render has no side effects.
func (r *Renderer) Render(req Request, tier Tier, skillPath string, now time.Time) (*Rendered, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	src, err := r.source(tier)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(string(tier)).
		Option("missingkey=error").
		Funcs(template.FuncMap{"amount": amount}).
		Parse(src)
	if err != nil {
		return nil, &TemplateError{Field: string(tier) + " template", Reason: "cannot be parsed", Err: err}
	}

	out := &Rendered{
		Tier:       tier,
		EntityName: req.HolderName(),
		SkillPath:  skillPath,
		Generated:  now,
	}

	if tier == TierMaximum {
		out.Signature = Signature(skillPath, out.EntityName, now)
		out.Marker, err = Marker(r.entropy)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData(req, out)); err != nil {
		return nil, &TemplateError{Field: string(tier) + " template", Reason: "references a value the renderer does not supply", Err: err}
	}
	out.Text = buf.String()

	return out, nil
}

func (r *Renderer) source(tier Tier) (string, error) {
	if src, ok := r.sources[tier]; ok {
		return src, nil
	}
	data, err := templateFS.ReadFile("templates/" + string(tier) + ".tmpl")
	if err != nil {
		return "", &TemplateError{Field: "tier", Reason: fmt.Sprintf("%q has no template", tier), Err: err}
	}
	return string(data), nil
}

// plurality is decided once per render and used for every agreement token
type plurality struct {
	noun      string
	nounUpper string
	verb      string
}

func pluralize(joint bool) plurality {
	if joint {
		return plurality{noun: "s", nounUpper: "S", verb: ""}
	}
	return plurality{noun: "", nounUpper: "", verb: "s"}
}

func templateData(req Request, out *Rendered) map[string]any {
	joint := req.Joint()
	p := pluralize(joint)

	data := map[string]any{
		"Year":               out.Generated.Year(),
		"Date":               out.Generated.Format(DateLayout),
		"EntityName":         out.EntityName,
		"OwnershipStatement": ownershipStatement(req, out.Tier),
		"Joint":              joint,
		"Plural":             p.noun,
		"PluralUpper":        p.nounUpper,
		"Verb":               p.verb,
		"ContactInfo":        contactBlock(req),
		"Jurisdiction":       strings.TrimSpace(req.Jurisdiction),
	}

	if out.Tier == TierMaximum {
		county := strings.TrimSpace(req.County)
		if county == "" {
			county = DefaultCounty
		}
		data["County"] = county
		data["DigitalSignature"] = out.Signature
		data["BlockchainMarker"] = out.Marker
		data["Damages"] = LiquidatedDamages
		data["Statutes"] = CriminalStatutes
	}

	return data
}

func amount(kind string) (string, error) {
	d, ok := DamageFor(kind)
	if !ok {
		return "", fmt.Errorf("no liquidated damages entry %q", kind)
	}
	return d.Text(), nil
}

func ownershipStatement(req Request, tier Tier) string {
	entity := strings.TrimSpace(req.EntityName)

	var sb strings.Builder
	switch {
	case req.Joint():
		fmt.Fprintf(&sb, "This work is jointly owned by %s, %s, and %s.", entity, req.EntityType.Article(), strings.TrimSpace(req.SecondaryEntity))
		sb.WriteString("\n\n")
		sb.WriteString(JointRightsClause)
	case req.EntityType == Individual:
		fmt.Fprintf(&sb, "This work is solely owned by %s, %s.", entity, req.EntityType.Article())
	default:
		fmt.Fprintf(&sb, "This work is owned by %s, %s.", entity, req.EntityType.Article())
	}

	if tier == TierMaximum {
		sb.WriteString("\n\nThis work constitutes valuable trade secrets and proprietary information.")
		sb.WriteString("\nUnauthorized use may result in both civil and criminal prosecution.")
	}

	return sb.String()
}

// contactBlock picks exactly one of: name and email, email only, or neither.
// A contact name without an email counts as neither.
func contactBlock(req Request) string {
	entity := strings.TrimSpace(req.EntityName)
	name := strings.TrimSpace(req.ContactName)
	email := strings.TrimSpace(req.ContactEmail)

	var lines []string
	switch {
	case name != "" && email != "":
		lines = []string{name, entity, "Email: " + email, PermissionFeeNotice}
	case email != "":
		lines = []string{entity, "Email: " + email, PermissionFeeNotice}
	default:
		lines = []string{entity, SealedContact}
	}
	return strings.Join(lines, "\n")
}
