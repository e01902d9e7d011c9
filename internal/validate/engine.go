package validate

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/tacit-code/skills/internal/license"
)

const schemaURL = "forensic_metadata.schema.json"

// Engine evaluates rule sets against skill directories
type Engine struct {
	logger *zap.Logger
	schema *jsonschema.Schema
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine compiles the metadata schema and returns an engine
func NewEngine(opts ...Option) (*Engine, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(license.MetadataSchema)); err != nil {
		return nil, fmt.Errorf("failed to load metadata schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile metadata schema: %w", err)
	}

	e := &Engine{
		logger: zap.NewNop(),
		schema: schema,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules returns the ordered rule set of tier
func (e *Engine) Rules(tier Tier) []Rule {
	return ruleSet(tier, e.schema)
}

// Validate loads dir and evaluates tier's rules. A missing directory is an
// error; a failing rule is a report with Passed() == false.
func (e *Engine) Validate(dir string, tier Tier) (*Report, error) {
	if tier.rank() < 0 {
		return nil, fmt.Errorf("unknown validation tier %q", tier)
	}
	a, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(a, tier), nil
}

// Evaluate runs tier's rules in order. Without a license file the report
// holds that single failure.
func (e *Engine) Evaluate(a *Artifacts, tier Tier) *Report {
	report := &Report{
		Dir:          a.Dir,
		Tier:         tier,
		RulesVersion: RulesVersion,
	}

	if !a.HasLicense {
		report.Results = []Result{{
			Rule:    "license/present",
			Message: license.LicenseFile + " not found",
		}}
		e.logger.Info("validation finished", zap.String("dir", a.Dir), zap.String("tier", string(tier)), zap.Bool("passed", false))
		return report
	}

	for _, rule := range e.Rules(tier) {
		out := rule.Check(a)
		report.Results = append(report.Results, Result{
			Rule:    rule.Name,
			Passed:  out.Passed,
			Message: out.Message,
			Detail:  out.Detail,
		})
		e.logger.Debug("rule evaluated", zap.String("rule", rule.Name), zap.Bool("passed", out.Passed))
	}

	e.logger.Info("validation finished",
		zap.String("dir", a.Dir),
		zap.String("tier", string(tier)),
		zap.Bool("passed", report.Passed()),
		zap.Int("failures", len(report.Failures())),
	)
	return report
}
