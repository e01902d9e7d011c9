package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tacit-code/skills/internal/artifact"
	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/skills"
)

const descriptor = "---\nname: demo\ndescription: Demo skill\n---\n\n# Demo\n"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return e
}

// appliedDir returns a skill directory with a freshly applied license
func appliedDir(t *testing.T, req license.Request, tier license.Tier) string {
	t.Helper()
	return appliedTo(t, descriptor, req, tier)
}

// appliedTo applies a license over the given descriptor content
func appliedTo(t *testing.T, content string, req license.Request, tier license.Tier) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, skills.DescriptorFile), []byte(content), 0644))

	renderer := license.NewRenderer(license.WithEntropy(bytes.NewReader(bytes.Repeat([]byte{0x17}, 64))))
	w := artifact.NewWriter(
		artifact.WithRenderer(renderer),
		artifact.WithClock(func() time.Time { return time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC) }),
	)
	_, err := w.Apply(dir, req, tier)
	require.NoError(t, err)
	return dir
}

func acme() license.Request {
	return license.Request{EntityName: "Acme Corp", EntityType: license.Corporation, Jurisdiction: "California"}
}

func rewrite(t *testing.T, path, old, new string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), old)
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(string(data), old, new)), 0644))
}

func failedRules(r *Report) []string {
	var names []string
	for _, res := range r.Failures() {
		names = append(names, res.Rule)
	}
	return names
}

func TestRenderedLicensesPassTheirTiers(t *testing.T) {
	tests := []struct {
		render license.Tier
		tier   Tier
		passed bool
	}{
		{license.TierStandard, TierBasic, true},
		{license.TierStandard, TierAIProhibition, true},
		{license.TierStandard, TierMaximum, false},
		{license.TierMaximum, TierBasic, true},
		{license.TierMaximum, TierAIProhibition, true},
		{license.TierMaximum, TierMaximum, true},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(string(tt.render)+"/"+string(tt.tier), func(t *testing.T) {
			report, err := e.Validate(appliedDir(t, acme(), tt.render), tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.passed, report.Passed(), "failures: %v", failedRules(report))
			assert.Equal(t, RulesVersion, report.RulesVersion)
		})
	}
}

func TestJointLicensePassesMaximum(t *testing.T) {
	req := acme()
	req.SecondaryEntity = "Road Runner LLC"
	req.ContactEmail = "legal@acme.test"

	report, err := newTestEngine(t).Validate(appliedDir(t, req, license.TierMaximum), TierMaximum)
	require.NoError(t, err)
	assert.True(t, report.Passed(), "failures: %v", failedRules(report))
}

func TestEntityRoundTrip(t *testing.T) {
	report, err := newTestEngine(t).Validate(appliedDir(t, acme(), license.TierStandard), TierBasic)
	require.NoError(t, err)

	res, ok := report.Result("entity/copyright")
	require.True(t, ok)
	assert.True(t, res.Passed)
	assert.Equal(t, "Acme Corp", res.Detail)
}

func TestAppliedDescriptorVariantsPass(t *testing.T) {
	tests := []struct {
		name    string
		content string
		prefix  string
	}{
		{"byte order mark", "\ufeff---\nname: demo\ndescription: d\n---\nbody\n", "\ufeff---\nname: demo\ndescription: d\nlicense: "},
		{"space before colon", "---\nname: demo\nlicense : old\ndescription: d\n---\nbody\n", "---\nname: demo\nlicense: "},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		for _, tier := range []license.Tier{license.TierStandard, license.TierMaximum} {
			t.Run(tt.name+"/"+string(tier), func(t *testing.T) {
				dir := appliedTo(t, tt.content, acme(), tier)

				patched, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(patched), tt.prefix), "descriptor: %q", patched)
				assert.Equal(t, 1, strings.Count(string(patched), "license"), "descriptor: %q", patched)
				assert.True(t, strings.HasSuffix(string(patched), "\n---\nbody\n"))

				validateTier := TierBasic
				if tier == license.TierMaximum {
					validateTier = TierMaximum
				}
				report, err := e.Validate(dir, validateTier)
				require.NoError(t, err)
				assert.True(t, report.Passed(), "failures: %v", failedRules(report))
			})
		}
	}
}

func TestMissingGoverningLaw(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierStandard)
	rewrite(t, filepath.Join(dir, license.LicenseFile), "GOVERNING LAW", "APPLICABLE RULES")

	report, err := newTestEngine(t).Validate(dir, TierBasic)
	require.NoError(t, err)
	assert.False(t, report.Passed())

	shown, omitted := report.Summary(5)
	assert.Equal(t, []string{"Missing governing law section"}, shown)
	assert.Zero(t, omitted)
}

func TestDamagesMismatchIsDistinct(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierMaximum)
	rewrite(t, filepath.Join(dir, license.MetadataFile), `"ai_training": 250000`, `"ai_training": 25000`)

	report, err := newTestEngine(t).Validate(dir, TierMaximum)
	require.NoError(t, err)
	assert.Equal(t, []string{"damages/ai_training/metadata"}, failedRules(report))

	res, _ := report.Result("damages/ai_training/metadata")
	assert.Contains(t, res.Message, "25000")
}

func TestDamagesTextMissing(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierMaximum)
	rewrite(t, filepath.Join(dir, license.LicenseFile), "Circumvention Attempt: $500,000 per instance", "Circumvention Attempt: negotiable")

	report, err := newTestEngine(t).Validate(dir, TierMaximum)
	require.NoError(t, err)
	assert.Equal(t, []string{"damages/circumvention/text"}, failedRules(report))
}

func TestMissingMetadata(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierMaximum)
	require.NoError(t, os.Remove(filepath.Join(dir, license.MetadataFile)))

	report, err := newTestEngine(t).Validate(dir, TierMaximum)
	require.NoError(t, err)

	failed := failedRules(report)
	assert.Contains(t, failed, "metadata/present")
	assert.Contains(t, failed, "metadata/schema")
	assert.Contains(t, failed, "damages/ai_training/metadata")
	assert.NotContains(t, failed, "damages/ai_training/text")
}

func TestMalformedMetadata(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierMaximum)
	rewrite(t, filepath.Join(dir, license.MetadataFile), `"blockchain_marker": "BTC-`, `"blockchain_marker": "XYZ-`)

	report, err := newTestEngine(t).Validate(dir, TierMaximum)
	require.NoError(t, err)
	assert.Equal(t, []string{"metadata/schema"}, failedRules(report))
}

func TestPlaceholderAndShortEntity(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierStandard)
	rewrite(t, filepath.Join(dir, license.LicenseFile), "Copyright (c) 2025 Acme Corp", "Copyright (c) 2025 AB")
	rewrite(t, filepath.Join(dir, license.LicenseFile), "Copyright Holder: Acme Corp", "Copyright Holder: [YOUR NAME]")

	report, err := newTestEngine(t).Validate(dir, TierBasic)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"entity/copyright", "entity/placeholders"}, failedRules(report))

	res, _ := report.Result("entity/placeholders")
	assert.Equal(t, "[YOUR NAME", res.Detail)
}

func TestDescriptorChecks(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierMaximum)
	rewrite(t, filepath.Join(dir, skills.DescriptorFile), license.MaximumDescriptorValue, "Proprietary")

	report, err := newTestEngine(t).Validate(dir, TierMaximum)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"descriptor/license-reference", "descriptor/maximum-reference"}, failedRules(report))

	require.NoError(t, os.Remove(filepath.Join(dir, skills.DescriptorFile)))
	report, err = newTestEngine(t).Validate(dir, TierBasic)
	require.NoError(t, err, "a missing descriptor is a failed rule, not an error")
	res, _ := report.Result("descriptor/license-reference")
	assert.False(t, res.Passed)
	assert.Contains(t, res.Message, skills.DescriptorFile)
}

func TestVersionRule(t *testing.T) {
	dir := appliedDir(t, acme(), license.TierMaximum)
	rewrite(t, filepath.Join(dir, license.LicenseFile), "License Version: 2.0 MAXIMUM PROTECTION", "License Version: 1.5")

	report, err := newTestEngine(t).Validate(dir, TierMaximum)
	require.NoError(t, err)
	assert.Equal(t, []string{"version/license"}, failedRules(report))

	report, err = newTestEngine(t).Validate(dir, TierBasic)
	require.NoError(t, err)
	assert.True(t, report.Passed())
}

func TestNoLicenseFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, skills.DescriptorFile), []byte(descriptor), 0644))

	report, err := newTestEngine(t).Validate(dir, TierBasic)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.False(t, report.Passed())
	assert.Equal(t, "LICENSE.txt not found", report.Results[0].Message)
}

func TestMissingDirectory(t *testing.T) {
	_, err := newTestEngine(t).Validate(filepath.Join(t.TempDir(), "gone"), TierBasic)
	var nf *skills.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "directory", nf.What)
}

func TestSummaryTruncates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, license.LicenseFile), []byte("nothing useful\n"), 0644))

	report, err := newTestEngine(t).Validate(dir, TierAIProhibition)
	require.NoError(t, err)

	total := len(report.Failures())
	require.Greater(t, total, 5)

	shown, omitted := report.Summary(5)
	assert.Len(t, shown, 5)
	assert.Equal(t, total-5, omitted)
	assert.Equal(t, report.Failures()[0].Message, shown[0])

	all, omitted := report.Summary(0)
	assert.Len(t, all, total)
	assert.Zero(t, omitted)
}

func TestRuleNamesUnique(t *testing.T) {
	e := newTestEngine(t)
	for _, tier := range Tiers {
		seen := map[string]bool{}
		for _, rule := range e.Rules(tier) {
			assert.False(t, seen[rule.Name], "duplicate rule %s in %s", rule.Name, tier)
			seen[rule.Name] = true
		}
	}
	assert.Greater(t, len(e.Rules(TierMaximum)), len(e.Rules(TierAIProhibition)))
	assert.Greater(t, len(e.Rules(TierAIProhibition)), len(e.Rules(TierBasic)))
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{
		"":               TierBasic,
		"basic":          TierBasic,
		"AI":             TierAIProhibition,
		"ai-prohibition": TierAIProhibition,
		"military-grade": TierMaximum,
		"maximum":        TierMaximum,
	} {
		got, err := ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTier("extreme")
	assert.Error(t, err)
}
