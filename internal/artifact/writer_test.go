package artifact

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/skills"
)

const descriptor = `---
name: demo
description: Demo skill
---

# Demo

Body text.
`

var fixedNow = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	renderer := license.NewRenderer(license.WithEntropy(bytes.NewReader(bytes.Repeat([]byte{0x5c}, 64))))
	return NewWriter(
		WithRenderer(renderer),
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func newSkillDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, skills.DescriptorFile), []byte(content), 0644))
	}
	return dir
}

func acme() license.Request {
	return license.Request{EntityName: "Acme Corp", EntityType: license.Corporation, Jurisdiction: "California"}
}

func TestApplyStandard(t *testing.T) {
	dir := newSkillDir(t, descriptor)

	result, err := newTestWriter(t).Apply(dir, acme(), license.TierStandard)
	require.NoError(t, err)

	text, err := os.ReadFile(filepath.Join(dir, license.LicenseFile))
	require.NoError(t, err)
	assert.Contains(t, string(text), license.StandardTitle)
	assert.Contains(t, string(text), "Copyright (c) 2025 Acme Corp")

	_, err = os.Stat(filepath.Join(dir, license.MetadataFile))
	assert.True(t, os.IsNotExist(err), "standard tier writes no sidecar")
	assert.Empty(t, result.MetadataPath)

	patched, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t,
		"---\nname: demo\ndescription: Demo skill\nlicense: "+license.StandardDescriptorValue+"\n---\n\n# Demo\n\nBody text.\n",
		string(patched))
	assert.True(t, result.DescriptorChanged)
	assert.False(t, result.DescriptorReplaced)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "demo", result.Skill)
	assert.Equal(t, license.Corporation, result.EntityType)
}

func TestApplyMaximum(t *testing.T) {
	dir := newSkillDir(t, descriptor)

	result, err := newTestWriter(t).Apply(dir, acme(), license.TierMaximum)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	data, err := os.ReadFile(result.MetadataPath)
	require.NoError(t, err)

	var meta license.ForensicMetadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "Acme Corp", meta.Entity)
	assert.Equal(t, result.Dir, meta.SkillPath)
	assert.Equal(t, result.Rendered.Signature, meta.DigitalSignature)
	assert.Equal(t, int64(500000), meta.Enforcement.LiquidatedDamages["circumvention"])

	patched, err := os.ReadFile(result.DescriptorPath)
	require.NoError(t, err)
	assert.Contains(t, string(patched), "license: "+license.MaximumDescriptorValue+"\n")
}

func TestApplyTwiceIsIdempotent(t *testing.T) {
	dir := newSkillDir(t, descriptor)
	w := newTestWriter(t)

	_, err := w.Apply(dir, acme(), license.TierStandard)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
	require.NoError(t, err)

	result, err := w.Apply(dir, acme(), license.TierStandard)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.False(t, result.DescriptorChanged)
}

func TestApplyUpgradeReplacesLicenseLine(t *testing.T) {
	dir := newSkillDir(t, descriptor)
	w := newTestWriter(t)

	_, err := w.Apply(dir, acme(), license.TierStandard)
	require.NoError(t, err)
	result, err := w.Apply(dir, acme(), license.TierMaximum)
	require.NoError(t, err)
	assert.True(t, result.DescriptorReplaced)

	patched, err := os.ReadFile(result.DescriptorPath)
	require.NoError(t, err)
	assert.NotContains(t, string(patched), license.StandardDescriptorValue)
	assert.Equal(t, 1, bytes.Count(patched, []byte("license:")))
}

func TestApplyMissingDescriptor(t *testing.T) {
	dir := newSkillDir(t, "")

	_, err := newTestWriter(t).Apply(dir, acme(), license.TierMaximum)
	var nf *skills.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "descriptor", nf.What)
	assert.Contains(t, err.Error(), skills.DescriptorFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written")
}

func TestApplyMissingDirectory(t *testing.T) {
	_, err := newTestWriter(t).Apply(filepath.Join(t.TempDir(), "nope"), acme(), license.TierStandard)
	var nf *skills.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "directory", nf.What)
}

func TestApplyTemplateErrorWritesNothing(t *testing.T) {
	dir := newSkillDir(t, descriptor)

	_, err := newTestWriter(t).Apply(dir, license.Request{EntityName: "Acme Corp", EntityType: license.Corporation}, license.TierMaximum)
	var te *license.TemplateError
	require.ErrorAs(t, err, &te)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	content, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, descriptor, string(content))
}

func TestApplyLicenseWriteFailureIsFatal(t *testing.T) {
	dir := newSkillDir(t, descriptor)
	require.NoError(t, os.Mkdir(filepath.Join(dir, license.LicenseFile), 0755))

	_, err := newTestWriter(t).Apply(dir, acme(), license.TierMaximum)
	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "license", we.Artifact)
	assert.True(t, we.Fatal())

	content, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, descriptor, string(content), "descriptor untouched after fatal failure")
}

func TestApplyMetadataWriteFailureIsWarning(t *testing.T) {
	dir := newSkillDir(t, descriptor)
	require.NoError(t, os.Mkdir(filepath.Join(dir, license.MetadataFile), 0755))

	result, err := newTestWriter(t).Apply(dir, acme(), license.TierMaximum)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], license.MetadataFile)
	assert.Empty(t, result.MetadataPath)

	_, err = os.Stat(result.LicensePath)
	assert.NoError(t, err)
	patched, err := os.ReadFile(result.DescriptorPath)
	require.NoError(t, err)
	assert.Contains(t, string(patched), license.MaximumDescriptorValue)
}

func TestApplyInvalidDescriptorNameIsWarning(t *testing.T) {
	dir := newSkillDir(t, "---\nname: Demo Skill\ndescription: Demo skill\n---\n\n# Demo\n")

	result, err := newTestWriter(t).Apply(dir, acme(), license.TierStandard)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "invalid name")
	assert.Equal(t, filepath.Base(dir), result.Skill)
	assert.True(t, result.DescriptorChanged)
}

func TestApplyBrokenFrontMatterWritesNothing(t *testing.T) {
	broken := "---\nname: [demo\n---\n"
	dir := newSkillDir(t, broken)

	_, err := newTestWriter(t).Apply(dir, acme(), license.TierStandard)
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, license.LicenseFile))
	assert.True(t, os.IsNotExist(err))
	content, err := os.ReadFile(filepath.Join(dir, skills.DescriptorFile))
	require.NoError(t, err)
	assert.Equal(t, broken, string(content))
}
