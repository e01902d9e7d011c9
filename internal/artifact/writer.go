package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/skills"
)

// Result describes what Apply wrote
type Result struct {
	Dir                string
	Skill              string // descriptor name, or the directory name
	Tier               license.Tier
	Entity             string
	EntityType         license.EntityType
	LicensePath        string
	MetadataPath       string // empty when no sidecar was written
	DescriptorPath     string
	DescriptorReplaced bool // an existing license: line was overwritten
	DescriptorChanged  bool
	Warnings           []string
	Rendered           *license.Rendered
}

// Writer renders a license and persists it into a skill directory
type Writer struct {
	renderer *license.Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Writer
type Option func(*Writer)

// WithRenderer sets the renderer, e.g. one carrying template overrides
func WithRenderer(r *license.Renderer) Option {
	return func(w *Writer) {
		w.renderer = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock sets the time source for dates and signatures
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a writer over the embedded templates
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		renderer: license.NewRenderer(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Apply renders the tier's license for req and writes it into dir: the license
// file, the metadata sidecar (maximum tier only) and the descriptor's license:
// field. Missing directories, missing descriptors and render failures are
// reported before anything is written.
func (w *Writer) Apply(dir string, req license.Request, tier license.Tier) (*Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve skill directory: %w", err)
	}

	skill, err := skills.Open(abs)
	if err != nil {
		return nil, err
	}

	descriptor, err := os.ReadFile(skill.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", skills.DescriptorFile, err)
	}

	rendered, err := w.renderer.Render(req, tier, abs, w.now())
	if err != nil {
		return nil, err
	}

	patched, replaced, err := skills.SetField(string(descriptor), "license", tier.DescriptorValue(), "description")
	if err != nil {
		return nil, fmt.Errorf("failed to patch %s: %w", skill.Descriptor, err)
	}

	var sidecar []byte
	var sidecarErr error
	if tier == license.TierMaximum {
		meta, err := license.NewForensicMetadata(rendered)
		if err == nil {
			sidecar, err = meta.Marshal()
		}
		sidecarErr = err
	}

	result := &Result{
		Dir:                abs,
		Skill:              skill.Name,
		Tier:               tier,
		Entity:             rendered.EntityName,
		EntityType:         req.EntityType,
		LicensePath:        filepath.Join(abs, license.LicenseFile),
		DescriptorPath:     skill.Descriptor,
		DescriptorReplaced: replaced,
		Rendered:           rendered,
	}

	if skill.Invalid != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", skill.Descriptor, skill.Invalid))
		w.logger.Warn("descriptor front matter is invalid", zap.String("path", skill.Descriptor), zap.Error(skill.Invalid))
	}

	if err := writeFile(result.LicensePath, []byte(rendered.Text), 0644); err != nil {
		return nil, &WriteError{Path: result.LicensePath, Artifact: "license", Err: err}
	}
	w.logger.Info("license written", zap.String("skill", skill.Name), zap.String("path", result.LicensePath), zap.String("tier", string(tier)))

	if tier == license.TierMaximum {
		path := filepath.Join(abs, license.MetadataFile)
		if sidecarErr == nil {
			sidecarErr = writeFile(path, sidecar, 0644)
		}
		if sidecarErr != nil {
			werr := &WriteError{Path: path, Artifact: "metadata", Err: sidecarErr}
			result.Warnings = append(result.Warnings, werr.Error())
			w.logger.Warn("metadata sidecar not written", zap.String("path", path), zap.Error(sidecarErr))
		} else {
			result.MetadataPath = path
			w.logger.Info("metadata sidecar written", zap.String("path", path))
		}
	}

	if patched == string(descriptor) {
		w.logger.Debug("descriptor unchanged", zap.String("path", skill.Descriptor))
		return result, nil
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(skill.Descriptor); err == nil {
		perm = info.Mode().Perm()
	}
	if err := writeFile(skill.Descriptor, []byte(patched), perm); err != nil {
		return nil, &WriteError{Path: skill.Descriptor, Artifact: "descriptor", Err: err}
	}
	result.DescriptorChanged = true
	w.logger.Debug("descriptor patched", zap.String("path", skill.Descriptor), zap.Bool("replaced", replaced))

	return result, nil
}

// writeFile writes data to path, closing the handle on every path
func writeFile(path string, data []byte, perm os.FileMode) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = f.Write(data)
	return err
}
