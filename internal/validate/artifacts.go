package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/skills"
)

// Artifacts holds the files of one skill directory as read from disk.
// Missing files are recorded, not treated as errors.
type Artifacts struct {
	Dir           string
	License       string
	HasLicense    bool
	Descriptor    string
	HasDescriptor bool
	Metadata      []byte
	HasMetadata   bool

	parsed  bool
	meta    *license.ForensicMetadata
	metaErr error
}

// Load reads the license, descriptor and metadata sidecar of dir. Only a
// missing directory is an error.
func Load(dir string) (*Artifacts, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve skill directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil, &skills.NotFoundError{What: "directory", Path: abs}
		}
		return nil, fmt.Errorf("failed to stat skill directory: %w", err)
	}

	a := &Artifacts{Dir: abs}

	if data, ok, err := readOptional(filepath.Join(abs, license.LicenseFile)); err != nil {
		return nil, err
	} else if ok {
		a.License, a.HasLicense = string(data), true
	}

	if data, ok, err := readOptional(filepath.Join(abs, skills.DescriptorFile)); err != nil {
		return nil, err
	} else if ok {
		a.Descriptor, a.HasDescriptor = string(data), true
	}

	if data, ok, err := readOptional(filepath.Join(abs, license.MetadataFile)); err != nil {
		return nil, err
	} else if ok {
		a.Metadata, a.HasMetadata = data, true
	}

	return a, nil
}

// ForensicMetadata decodes the sidecar once and caches the result
func (a *Artifacts) ForensicMetadata() (*license.ForensicMetadata, error) {
	if !a.parsed {
		a.parsed = true
		if !a.HasMetadata {
			a.metaErr = fmt.Errorf("%s not found", license.MetadataFile)
		} else {
			a.meta, a.metaErr = license.ParseForensicMetadata(a.Metadata)
		}
	}
	return a.meta, a.metaErr
}

func readOptional(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, true, nil
}
