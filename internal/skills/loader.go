package skills

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Open checks that dir is a skill directory and loads its descriptor
// metadata. A descriptor that fails to parse or validate is not an error
// here: the problem is kept in Skill.Invalid and the directory name is used
// when no valid name is available.
func Open(dir string) (Skill, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Skill{}, &NotFoundError{What: "directory", Path: dir}
		}
		return Skill{}, fmt.Errorf("failed to stat skill directory: %w", err)
	}
	if !info.IsDir() {
		return Skill{}, &NotFoundError{What: "directory", Path: dir}
	}

	descriptor := filepath.Join(dir, DescriptorFile)
	content, err := os.ReadFile(descriptor)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Skill{}, &NotFoundError{What: "descriptor", Path: descriptor}
		}
		return Skill{}, fmt.Errorf("failed to read %s: %w", DescriptorFile, err)
	}

	skill := Skill{
		Name:       filepath.Base(dir),
		Dir:        dir,
		Descriptor: descriptor,
	}

	metadata, _, err := ParseSkillMarkdown(string(content))
	skill.Metadata = metadata
	if err != nil {
		skill.Invalid = err
		return skill, nil
	}
	if metadata.Name != "" {
		skill.Name = metadata.Name
	}

	return skill, nil
}

// Resolve expands directory arguments to skill directories. Plain paths are
// returned as given (made absolute) so that a missing directory is reported
// by the caller; glob patterns, including **, expand to the matching
// directories that contain a descriptor.
func Resolve(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		dirs, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, d := range dirs {
			if !seen[d] {
				seen[d] = true
				resolved = append(resolved, d)
			}
		}
	}

	return resolved, nil
}

func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		return []string{abs}, nil
	}

	abs, err := filepath.Abs(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(abs)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var dirs []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(match, DescriptorFile)); err != nil {
			continue
		}
		dirs = append(dirs, match)
	}

	if len(dirs) == 0 {
		return nil, fmt.Errorf("no skill directories match pattern: %s", pattern)
	}

	return dirs, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
