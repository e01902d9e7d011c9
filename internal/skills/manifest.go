package skills

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

// frontMatterRe matches a leading front-matter block, capturing its body
var frontMatterRe = regexp.MustCompile(`(?ms)\A---[ \t]*\r?\n(.*?)^---[ \t]*\r?$`)

// FrontMatter returns the raw front-matter body of a descriptor
func FrontMatter(content string) (string, bool) {
	m := frontMatterRe.FindStringSubmatch(strings.TrimPrefix(content, bom))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseFrontMatter decodes a front-matter body without validating the
// name or description
func ParseFrontMatter(frontmatter string) (Metadata, error) {
	var metadata Metadata
	if err := yaml.Unmarshal([]byte(frontmatter), &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return metadata, nil
}

// ParseSkillMarkdown splits a SKILL.md file into its metadata and body. The
// metadata is returned even when Validate rejects it, together with that
// error.
func ParseSkillMarkdown(content string) (Metadata, string, error) {
	content = strings.TrimPrefix(content, bom)

	loc := frontMatterRe.FindStringSubmatchIndex(content)
	if loc == nil {
		if isDelimiter(strings.SplitAfterN(content, "\n", 2)[0]) {
			return Metadata{}, content, fmt.Errorf("invalid frontmatter: missing closing delimiter")
		}
		return Metadata{}, content, nil
	}

	metadata, err := ParseFrontMatter(content[loc[2]:loc[3]])
	if err != nil {
		return Metadata{}, content, err
	}

	// drop the delimiter's line ending and one blank line
	body := strings.TrimPrefix(content[loc[1]:], "\n")
	if rest, ok := strings.CutPrefix(body, "\r\n"); ok {
		body = rest
	} else {
		body = strings.TrimPrefix(body, "\n")
	}

	return metadata, body, metadata.Validate()
}

// Validate checks the name and description fields that are present
func (m Metadata) Validate() error {
	if m.Name != "" {
		if err := validateName(m.Name); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
	}
	if m.Description != "" {
		if err := validateDescription(m.Description); err != nil {
			return fmt.Errorf("invalid description: %w", err)
		}
	}
	return nil
}

// validateName accepts 1-64 lowercase letters, digits and single inner hyphens
func validateName(name string) error {
	if n := len(name); n == 0 || n > maxNameLength {
		return fmt.Errorf("name must be 1-%d characters, got %d", maxNameLength, n)
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("name %q may only contain lowercase letters, digits and hyphens", name)
		}
	}
	switch {
	case name[0] == '-', name[len(name)-1] == '-':
		return fmt.Errorf("name %q must not start or end with a hyphen", name)
	case strings.Contains(name, "--"):
		return fmt.Errorf("name %q must not contain consecutive hyphens", name)
	}
	return nil
}

func validateDescription(desc string) error {
	if n := len(desc); n > maxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters, got %d", maxDescriptionLength, n)
	}
	return nil
}
