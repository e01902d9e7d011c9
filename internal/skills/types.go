package skills

// DescriptorFile is the file that marks a directory as a skill
const DescriptorFile = "SKILL.md"

// Metadata represents the frontmatter of a SKILL.md file
type Metadata struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	License       string            `yaml:"license"`
	Compatibility string            `yaml:"compatibility"`
	Metadata      map[string]string `yaml:"metadata"`
	AllowedTools  string            `yaml:"allowed-tools"`
}

// Skill is a resolved skill directory
type Skill struct {
	Name       string
	Dir        string
	Descriptor string // path of SKILL.md
	Metadata   Metadata
	Invalid    error // why the descriptor front matter was rejected, if it was
}
