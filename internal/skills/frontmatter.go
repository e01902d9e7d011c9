package skills

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// bom is the UTF-8 byte order mark some editors put in front of a file
const bom = "\ufeff"

// SetField sets a top-level scalar key in the descriptor's front matter and
// returns the new content. Every other byte of content is preserved,
// including a leading byte order mark.
//
// Keys are located by parsing the front matter with yaml.v3, so quoted keys
// and keys followed by spaces before the colon are found. An existing key (and
// the lines of its value) is replaced in place. Otherwise the line is
// inserted after the value of the key named by after, or at the end of the
// front matter when after is absent. Content with no front matter gets a new
// block prepended. replaced reports whether an existing key was overwritten.
func SetField(content, key, value, after string) (out string, replaced bool, err error) {
	prefix := ""
	if strings.HasPrefix(content, bom) {
		prefix, content = bom, content[len(bom):]
	}

	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}

	scalar, err := yamlScalar(value)
	if err != nil {
		return "", false, err
	}
	line := key + ": " + scalar
	if err := checkField(line, key, value); err != nil {
		return "", false, err
	}
	line += eol

	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return prefix + "---" + eol + line + "---" + eol + content, false, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			end = i
			break
		}
	}
	if end == -1 {
		return "", false, fmt.Errorf("invalid frontmatter: missing closing delimiter")
	}

	blocks, err := topLevelKeys(lines, end)
	if err != nil {
		return "", false, err
	}

	var result []string
	if b, ok := blocks[key]; ok {
		result = append(result, lines[:b.start]...)
		result = append(result, line)
		result = append(result, lines[b.stop:]...)
		replaced = true
	} else {
		at := end
		if b, ok := blocks[after]; ok && after != "" {
			at = b.stop
		}
		result = append(result, lines[:at]...)
		result = append(result, line)
		result = append(result, lines[at:]...)
	}

	return prefix + strings.Join(result, ""), replaced, nil
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r\n") == "---"
}

// keyBlock is the [start, stop) line range of a top-level key and its value
type keyBlock struct {
	start int
	stop  int
}

// topLevelKeys parses the front matter held in lines[1:end] and returns the
// line range of each top-level key. A value ends before the next key, and
// trailing blank or unindented comment lines are left outside it.
func topLevelKeys(lines []string, end int) (map[string]keyBlock, error) {
	blocks := make(map[string]keyBlock)

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "")), &doc); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if len(doc.Content) == 0 {
		return blocks, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || root.Style&yaml.FlowStyle != 0 {
		return nil, fmt.Errorf("invalid frontmatter: expected a block mapping of fields")
	}

	// body line n is lines[n]
	for i := 0; i+1 < len(root.Content); i += 2 {
		k := root.Content[i]
		start := k.Line
		limit := end
		if i+2 < len(root.Content) {
			limit = root.Content[i+2].Line
		}

		stop := limit
		for stop > start+1 && isTrailer(lines[stop-1]) {
			stop--
		}
		if _, dup := blocks[k.Value]; !dup {
			blocks[k.Value] = keyBlock{start: start, stop: stop}
		}
	}
	return blocks, nil
}

// isTrailer reports lines that may follow a value without belonging to it
func isTrailer(line string) bool {
	trimmed := strings.TrimRight(line, " \t\r\n")
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// yamlScalar renders value as a single-line YAML scalar
func yamlScalar(value string) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter value: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	if strings.ContainsAny(s, "\r\n") {
		s = strconv.Quote(value)
	}
	return s, nil
}

// checkField confirms a generated line decodes back to the intended value
func checkField(line, key, want string) error {
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(line), &fields); err != nil {
		return fmt.Errorf("failed to encode frontmatter %s: %w", key, err)
	}
	if got, _ := fields[key].(string); got != want {
		return fmt.Errorf("frontmatter %s reads back as %q, want %q", key, got, want)
	}
	return nil
}
