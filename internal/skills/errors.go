package skills

import "fmt"

// NotFoundError reports a missing skill directory or descriptor
type NotFoundError struct {
	What string // "directory" or "descriptor"
	Path string
}

func (e *NotFoundError) Error() string {
	if e.What == "descriptor" {
		return fmt.Sprintf("not found: %s (no %s in skill directory)", e.Path, DescriptorFile)
	}
	return fmt.Sprintf("not found: skill %s %s", e.What, e.Path)
}
