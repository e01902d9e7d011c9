package artifact

import "fmt"

// WriteError reports an I/O failure on one artifact
type WriteError struct {
	Path     string
	Artifact string // "license", "metadata" or "descriptor"
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the failure aborts an apply. Only the metadata
// sidecar is allowed to fail.
func (e *WriteError) Fatal() bool {
	return e.Artifact != "metadata"
}
