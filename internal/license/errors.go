package license

import "fmt"

// TemplateError reports a request or template that cannot be rendered.
// Nothing has been written when it is returned.
type TemplateError struct {
	Field  string
	Reason string
	Err    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template error: %s %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
