package primitives

import (
	"errors"
	"fmt"
)

// ErrMissingProvider is the sentinel behind every ContextError.
var ErrMissingProvider = errors.New("primitives: missing provider")

// ContextError reports a widget part built outside the widget that must
// own it, such as a dialog title without its dialog.
type ContextError struct {
	Part     string
	Provider string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("%s must be used within %s", e.Part, e.Provider)
}

func (e *ContextError) Unwrap() error { return ErrMissingProvider }

func missing(part, provider string) error {
	return &ContextError{Part: part, Provider: provider}
}
