package dom

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewID returns a document-unique id for a widget part, e.g. "dialog-01hx...".
func NewID(prefix string) string {
	id := strings.ToLower(ulid.Make().String())
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
