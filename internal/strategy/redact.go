package strategy

import (
	"strings"

	"github.com/redactyl/piimask/internal/types"
)

const categoryPlaceholder = "{{CATEGORY}}"

// Redactor replaces a span with a constant placeholder.
type Redactor struct {
	Placeholder string
}

func (r Redactor) Mask(value string, span types.Span) (string, error) {
	if value == "" {
		return "", nil
	}
	p := r.Placeholder
	if p == "" {
		p = DefaultRedactPlaceholder
	}
	return strings.ReplaceAll(p, categoryPlaceholder, span.Category.Label()), nil
}
