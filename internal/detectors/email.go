package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

func emailRule() registry.Rule {
	return registry.Rule{
		Name: "email", Category: types.CategoryEmail, Pattern: reEmail, Source: reEmail.String(),
		Confidence: 0.95, Hint: types.HintEmail, Description: "Email addresses",
		Keywords: []string{"email", "e-mail", "mail", "contact"},
	}
}
