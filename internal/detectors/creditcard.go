package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var reCreditCard = regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)

func creditCardRule() registry.Rule {
	return registry.Rule{
		Name: "credit_card", Category: types.CategoryCreditCard, Pattern: reCreditCard, Source: reCreditCard.String(),
		Confidence: 0.9, Hint: types.HintCard, Description: "Credit card numbers",
		Keywords: []string{"card", "credit", "visa", "mastercard", "amex", "cc"},
	}
}
