package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var (
	rePhoneUS            = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`)
	rePhoneInternational = regexp.MustCompile(`(?:\+|\b)[1-9]\d{1,3}[-.\s]?\d{3,4}(?:[-.\s]?\d{2,4}){0,3}\b`)
)

var phoneKeywords = []string{"phone", "tel", "mobile", "cell", "call", "fax"}

func phoneUSRule() registry.Rule {
	return registry.Rule{
		Name: "phone_us", Category: types.CategoryPhone, Pattern: rePhoneUS, Source: rePhoneUS.String(),
		Confidence: 0.9, Hint: types.HintDigits, Description: "US phone numbers",
		Keywords: phoneKeywords,
	}
}

func phoneInternationalRule() registry.Rule {
	return registry.Rule{
		Name: "phone_international", Category: types.CategoryPhone, Pattern: rePhoneInternational, Source: rePhoneInternational.String(),
		Confidence: 0.8, Hint: types.HintDigits, Description: "International phone numbers",
		Keywords: phoneKeywords,
	}
}
