package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var reSSN = regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)

func ssnRule() registry.Rule {
	return registry.Rule{
		Name: "ssn", Category: types.CategorySSN, Pattern: reSSN, Source: reSSN.String(),
		Confidence: 0.95, Hint: types.HintDigits, Description: "US Social Security Numbers",
		Keywords: []string{"ssn", "social security", "soc sec"},
	}
}
