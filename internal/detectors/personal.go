package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var (
	reNameTitle = regexp.MustCompile(`\b(?i:mr|mrs|ms|dr|prof|sir|madam)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	reDateBirth = regexp.MustCompile(`\b(?:0[1-9]|1[0-2])[-/](?:0[1-9]|[12][0-9]|3[01])[-/](?:19|20)\d{2}\b`)
)

func nameTitleRule() registry.Rule {
	return registry.Rule{
		Name: "name_title", Category: types.CategoryName, Pattern: reNameTitle, Source: reNameTitle.String(),
		Confidence: 0.8, Hint: types.HintGeneric, Description: "Names with titles",
		Keywords: []string{"name", "patient", "customer", "contact"},
	}
}

func dateBirthRule() registry.Rule {
	return registry.Rule{
		Name: "date_birth", Category: types.CategoryDate, Pattern: reDateBirth, Source: reDateBirth.String(),
		Confidence: 0.8, Hint: types.HintDigits, Description: "Dates (potential birth dates)",
		Keywords: []string{"dob", "birth", "born"},
	}
}
