package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var (
	reStreetAddress = regexp.MustCompile(`(?i)\b\d{1,6}\s+(?:[A-Za-z0-9.-]+\s+){0,5}(?:Street|St|Avenue|Ave|Road|Rd|Drive|Dr|Lane|Ln|Boulevard|Blvd|Way|Place|Pl)\b`)
	reZipCode       = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
)

func streetAddressRule() registry.Rule {
	return registry.Rule{
		Name: "street_address", Category: types.CategoryAddress, Pattern: reStreetAddress, Source: reStreetAddress.String(),
		Confidence: 0.7, Hint: types.HintGeneric, Description: "Street addresses",
		Keywords: []string{"address", "addr", "street", "lives", "residence"},
	}
}

func zipCodeRule() registry.Rule {
	return registry.Rule{
		Name: "zip_code", Category: types.CategoryZipCode, Pattern: reZipCode, Source: reZipCode.String(),
		Confidence: 0.8, Hint: types.HintDigits, Description: "US ZIP codes",
		Keywords: []string{"zip", "postal", "postcode"},
	}
}
