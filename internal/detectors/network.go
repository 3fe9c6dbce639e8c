package detectors

import (
	"regexp"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
)

var (
	reIPv4 = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)
	reMAC  = regexp.MustCompile(`\b(?:[0-9A-Fa-f]{2}[:-]){5}[0-9A-Fa-f]{2}\b`)
	reURL  = regexp.MustCompile(`https?://[-\w.]+(?::[0-9]+)?(?:/[\w/.-]*(?:\?[\w&=%.-]*)?(?:#[\w.-]*)?)?`)
)

func ipRule() registry.Rule {
	return registry.Rule{
		Name: "ip_address", Category: types.CategoryIP, Pattern: reIPv4, Source: reIPv4.String(),
		Confidence: 0.95, Hint: types.HintDigits, Description: "IPv4 addresses",
		Keywords: []string{"ip", "host", "addr", "client"},
	}
}

func macRule() registry.Rule {
	return registry.Rule{
		Name: "mac_address", Category: types.CategoryMAC, Pattern: reMAC, Source: reMAC.String(),
		Confidence: 0.95, Hint: types.HintGeneric, Description: "MAC addresses",
		Keywords: []string{"mac", "hwaddr", "ether"},
	}
}

func urlRule() registry.Rule {
	return registry.Rule{
		Name: "url", Category: types.CategoryURL, Pattern: reURL, Source: reURL.String(),
		Confidence: 0.9, Hint: types.HintGeneric, Description: "URLs",
		Keywords: []string{"url", "link", "website", "homepage"},
	}
}
