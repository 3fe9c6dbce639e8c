package detectors

import (
	v "github.com/redactyl/piimask/internal/validate"
)

// EnableValidators controls whether rule-specific validators run after matching.
var EnableValidators = true

// ruleValidators adjust the base confidence of a match or drop it. Custom
// rules may carry their own validator on the registry.Rule instead.
var ruleValidators = map[string]func(match string, conf float64) (float64, bool){
	"credit_card": func(m string, conf float64) (float64, bool) {
		if !v.Luhn(m) {
			return conf - 0.15, true
		}
		if conf < 0.95 {
			conf = 0.95
		}
		return conf, true
	},
	"ssn": func(m string, conf float64) (float64, bool) {
		if !v.LooksLikeSSN(m) {
			return conf - 0.15, true
		}
		return conf, true
	},
	"ip_address": func(m string, conf float64) (float64, bool) {
		return conf, v.IsIPv4(m)
	},
	"mac_address": func(m string, conf float64) (float64, bool) {
		return conf, v.IsMAC(m)
	},
	"date_birth": func(m string, conf float64) (float64, bool) {
		return conf, v.IsCalendarDate(m)
	},
	"phone_international": func(m string, conf float64) (float64, bool) {
		n := len(v.Digits(m))
		return conf, n >= 7 && n <= 15
	},
}
