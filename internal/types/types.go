package types

import "strings"

// Category is the kind of personal data a rule detects.
type Category string

const (
	CategoryEmail      Category = "email"
	CategoryPhone      Category = "phone"
	CategorySSN        Category = "ssn"
	CategoryCreditCard Category = "credit_card"
	CategoryIP         Category = "ip_address"
	CategoryMAC        Category = "mac_address"
	CategoryURL        Category = "url"
	CategoryAddress    Category = "address"
	CategoryZipCode    Category = "zip_code"
	CategoryDate       Category = "date"
	CategoryName       Category = "name"
	CategoryCustom     Category = "custom"
)

// Label is the upper-case form used in tokens and placeholders (EMAIL, CREDIT_CARD).
func (c Category) Label() string {
	return strings.ToUpper(string(c))
}

// Categories lists the built-in categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryEmail, CategoryPhone, CategorySSN, CategoryCreditCard, CategoryIP,
		CategoryMAC, CategoryURL, CategoryAddress, CategoryZipCode, CategoryDate,
		CategoryName, CategoryCustom,
	}
}

// FormatHint tells format-preserving replacement which characters of a match
// carry identifying information.
type FormatHint string

const (
	// HintGeneric masks letters and digits and keeps everything else.
	HintGeneric FormatHint = "generic"
	// HintEmail masks the local part of an address.
	HintEmail FormatHint = "email"
	// HintDigits masks digits only (phones, SSNs, dates, IPs).
	HintDigits FormatHint = "digits"
	// HintCard masks digits and honours partial reveal (last four of a card).
	HintCard FormatHint = "card"
)

// Strategy selects how a detected span is transformed.
type Strategy string

const (
	StrategyReplace  Strategy = "replace"
	StrategyRedact   Strategy = "redact"
	StrategyEncrypt  Strategy = "encrypt"
	StrategyTokenize Strategy = "tokenize"
	StrategyFaker    Strategy = "faker"
)

// Strategies returns every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyReplace, StrategyRedact, StrategyEncrypt, StrategyTokenize, StrategyFaker}
}

// ParseStrategy maps a case-insensitive name to a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	want := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Strategies() {
		if st == want {
			return st, true
		}
	}
	return "", false
}

// Span is a detected piece of PII inside a single string. Start and End are
// byte offsets into the source string.
type Span struct {
	Start      int
	End        int
	Rule       string
	Category   Category
	Hint       FormatHint
	Confidence float64
	Value      string
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Finding describes a detection at a path inside a structured value. It never
// carries the matched value so it is safe to log and report.
type Finding struct {
	File       string   `json:"file,omitempty" yaml:"file,omitempty"`
	Path       string   `json:"path" yaml:"path"`
	Rule       string   `json:"rule" yaml:"rule"`
	Category   Category `json:"category" yaml:"category"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Start      int      `json:"start" yaml:"start"`
	End        int      `json:"end" yaml:"end"`
}
