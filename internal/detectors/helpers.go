package detectors

import (
	"strings"
)

const (
	defaultContextWindow = 32
	defaultContextBonus  = 0.10
)

// hasContext reports whether any keyword appears as a whole word in the
// window bytes of text preceding start.
func hasContext(text string, start, window int, keywords []string) bool {
	if len(keywords) == 0 || window <= 0 || start <= 0 {
		return false
	}
	from := start - window
	if from < 0 {
		from = 0
	}
	w := strings.ToLower(text[from:start])
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		for off := 0; ; {
			i := strings.Index(w[off:], kw)
			if i < 0 {
				break
			}
			i += off
			end := i + len(kw)
			if (i == 0 || !isWordByte(w[i-1])) && (end == len(w) || !isWordByte(w[end])) {
				return true
			}
			off = i + 1
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// insideDigitRun reports whether a match that begins or ends with a digit is
// glued to further digits, i.e. it is a fragment of a longer number.
func insideDigitRun(text string, start, end int) bool {
	if start > 0 && isDigit(text[start]) && isDigit(text[start-1]) {
		return true
	}
	return end < len(text) && isDigit(text[end-1]) && isDigit(text[end])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
