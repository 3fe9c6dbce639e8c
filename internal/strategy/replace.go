package strategy

import (
	"strings"
	"unicode"

	"github.com/redactyl/piimask/internal/types"
)

// Replacer substitutes glyphs for the identifying characters of a span. With
// PreserveFormat the output keeps separators and length; otherwise it is a
// fixed-length glyph run that reveals nothing about the original.
type Replacer struct {
	opts Options
}

func (r *Replacer) Mask(value string, span types.Span) (string, error) {
	if value == "" {
		return "", nil
	}
	if !r.opts.PreserveFormat {
		return strings.Repeat(string(r.opts.MaskChar), r.opts.ReplaceLength), nil
	}
	switch span.Hint {
	case types.HintEmail:
		return r.email(value), nil
	case types.HintDigits:
		return r.glyphs(value, unicode.IsDigit, false), nil
	case types.HintCard:
		return r.glyphs(value, unicode.IsDigit, r.opts.PartialMask), nil
	default:
		return r.glyphs(value, isAlnum, r.opts.PartialMask), nil
	}
}

func isAlnum(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) }

func (r *Replacer) glyph(c rune) rune {
	if unicode.IsDigit(c) {
		return r.opts.DigitGlyph
	}
	return r.opts.LetterGlyph
}

// email masks the whole local part and keeps the domain when PreserveDomains
// is set. Without a domain to keep every character except '@' is masked.
func (r *Replacer) email(value string) string {
	at := strings.LastIndexByte(value, '@')
	if at < 0 || !r.opts.PreserveDomains {
		return r.glyphs(value, func(c rune) bool { return c != '@' }, false)
	}
	var b strings.Builder
	for range value[:at] {
		b.WriteRune(r.opts.MaskChar)
	}
	b.WriteString(value[at:])
	return b.String()
}

// glyphs masks every rune for which maskable is true. With reveal set the
// first PartialPrefix and last PartialSuffix maskable runes stay visible,
// unless that would expose half or more of them.
func (r *Replacer) glyphs(value string, maskable func(rune) bool, reveal bool) string {
	runes := []rune(value)
	total := 0
	for _, c := range runes {
		if maskable(c) {
			total++
		}
	}
	prefix, suffix := 0, 0
	if reveal {
		prefix, suffix = r.opts.PartialPrefix, r.opts.PartialSuffix
		if 2*(prefix+suffix) >= total {
			prefix, suffix = 0, 0
		}
	}
	var b strings.Builder
	b.Grow(len(value))
	seen := 0
	for _, c := range runes {
		if !maskable(c) {
			b.WriteRune(c)
			continue
		}
		if seen < prefix || seen >= total-suffix {
			b.WriteRune(c)
		} else {
			b.WriteRune(r.glyph(c))
		}
		seen++
	}
	return b.String()
}
