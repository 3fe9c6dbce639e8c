// Package whitelist holds values that are exempt from detection. Entries are
// exact literals, glob patterns such as "*@company.com", or regular
// expressions written with an "re:" prefix.
package whitelist

import (
	"fmt"
	"regexp"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

const regexPrefix = "re:"

// Filter answers whether a detected value is exempt.
type Filter struct {
	literals map[string]bool
	globs    []string
	regexes  []*regexp.Regexp
}

// New validates and compiles entries. Blank entries are ignored.
func New(entries []string) (*Filter, error) {
	f := &Filter{literals: map[string]bool{}}
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		switch {
		case strings.HasPrefix(e, regexPrefix):
			re, err := regexp.Compile("^(?:" + strings.TrimPrefix(e, regexPrefix) + ")$")
			if err != nil {
				return nil, fmt.Errorf("whitelist entry %q: %w", e, err)
			}
			f.regexes = append(f.regexes, re)
		case isGlob(e):
			if !doublestar.ValidatePattern(e) {
				return nil, fmt.Errorf("whitelist entry %q: malformed glob", e)
			}
			f.globs = append(f.globs, e)
		default:
			f.literals[e] = true
		}
	}
	return f, nil
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// Allowed reports whether value is exempt. A nil filter exempts nothing.
func (f *Filter) Allowed(value string) bool {
	if f == nil || value == "" {
		return false
	}
	if f.literals[value] {
		return true
	}
	for _, g := range f.globs {
		if ok, _ := doublestar.Match(g, value); ok {
			return true
		}
	}
	for _, re := range f.regexes {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// Len returns the number of entries held.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.literals) + len(f.globs) + len(f.regexes)
}
