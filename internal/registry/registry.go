package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/redactyl/piimask/internal/types"
)

// Validator inspects a raw match and returns the adjusted confidence, or false
// to drop the match entirely.
type Validator func(match string, confidence float64) (float64, bool)

// Rule is a named detection rule. Rules are immutable once registered.
type Rule struct {
	Name        string
	Category    types.Category
	Pattern     *regexp.Regexp
	Source      string
	Confidence  float64
	Hint        types.FormatHint
	Keywords    []string
	Description string
	Validate    Validator
	Custom      bool
}

// Compile builds a custom rule from a pattern source. Custom patterns match
// case-insensitively unless the source sets its own flags.
func Compile(name string, category types.Category, source string, confidence float64) (Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Rule{}, &InvalidPatternError{Name: name, Err: errors.New("empty name")}
	}
	if source == "" {
		return Rule{}, &InvalidPatternError{Name: name, Err: errors.New("empty pattern")}
	}
	expr := source
	if !strings.HasPrefix(expr, "(?") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, &InvalidPatternError{Name: name, Err: err}
	}
	if category == "" {
		category = types.CategoryCustom
	}
	r := Rule{
		Name:        name,
		Category:    category,
		Pattern:     re,
		Source:      source,
		Confidence:  confidence,
		Hint:        types.HintGeneric,
		Description: "Custom pattern: " + name,
		Custom:      true,
	}
	if err := r.check(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func (r Rule) check() error {
	if r.Name == "" {
		return &InvalidPatternError{Name: r.Name, Err: errors.New("empty name")}
	}
	if r.Pattern == nil {
		return &InvalidPatternError{Name: r.Name, Err: errors.New("nil matcher")}
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return &InvalidPatternError{Name: r.Name, Err: fmt.Errorf("confidence %.2f outside [0,1]", r.Confidence)}
	}
	return nil
}

// Registry holds detection rules in priority order: built-ins first, then
// custom rules in registration order. It is safe for concurrent reads.
type Registry struct {
	mu     sync.RWMutex
	rules  []Rule
	byName map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: map[string]int{}}
}

// Register appends a rule. A rule whose name is taken is rejected unless
// override is set, in which case it replaces the old rule in its priority slot.
func (r *Registry) Register(rule Rule, override bool) error {
	if err := rule.check(); err != nil {
		return err
	}
	if rule.Hint == "" {
		rule.Hint = types.HintGeneric
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byName[rule.Name]; ok {
		if !override {
			return &DuplicateRuleError{Name: rule.Name}
		}
		r.rules[i] = rule
		return nil
	}
	r.byName[rule.Name] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// Resolve returns the rule registered under name.
func (r *Registry) Resolve(name string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[name]
	if !ok {
		return Rule{}, &UnknownPatternError{Name: name}
	}
	return r.rules[i], nil
}

// All returns a copy of every rule in priority order.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Names returns rule names in priority order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Name
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// ByCategory returns the rules of one category in priority order.
func (r *Registry) ByCategory(c types.Category) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Rule
	for _, rule := range r.rules {
		if rule.Category == c {
			out = append(out, rule)
		}
	}
	return out
}

// Categories lists the distinct categories present, in first-seen order.
func (r *Registry) Categories() []types.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[types.Category]bool{}
	var out []types.Category
	for _, rule := range r.rules {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			out = append(out, rule.Category)
		}
	}
	return out
}

// Clone returns an independent registry with the same rules. Compiled
// matchers are shared; they are safe for concurrent use.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &Registry{
		rules:  make([]Rule, len(r.rules)),
		byName: make(map[string]int, len(r.byName)),
	}
	copy(c.rules, r.rules)
	for k, v := range r.byName {
		c.byName[k] = v
	}
	return c
}
