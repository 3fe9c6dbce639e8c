package detectors

import (
	"sort"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/whitelist"
)

// builtins lists rule constructors in priority order: the most specific
// formats come first so that they win ties against looser rules.
var builtins = []func() registry.Rule{
	ssnRule, creditCardRule, emailRule, urlRule, ipRule, macRule,
	phoneUSRule, dateBirthRule, streetAddressRule, nameTitleRule,
	zipCodeRule, phoneInternationalRule,
}

// Builtins returns the built-in rules in priority order with their validators attached.
func Builtins() []registry.Rule {
	out := make([]registry.Rule, 0, len(builtins))
	for _, mk := range builtins {
		r := mk()
		if fn, ok := ruleValidators[r.Name]; ok {
			r.Validate = fn
		}
		out = append(out, r)
	}
	return out
}

// IDs returns the names of the built-in rules in priority order.
func IDs() []string {
	rules := Builtins()
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

// NewRegistry returns a registry seeded with the built-in rules.
func NewRegistry() (*registry.Registry, error) {
	reg := registry.New()
	for _, r := range Builtins() {
		if err := reg.Register(r, false); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Options tune a Detector. Zero values select the defaults.
type Options struct {
	// MinConfidence drops matches scoring below it (inclusive threshold).
	MinConfidence float64
	Whitelist     *whitelist.Filter
	// ContextWindow is the number of bytes before a match searched for rule
	// keywords. Negative disables context scoring.
	ContextWindow int
	ContextBonus  float64
	// Enable restricts detection to the named rules; Disable removes rules.
	Enable       []string
	Disable      []string
	NoValidators bool
}

// Detector applies a fixed set of rules to text.
type Detector struct {
	rules      []registry.Rule
	priority   map[string]int
	opts       Options
	validators bool
}

// New snapshots the enabled rules of reg. Unknown names in Enable or Disable
// fail with registry.UnknownPatternError.
func New(reg *registry.Registry, opts Options) (*Detector, error) {
	if opts.ContextWindow == 0 {
		opts.ContextWindow = defaultContextWindow
	}
	if opts.ContextBonus == 0 {
		opts.ContextBonus = defaultContextBonus
	}
	for _, name := range append(append([]string{}, opts.Enable...), opts.Disable...) {
		if _, err := reg.Resolve(name); err != nil {
			return nil, err
		}
	}
	enabled := toSet(opts.Enable)
	disabled := toSet(opts.Disable)

	d := &Detector{priority: map[string]int{}, opts: opts, validators: EnableValidators && !opts.NoValidators}
	for _, r := range reg.All() {
		if len(enabled) > 0 && !enabled[r.Name] {
			continue
		}
		if disabled[r.Name] {
			continue
		}
		d.priority[r.Name] = len(d.rules)
		d.rules = append(d.rules, r)
	}
	return d, nil
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Rules returns the rules this detector applies, in priority order.
func (d *Detector) Rules() []registry.Rule {
	out := make([]registry.Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Detect returns non-overlapping spans sorted by start offset.
func (d *Detector) Detect(text string) []types.Span {
	if text == "" || len(d.rules) == 0 {
		return nil
	}
	matches := make([][][]int, len(d.rules))
	for i, r := range d.rules {
		matches[i] = r.Pattern.FindAllStringIndex(text, -1)
	}
	exempt := d.exemptRanges(text, matches)

	var cands []types.Span
	for i, r := range d.rules {
		for _, loc := range matches[i] {
			if loc[0] == loc[1] || insideDigitRun(text, loc[0], loc[1]) || overlapsAny(loc, exempt) {
				continue
			}
			m := text[loc[0]:loc[1]]
			conf := r.Confidence
			if d.validators && r.Validate != nil {
				var ok bool
				if conf, ok = r.Validate(m, conf); !ok {
					continue
				}
			}
			if d.opts.ContextWindow > 0 && hasContext(text, loc[0], d.opts.ContextWindow, r.Keywords) {
				conf += d.opts.ContextBonus
			}
			conf = clamp01(conf)
			if conf < d.opts.MinConfidence {
				continue
			}
			cands = append(cands, types.Span{
				Start: loc[0], End: loc[1], Rule: r.Name, Category: r.Category,
				Hint: r.Hint, Confidence: conf, Value: m,
			})
		}
	}
	return d.resolve(cands)
}

// exemptRanges returns the byte ranges of raw matches, from any rule, whose
// text is whitelisted. Nothing overlapping them may be reported, so a looser
// rule cannot pick up part of an exempt value.
func (d *Detector) exemptRanges(text string, matches [][][]int) [][]int {
	if d.opts.Whitelist.Len() == 0 {
		return nil
	}
	var out [][]int
	for _, locs := range matches {
		for _, loc := range locs {
			if loc[0] < loc[1] && d.opts.Whitelist.Allowed(text[loc[0]:loc[1]]) {
				out = append(out, loc)
			}
		}
	}
	return out
}

func overlapsAny(loc []int, ranges [][]int) bool {
	for _, r := range ranges {
		if loc[0] < r[1] && r[0] < loc[1] {
			return true
		}
	}
	return false
}

// resolve keeps the best candidate of every overlapping group: higher
// confidence first, then higher-priority rule, then the longer match.
func (d *Detector) resolve(cands []types.Span) []types.Span {
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if pa, pb := d.priority[a.Rule], d.priority[b.Rule]; pa != pb {
			return pa < pb
		}
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		return a.Start < b.Start
	})
	var kept []types.Span
	for _, c := range cands {
		clash := false
		for _, k := range kept {
			if c.Overlaps(k) {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}
