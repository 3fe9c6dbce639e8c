// Package walker applies detection and masking to every string leaf of a
// structured value: plain Go maps and slices as produced by encoding/json or
// yaml.v3, and *yaml.Node trees when comments and key order must survive.
// The input is never mutated; a masked copy is returned.
package walker

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/redactyl/piimask/internal/types"
	yaml "gopkg.in/yaml.v3"
)

// ErrorMode selects what happens when a leaf cannot be masked.
type ErrorMode string

const (
	// Strict aborts the whole call on the first failing leaf.
	Strict ErrorMode = "strict"
	// Lenient replaces the failing leaf with the redact placeholder and
	// reports it.
	Lenient ErrorMode = "lenient"
)

const DefaultMaxDepth = 64

// Detector finds spans in a single string.
type Detector interface {
	Detect(text string) []types.Span
}

// MaskFunc transforms the value of one span.
type MaskFunc func(value string, span types.Span) (string, error)

// Options configure a Walker.
type Options struct {
	MaxDepth  int
	ErrorMode ErrorMode
	// SkipPaths are doublestar globs over slash-separated paths such as
	// "audit/**" or "users/*/id". Matching subtrees are copied unchanged.
	SkipPaths []string
	// Placeholder renders the value that replaces a failing leaf in lenient mode.
	Placeholder func(types.Span) string
}

type Walker struct {
	det  Detector
	mask MaskFunc
	opts Options
}

func New(det Detector, mask MaskFunc, opts Options) (*Walker, error) {
	if det == nil {
		return nil, fmt.Errorf("walker: nil detector")
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	switch opts.ErrorMode {
	case "":
		opts.ErrorMode = Strict
	case Strict, Lenient:
	default:
		return nil, fmt.Errorf("walker: unknown error mode %q", opts.ErrorMode)
	}
	for _, g := range opts.SkipPaths {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("walker: malformed skip path %q", g)
		}
	}
	if opts.Placeholder == nil {
		opts.Placeholder = func(types.Span) string { return "[REDACTED]" }
	}
	return &Walker{det: det, mask: mask, opts: opts}, nil
}

// run carries per-call state.
type run struct {
	w        *Walker
	analyze  bool
	findings []types.Finding
	leaves   []*LeafError
}

// Mask returns a masked copy of v together with the leaves that were
// replaced by a placeholder in lenient mode.
func (w *Walker) Mask(v any) (any, []*LeafError, error) {
	if w.mask == nil {
		return nil, nil, fmt.Errorf("walker: no mask function")
	}
	r := &run{w: w}
	out, err := r.walk(v, root, 0, false)
	if err != nil {
		return nil, nil, err
	}
	return out, r.leaves, nil
}

// Analyze reports every detection in v without transforming anything.
func (w *Walker) Analyze(v any) ([]types.Finding, error) {
	r := &run{w: w, analyze: true}
	if _, err := r.walk(v, root, 0, false); err != nil {
		return nil, err
	}
	return r.findings, nil
}

func (w *Walker) skipped(p path) bool {
	if p.slash == "" {
		return false
	}
	for _, g := range w.opts.SkipPaths {
		if ok, _ := doublestar.Match(g, p.slash); ok {
			return true
		}
	}
	return false
}

// enter guards a container at nesting level depth (0 for the root). At most
// MaxDepth containers may be nested.
func (r *run) enter(p path, depth int) error {
	if depth >= r.w.opts.MaxDepth {
		return &StructureTooDeepError{Path: p.display, MaxDepth: r.w.opts.MaxDepth}
	}
	return nil
}

func (r *run) walk(v any, p path, depth int, skip bool) (any, error) {
	skip = skip || r.w.skipped(p)
	switch t := v.(type) {
	case nil, bool, json.Number, time.Time:
		return v, nil
	case string:
		if skip {
			return t, nil
		}
		return r.leaf(t, p)
	case map[string]any:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(t))
		for _, k := range sortedKeys(t) {
			mv, err := r.walk(t[k], p.key(k), depth+1, skip)
			if err != nil {
				return nil, err
			}
			out[k] = mv
		}
		return out, nil
	case map[any]any:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		keys := make([]any, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
		out := make(map[any]any, len(t))
		for _, k := range keys {
			mv, err := r.walk(t[k], p.key(fmt.Sprint(k)), depth+1, skip)
			if err != nil {
				return nil, err
			}
			out[k] = mv
		}
		return out, nil
	case map[string]string:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		out := make(map[string]string, len(t))
		for _, k := range sortedKeys(t) {
			cp := p.key(k)
			s := t[k]
			if !skip && !r.w.skipped(cp) {
				var err error
				if s, err = r.leaf(s, cp); err != nil {
					return nil, err
				}
			}
			out[k] = s
		}
		return out, nil
	case []any:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		out := make([]any, len(t))
		for i, e := range t {
			mv, err := r.walk(e, p.index(i), depth+1, skip)
			if err != nil {
				return nil, err
			}
			out[i] = mv
		}
		return out, nil
	case []string:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		out := make([]string, len(t))
		for i, s := range t {
			cp := p.index(i)
			if !skip && !r.w.skipped(cp) {
				var err error
				if s, err = r.leaf(s, cp); err != nil {
					return nil, err
				}
			}
			out[i] = s
		}
		return out, nil
	case *yaml.Node:
		if t == nil {
			return t, nil
		}
		return r.node(t, p, depth, skip)
	default:
		return r.walkReflect(reflect.ValueOf(v), p, depth, skip)
	}
}

// walkReflect copies the shapes the type switch does not name, such as
// []map[string]any, map[string][]string, arrays, pointers and named string
// types. Structs, channels and functions are rejected rather than passed
// through unmasked.
func (r *run) walkReflect(rv reflect.Value, p path, depth int, skip bool) (any, error) {
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return rv.Interface(), nil
	case reflect.String:
		if skip {
			return rv.Interface(), nil
		}
		s, err := r.leaf(rv.String(), p)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(s).Convert(rv.Type()).Interface(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return rv.Interface(), nil
		}
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		ev, err := r.walk(rv.Elem().Interface(), p, depth+1, skip)
		if err != nil {
			return nil, err
		}
		out := reflect.New(rv.Type().Elem())
		out.Elem().Set(valueOf(ev, rv.Type().Elem()))
		return out.Interface(), nil
	case reflect.Map:
		if rv.IsNil() {
			return rv.Interface(), nil
		}
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface()) })
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		for _, k := range keys {
			ev, err := r.walk(rv.MapIndex(k).Interface(), p.key(fmt.Sprint(k.Interface())), depth+1, skip)
			if err != nil {
				return nil, err
			}
			out.SetMapIndex(k, valueOf(ev, rv.Type().Elem()))
		}
		return out.Interface(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return rv.Interface(), nil
		}
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		var out reflect.Value
		if rv.Kind() == reflect.Slice {
			out = reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		} else {
			out = reflect.New(rv.Type()).Elem()
		}
		for i := 0; i < rv.Len(); i++ {
			ev, err := r.walk(rv.Index(i).Interface(), p.index(i), depth+1, skip)
			if err != nil {
				return nil, err
			}
			out.Index(i).Set(valueOf(ev, rv.Type().Elem()))
		}
		return out.Interface(), nil
	default:
		return nil, &UnsupportedTypeError{Path: p.display, Type: rv.Type().String()}
	}
}

// valueOf turns a walked element back into a value assignable to t. A nil
// element becomes the zero value of t.
func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// leaf masks one string, or records findings for it when analysing.
func (r *run) leaf(s string, p path) (string, error) {
	spans := r.w.det.Detect(s)
	if len(spans) == 0 {
		return s, nil
	}
	if r.analyze {
		for _, sp := range spans {
			r.findings = append(r.findings, types.Finding{
				Path: p.display, Rule: sp.Rule, Category: sp.Category,
				Confidence: sp.Confidence, Start: sp.Start, End: sp.End,
			})
		}
		return s, nil
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		masked, err := r.w.mask(s[sp.Start:sp.End], sp)
		if err != nil {
			le := &LeafError{Path: p.display, Rule: sp.Rule, Err: err}
			if r.w.opts.ErrorMode == Strict {
				return "", le
			}
			r.leaves = append(r.leaves, le)
			return r.w.opts.Placeholder(sp), nil
		}
		b.WriteString(s[last:sp.Start])
		b.WriteString(masked)
		last = sp.End
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// node copies a yaml.Node tree, masking !!str scalars. Mapping keys, tags,
// styles and comments are carried over untouched.
func (r *run) node(n *yaml.Node, p path, depth int, skip bool) (*yaml.Node, error) {
	cp := *n
	cp.Content = nil
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			mc, err := r.node(c, p, depth, skip)
			if err != nil {
				return nil, err
			}
			cp.Content = append(cp.Content, mc)
		}
	case yaml.MappingNode:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := *n.Content[i]
			vp := p.key(k.Value)
			mv, err := r.node(n.Content[i+1], vp, depth+1, skip || r.w.skipped(vp))
			if err != nil {
				return nil, err
			}
			cp.Content = append(cp.Content, &k, mv)
		}
	case yaml.SequenceNode:
		if err := r.enter(p, depth); err != nil {
			return nil, err
		}
		for i, c := range n.Content {
			ip := p.index(i)
			mc, err := r.node(c, ip, depth+1, skip || r.w.skipped(ip))
			if err != nil {
				return nil, err
			}
			cp.Content = append(cp.Content, mc)
		}
	case yaml.ScalarNode:
		if skip || n.ShortTag() != "!!str" {
			return &cp, nil
		}
		s, err := r.leaf(n.Value, p)
		if err != nil {
			return nil, err
		}
		cp.Value = s
	default:
		cp.Content = n.Content
	}
	return &cp, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
