package walker

import (
	"regexp"
	"strconv"
)

var reIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// path tracks the display form ($.users[0].email) and the slash form
// (users/0/email) used for skip globs.
type path struct {
	display string
	slash   string
}

var root = path{display: "$"}

func (p path) key(k string) path {
	d := p.display + "." + k
	if !reIdent.MatchString(k) {
		d = p.display + "[" + strconv.Quote(k) + "]"
	}
	return path{display: d, slash: join(p.slash, k)}
}

func (p path) index(i int) path {
	s := strconv.Itoa(i)
	return path{display: p.display + "[" + s + "]", slash: join(p.slash, s)}
}

func join(a, b string) string {
	if a == "" {
		return b
	}
	return a + "/" + b
}
