package strategy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/whitelist"
)

const fakerAttempts = 16

// Faker substitutes realistic synthetic values. Output never equals or
// contains the original value and is never a whitelisted value.
type Faker struct {
	gen            *gofakeit.Faker
	preserveFormat bool
	whitelist      *whitelist.Filter
}

// NewFaker seeds a generator from crypto/rand so that synthetic values are
// not predictable across sessions.
func NewFaker(preserveFormat bool, wl *whitelist.Filter) (*Faker, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("faker seed: %w", err)
	}
	return newFakerSeeded(binary.LittleEndian.Uint64(b[:]), preserveFormat, wl), nil
}

func newFakerSeeded(seed uint64, preserveFormat bool, wl *whitelist.Filter) *Faker {
	return &Faker{gen: gofakeit.New(seed), preserveFormat: preserveFormat, whitelist: wl}
}

func (f *Faker) Mask(value string, span types.Span) (string, error) {
	if value == "" {
		return "", nil
	}
	for i := 0; i < fakerAttempts; i++ {
		out := f.generate(value, span.Category)
		if out == "" || strings.Contains(out, value) || f.whitelist.Allowed(out) {
			continue
		}
		return out, nil
	}
	return "", fmt.Errorf("faker: no distinct %s value after %d attempts", span.Category, fakerAttempts)
}

func (f *Faker) generate(value string, c types.Category) string {
	if f.preserveFormat && digitLayout(c) {
		return f.gen.Numerify(layoutOf(value))
	}
	switch c {
	case types.CategoryEmail:
		return f.gen.Email()
	case types.CategoryPhone:
		return f.gen.Phone()
	case types.CategorySSN:
		return f.gen.SSN()
	case types.CategoryCreditCard:
		return f.gen.CreditCardNumber(nil)
	case types.CategoryIP:
		return f.gen.IPv4Address()
	case types.CategoryMAC:
		return f.gen.MacAddress()
	case types.CategoryURL:
		return f.gen.URL()
	case types.CategoryAddress:
		return f.gen.Street()
	case types.CategoryZipCode:
		return f.gen.Zip()
	case types.CategoryDate:
		sep := "/"
		if strings.Contains(value, "-") {
			sep = "-"
		}
		return f.gen.Date().Format("01" + sep + "02" + sep + "2006")
	case types.CategoryName:
		return f.gen.Name()
	default:
		return f.gen.Word()
	}
}

// digitLayout lists the categories whose layout can be kept by refilling digits.
func digitLayout(c types.Category) bool {
	switch c {
	case types.CategoryPhone, types.CategorySSN, types.CategoryCreditCard, types.CategoryZipCode:
		return true
	}
	return false
}

// layoutOf turns every ASCII digit into the '#' placeholder Numerify fills.
func layoutOf(value string) string {
	b := []byte(value)
	for i, c := range b {
		switch {
		case c >= '0' && c <= '9':
			b[i] = '#'
		case c == '#':
			b[i] = '-'
		}
	}
	return string(b)
}
