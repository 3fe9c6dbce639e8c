package detectors

import (
	"errors"
	"testing"

	"github.com/redactyl/piimask/internal/registry"
	"github.com/redactyl/piimask/internal/types"
	"github.com/redactyl/piimask/internal/whitelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDetector(t *testing.T, opts Options) *Detector {
	t.Helper()
	reg, err := NewRegistry()
	require.NoError(t, err)
	d, err := New(reg, opts)
	require.NoError(t, err)
	return d
}

func TestDetect_Builtins(t *testing.T) {
	d := newDetector(t, Options{MinConfidence: 0.8})
	tcs := []struct {
		name  string
		text  string
		rule  string
		value string
	}{
		{"email", "Contact john.doe@company.com today", "email", "john.doe@company.com"},
		{"phone parens", "Reach me at (555) 123-4567.", "phone_us", "(555) 123-4567"},
		{"phone country code", "+1-555-123-4567", "phone_us", "+1-555-123-4567"},
		{"phone short", "number 555-1234", "phone_international", "555-1234"},
		{"ssn", "SSN: 123-45-6789", "ssn", "123-45-6789"},
		{"card", "4532015112830366", "credit_card", "4532015112830366"},
		{"card spaced", "pay with 4532 0151 1283 0366 now", "credit_card", "4532 0151 1283 0366"},
		{"ip", "client 192.168.1.10 connected", "ip_address", "192.168.1.10"},
		{"mac", "hw 00:1A:2B:3C:4D:5E", "mac_address", "00:1A:2B:3C:4D:5E"},
		{"url", "see https://example.com/profile?id=7", "url", "https://example.com/profile?id=7"},
		{"dob", "DOB 12/25/1990", "date_birth", "12/25/1990"},
		{"name", "Patient Dr. Jane Smith arrived", "name_title", "Dr. Jane Smith"},
		{"zip", "zip 94105", "zip_code", "94105"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			spans := d.Detect(tc.text)
			require.Len(t, spans, 1, "%+v", spans)
			assert.Equal(t, tc.rule, spans[0].Rule)
			assert.Equal(t, tc.value, spans[0].Value)
			assert.Equal(t, tc.value, tc.text[spans[0].Start:spans[0].End])
		})
	}
}

func TestDetect_Empty(t *testing.T) {
	d := newDetector(t, Options{})
	assert.Empty(t, d.Detect(""))
	assert.Empty(t, d.Detect("nothing personal here"))
}

func TestDetect_SortedAndNonOverlapping(t *testing.T) {
	d := newDetector(t, Options{MinConfidence: 0.8})
	text := "email a.b@example.com phone (555) 123-4567 ssn 123-45-6789"
	spans := d.Detect(text)
	require.Len(t, spans, 3)
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].End, spans[i].Start)
	}
	assert.Equal(t, types.CategoryEmail, spans[0].Category)
	assert.Equal(t, types.CategoryPhone, spans[1].Category)
	assert.Equal(t, types.CategorySSN, spans[2].Category)
}

func TestDetect_InvalidCardIsNotReportedAsPhone(t *testing.T) {
	d := newDetector(t, Options{MinConfidence: 0.8})
	assert.Empty(t, d.Detect("4111111111111112"))
}

func TestDetect_Validators(t *testing.T) {
	d := newDetector(t, Options{})
	assert.Empty(t, d.Detect("DOB 02/30/1990"), "impossible calendar dates are dropped")

	spans := d.Detect("ref 000-12-3456")
	require.Len(t, spans, 1)
	assert.InDelta(t, 0.80, spans[0].Confidence, 1e-9, "unallocated SSN areas lose confidence")

	EnableValidators = false
	defer func() { EnableValidators = true }()
	raw := newDetector(t, Options{})
	spans = raw.Detect("ref 000-12-3456")
	require.Len(t, spans, 1)
	assert.InDelta(t, 0.95, spans[0].Confidence, 1e-9)
}

func TestDetect_MinConfidence(t *testing.T) {
	assert.Len(t, newDetector(t, Options{MinConfidence: 0.8}).Detect("number 555-1234"), 1, "threshold is inclusive")
	assert.Empty(t, newDetector(t, Options{MinConfidence: 0.85}).Detect("number 555-1234"))
}

func TestDetect_ContextBonus(t *testing.T) {
	d := newDetector(t, Options{})
	plain := d.Detect("number 555-1234")
	boosted := d.Detect("phone: 555-1234")
	require.Len(t, plain, 1)
	require.Len(t, boosted, 1)
	assert.InDelta(t, 0.80, plain[0].Confidence, 1e-9)
	assert.InDelta(t, 0.90, boosted[0].Confidence, 1e-9)

	capped := d.Detect("SSN: 123-45-6789")
	require.Len(t, capped, 1)
	assert.Equal(t, 1.0, capped[0].Confidence)

	off := newDetector(t, Options{ContextWindow: -1}).Detect("phone: 555-1234")
	require.Len(t, off, 1)
	assert.InDelta(t, 0.80, off[0].Confidence, 1e-9)
}

func TestDetect_Whitelist(t *testing.T) {
	wl, err := whitelist.New([]string{"admin@company.com", "*@example.org"})
	require.NoError(t, err)
	d := newDetector(t, Options{Whitelist: wl})

	spans := d.Detect("admin@company.com, ops@example.org and user@company.com")
	require.Len(t, spans, 1)
	assert.Equal(t, "user@company.com", spans[0].Value)
}

func TestDetect_WhitelistCoversLooserRules(t *testing.T) {
	text := "Call +1-555-123-4567 now"
	require.NotEmpty(t, newDetector(t, Options{}).Detect(text))

	wl, err := whitelist.New([]string{"+1-555-123-4567"})
	require.NoError(t, err)
	d := newDetector(t, Options{Whitelist: wl})
	assert.Empty(t, d.Detect(text), "phone_international must not match inside the exempt number")

	spans := d.Detect("Call +1-555-123-4567 or 555-987-6543")
	require.Len(t, spans, 1)
	assert.Equal(t, "555-987-6543", spans[0].Value)
}

func TestDetect_CustomRule(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	r, err := registry.Compile("product_code", "", `PROD-\d{4}`, 0.9)
	require.NoError(t, err)
	require.NoError(t, reg.Register(r, false))

	d, err := New(reg, Options{MinConfidence: 0.8})
	require.NoError(t, err)
	spans := d.Detect("Order prod-1234 shipped")
	require.Len(t, spans, 1)
	assert.Equal(t, "product_code", spans[0].Rule)
	assert.Equal(t, types.CategoryCustom, spans[0].Category)
	assert.Equal(t, "prod-1234", spans[0].Value)
}

func TestNew_EnableDisable(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	_, err = New(reg, Options{Enable: []string{"nope"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnknownPattern))

	d, err := New(reg, Options{Disable: []string{"email"}})
	require.NoError(t, err)
	assert.Empty(t, d.Detect("john@company.com"))
	assert.Len(t, d.Rules(), len(IDs())-1)

	only, err := New(reg, Options{Enable: []string{"ssn"}})
	require.NoError(t, err)
	spans := only.Detect("a@b.com 123-45-6789")
	require.Len(t, spans, 1)
	assert.Equal(t, "ssn", spans[0].Rule)
}

func TestIDs_PriorityOrder(t *testing.T) {
	ids := IDs()
	assert.Equal(t, "ssn", ids[0])
	assert.Equal(t, "phone_international", ids[len(ids)-1])
	assert.Len(t, ids, 12)
}

func TestHasContext(t *testing.T) {
	kws := []string{"phone", "social security"}
	assert.True(t, hasContext("Phone: 555", 7, 32, kws))
	assert.True(t, hasContext("her social security no 1", 23, 32, kws))
	assert.False(t, hasContext("headphones 555", 11, 32, kws))
	assert.False(t, hasContext("phone "+string(make([]byte, 40))+"555", 46, 32, kws))
	assert.False(t, hasContext("no. 555 phone", 4, 32, kws), "only the bytes before the match count")
}
