package strategy

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/redactyl/piimask/internal/types"
)

var reToken = regexp.MustCompile(`\[[A-Z0-9_-]+_TOKEN_[0-9a-f]{8}(?:_[0-9]+)?\]`)

type tokenEntry struct {
	category types.Category
	value    string
}

// TokenStore maps original values to stable tokens and back. The same value
// in the same category always yields the same token; distinct values never
// share one.
type TokenStore struct {
	mu      sync.Mutex
	seed    string
	forward map[types.Category]map[string]string
	reverse map[string]tokenEntry
}

func NewTokenStore(seed string) *TokenStore {
	return &TokenStore{
		seed:    seed,
		forward: map[types.Category]map[string]string{},
		reverse: map[string]tokenEntry{},
	}
}

func (s *TokenStore) Mask(value string, span types.Span) (string, error) {
	if value == "" {
		return "", nil
	}
	return s.Token(span.Category, value), nil
}

// Token returns the token for value, minting one on first use.
func (s *TokenStore) Token(category types.Category, value string) string {
	if category == "" {
		category = types.CategoryCustom
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byValue, ok := s.forward[category]
	if !ok {
		byValue = map[string]string{}
		s.forward[category] = byValue
	}
	if tok, ok := byValue[value]; ok {
		return tok
	}
	base := fmt.Sprintf("%s_TOKEN_%08x", category.Label(), s.digest(category, value)&0xffffffff)
	tok := "[" + base + "]"
	for n := 2; ; n++ {
		if _, taken := s.reverse[tok]; !taken {
			break
		}
		tok = fmt.Sprintf("[%s_%d]", base, n)
	}
	byValue[value] = tok
	s.reverse[tok] = tokenEntry{category: category, value: value}
	return tok
}

func (s *TokenStore) digest(category types.Category, value string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(s.seed)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(string(category))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(value)
	return h.Sum64()
}

// Lookup returns the original value behind token.
func (s *TokenStore) Lookup(token string) (string, types.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.reverse[token]
	return e.value, e.category, ok
}

// Detokenize replaces every token minted by this store in text with its
// original value. Tokens from other sessions are left untouched.
func (s *TokenStore) Detokenize(text string) (string, int) {
	n := 0
	out := reToken.ReplaceAllStringFunc(text, func(tok string) string {
		if v, _, ok := s.Lookup(tok); ok {
			n++
			return v
		}
		return tok
	})
	return out, n
}

func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reverse)
}

// FindTokens returns the spans of tokens minted by this store.
func (s *TokenStore) FindTokens(text string) []types.Span {
	var out []types.Span
	for _, loc := range reToken.FindAllStringIndex(text, -1) {
		tok := text[loc[0]:loc[1]]
		if _, c, ok := s.Lookup(tok); ok {
			out = append(out, types.Span{Start: loc[0], End: loc[1], Rule: "token", Category: c, Value: tok})
		}
	}
	return out
}
