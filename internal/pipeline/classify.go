package pipeline

import (
	"strings"
	"unicode"

	"github.com/leadgate/leadgate/internal/domain"
)

// Keys whose values must never be claimed by the shape heuristic, no matter
// how name-like or phone-like they look.
var heuristicDenylist = []string{
	"message", "notes", "utm", "source", "campaign", "medium", "term",
	"content", "page", "url", "form", "id", "user", "agent",
}

// Guess holds the results of the last-resort shape classifier.
type Guess struct {
	Email    string
	Phone    string
	FullName string
}

// ClassifyUnclaimed inspects raw values whose keys were not claimed by any
// named match and guesses which canonical field they belong to by shape:
// an email-looking value becomes email, a value with 8-15 digits becomes
// phone, and a short human-readable remainder becomes full_name.
//
// This is strictly a fallback for forms with unrecognizable labels; it never
// runs over keys an explicit alias match already claimed, so it can never
// override a named field.
func (n *Normalizer) ClassifyUnclaimed(fm domain.FieldMap, claimed map[string]bool) Guess {
	var g Guess
	for _, k := range sortedKeys(fm) {
		if claimed[k] || denylisted(k) {
			continue
		}
		v := strings.TrimSpace(fm[k])
		if v == "" {
			continue
		}
		switch {
		case g.Email == "" && n.looksLikeEmail(v):
			g.Email = v
		case g.Phone == "" && looksLikePhone(v):
			g.Phone = v
		case g.FullName == "" && looksLikeName(v):
			g.FullName = v
		}
	}
	return g
}

func denylisted(key string) bool {
	lk := strings.ToLower(key)
	for _, d := range heuristicDenylist {
		if strings.Contains(lk, d) {
			return true
		}
	}
	return false
}

func (n *Normalizer) looksLikeEmail(v string) bool {
	if !strings.Contains(v, "@") {
		return false
	}
	return n.validate.Var(v, "email") == nil
}

// looksLikePhone accepts values whose digit count, after stripping every
// non-digit, lands in the 8-15 range (local numbers through full E.164).
func looksLikePhone(v string) bool {
	digits := 0
	for _, r := range v {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			return false
		}
	}
	return digits >= 8 && digits <= 15
}

// looksLikeName accepts short human-readable strings: at least one letter,
// at most a handful of words, no digits. Punctuation common in names
// (O'Brien, Levi-Cohen, Jr.) is tolerated but cannot carry the match alone.
func looksLikeName(v string) bool {
	if len([]rune(v)) > 60 {
		return false
	}
	words := 0
	hasLetter := false
	for _, w := range strings.Fields(v) {
		words++
		for _, r := range w {
			if unicode.IsDigit(r) {
				return false
			}
			if unicode.IsLetter(r) {
				hasLetter = true
				continue
			}
			if !strings.ContainsRune("'-.\"", r) {
				return false
			}
		}
	}
	return hasLetter && words >= 1 && words <= 5
}
