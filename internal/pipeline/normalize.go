package pipeline

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leadgate/leadgate/internal/domain"
)

// Normalizer resolves canonical field names against the raw keys of a
// FieldMap. Pick is pure and deterministic: the same map and alias table
// always yield the same result.
type Normalizer struct {
	aliases  *AliasTable
	validate *validator.Validate
}

func NewNormalizer(t *AliasTable) *Normalizer {
	if t == nil {
		t = DefaultAliases()
	}
	return &Normalizer{
		aliases:  t,
		validate: validator.New(),
	}
}

// Pick returns the first non-empty value matching the canonical name, or "".
func (n *Normalizer) Pick(fm domain.FieldMap, canonical string) string {
	_, v, _ := n.PickEntry(fm, canonical)
	return v
}

// PickEntry resolves a canonical name and reports which raw key matched, so
// callers can mark the key as claimed before running the heuristic pass.
//
// Resolution order:
//  1. exact key
//  2. each alias, in declared priority order
//  3. the no-label placeholder ("new field " + canonical)
//  4. the bracketed container form form_fields[canonical]
//  5. any raw key containing the canonical or an alias as a substring
//     (case-insensitive) — tolerates unknown label suffixes
//
// A match counts only if the value is non-empty after trimming.
func (n *Normalizer) PickEntry(fm domain.FieldMap, canonical string) (key, value string, ok bool) {
	if key, value, ok = lookup(fm, canonical); ok {
		return key, value, true
	}
	for _, alias := range n.aliases.For(canonical) {
		if key, value, ok = lookup(fm, alias); ok {
			return key, value, true
		}
	}
	if key, value, ok = lookup(fm, n.aliases.NoLabelPrefix()+canonical); ok {
		return key, value, true
	}
	if key, value, ok = lookup(fm, "form_fields["+canonical+"]"); ok {
		return key, value, true
	}
	return n.pickBySubstring(fm, canonical)
}

// lookup matches a wanted key case-insensitively against the map, trying the
// exact spelling first to avoid a scan in the common case.
func lookup(fm domain.FieldMap, wanted string) (string, string, bool) {
	if v, present := fm[wanted]; present {
		if s := strings.TrimSpace(v); s != "" {
			return wanted, s, true
		}
	}
	lw := strings.ToLower(wanted)
	for _, k := range sortedKeys(fm) {
		if strings.ToLower(k) == lw {
			if s := strings.TrimSpace(fm[k]); s != "" {
				return k, s, true
			}
		}
	}
	return "", "", false
}

// pickBySubstring is step 5: scan raw keys for containment of the canonical
// name or any alias of at least three characters. Keys are scanned in sorted
// order so the result does not depend on map iteration.
func (n *Normalizer) pickBySubstring(fm domain.FieldMap, canonical string) (string, string, bool) {
	needles := []string{strings.ToLower(canonical)}
	for _, alias := range n.aliases.For(canonical) {
		if len([]rune(alias)) >= 3 {
			needles = append(needles, strings.ToLower(alias))
		}
	}
	for _, k := range sortedKeys(fm) {
		lk := strings.ToLower(k)
		for _, needle := range needles {
			if strings.Contains(lk, needle) {
				if s := strings.TrimSpace(fm[k]); s != "" {
					return k, s, true
				}
			}
		}
	}
	return "", "", false
}

func sortedKeys(fm domain.FieldMap) []string {
	keys := fm.Keys()
	sort.Strings(keys)
	return keys
}
