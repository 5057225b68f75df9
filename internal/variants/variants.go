// Package variants produces the plausible on-disk spellings of a county name.
//
// The static data tree was generated by several scripts that never agreed on
// a naming convention, so "Murang'a" may live under Murang'a, Murang_a or
// Muranga depending on which script wrote it. Generate enumerates those
// spellings in a stable order, least-transformed first.
package variants

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// apostrophes lists every character treated as an apostrophe on input.
var apostrophes = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"′", "'", // prime
	"´", "'", // acute accent
	"`", "'",
)

// Normalize returns the base form of name: apostrophe-like characters become
// a straight apostrophe, whitespace runs collapse to one space, and the result
// is trimmed.
func Normalize(name string) string {
	name = apostrophes.Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Generate returns the de-duplicated variants of name in trial order.
//
// The first element is always the normalized base form. Structural variants
// of the base follow, then every spelling reachable through the alias table.
// Blank input yields a single empty string; callers treat it as a non-match.
func Generate(name string) []string {
	base := Normalize(name)
	if base == "" {
		return []string{""}
	}

	set := newOrderedSet()
	set.add(base)
	set.add(strings.ReplaceAll(base, "'", "_"))
	set.add(strings.ReplaceAll(base, "'", ""))
	set.add(strings.ReplaceAll(base, " ", "_"))
	set.add(strings.ReplaceAll(base, " ", ""))
	set.add(TitleCase(base))

	expandAliases(set, compiledAliases)

	return set.items
}

// TitleCase upper-cases the first letter of every space-delimited word and
// lower-cases the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// orderedSet keeps insertion order so the trial order is deterministic.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// add inserts s unless it is empty or already present. It reports whether s
// was new.
func (o *orderedSet) add(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if _, ok := o.seen[s]; ok {
		return false
	}
	o.seen[s] = struct{}{}
	o.items = append(o.items, s)
	return true
}
