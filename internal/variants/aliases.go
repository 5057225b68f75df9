package variants

import (
	"regexp"
	"strings"
)

// Rule is a single one-way whole-word substitution.
type Rule struct {
	From          string
	To            string
	CaseSensitive bool
}

// Aliases is the fixed table of known regional spellings. Bidirectional
// aliases appear as two rules. New aliases belong here; nothing is inferred.
var Aliases = []Rule{
	{From: "Homa Bay", To: "Homabay"},
	{From: "Homabay", To: "Homa Bay"},
	{From: "Elgeyo", To: "Elgeiyo"},
	{From: "Elgeiyo", To: "Elgeyo"},
	{From: "Murang'a", To: "Murang_a"},
	{From: "Murang_a", To: "Muranga"},
	{From: "Muranga", To: "Murang_a"},
	{From: "West Pokot", To: "West pokot", CaseSensitive: true},
	{From: "West pokot", To: "West Pokot", CaseSensitive: true},
}

// maxExpansionRounds bounds the fixed-point loop. Each round only adds
// strings one substitution further away, and the table is small.
const maxExpansionRounds = 16

type compiledRule struct {
	re *regexp.Regexp
	to string
}

// compileRules builds whole-word matchers. A word edge is anything that is not
// a letter or digit, so underscores separate words the same way spaces do.
func compileRules(rules []Rule) []compiledRule {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		pattern := `(^|[^\pL\pN])` + regexp.QuoteMeta(r.From) + `($|[^\pL\pN])`
		if !r.CaseSensitive {
			pattern = `(?i)` + pattern
		}
		out = append(out, compiledRule{
			re: regexp.MustCompile(pattern),
			to: "${1}" + strings.ReplaceAll(r.To, "$", "$$") + "${2}",
		})
	}
	return out
}

var compiledAliases = compileRules(Aliases)

// expandAliases applies every rule to every member of set until no new
// variant appears.
func expandAliases(set *orderedSet, rules []compiledRule) {
	for round := 0; round < maxExpansionRounds; round++ {
		added := false
		for _, rule := range rules {
			// Members added during this pass are visited in the next round.
			current := len(set.items)
			for i := 0; i < current; i++ {
				v := set.items[i]
				if !rule.re.MatchString(v) {
					continue
				}
				if set.add(rule.re.ReplaceAllString(v, rule.to)) {
					added = true
				}
			}
		}
		if !added {
			return
		}
	}
}

// canonicalNames maps a known alternate spelling to the name used in reports.
var canonicalNames = map[string]string{
	"homabay":          "Homa Bay",
	"homa bay":         "Homa Bay",
	"murang a":         "Murang'a",
	"muranga":          "Murang'a",
	"murang'a":         "Murang'a",
	"west pokot":       "West Pokot",
	"elgeiyo marakwet": "Elgeyo Marakwet",
	"elgeyo marakwet":  "Elgeyo Marakwet",
	"elgeyo-marakwet":  "Elgeyo Marakwet",
}

// Canonical maps any known spelling of a county to its display name.
// Underscores read as spaces. Unknown names come back normalized and
// title-cased when they were entirely upper- or lower-case.
func Canonical(name string) string {
	n := Normalize(strings.ReplaceAll(name, "_", " "))
	if n == "" {
		return ""
	}
	if c, ok := canonicalNames[strings.ToLower(n)]; ok {
		return c
	}
	if n == strings.ToUpper(n) || n == strings.ToLower(n) {
		return TitleCase(n)
	}
	return n
}
