// Package cohort resolves which published version of the static data tree to
// read from.
package cohort

import "strings"

// Cohort is a logical version tag of the static data tree.
type Cohort string

const (
	Latest Cohort = "latest"
	C1     Cohort = "c1"
)

// QueryParam is the query parameter that carries the ambient cohort signal.
const QueryParam = "cohort"

// known holds every tag other than Latest that is published.
var known = map[string]Cohort{
	string(C1): C1,
}

// Resolve picks the cohort from an explicit value, else the query parameter
// value, else Latest. Matching is case-insensitive and unrecognized tags fall
// back to Latest.
func Resolve(explicit, query string) Cohort {
	v := strings.TrimSpace(explicit)
	if v == "" {
		v = strings.TrimSpace(query)
	}
	return Parse(v)
}

// Parse maps a single tag to a Cohort. It never fails.
func Parse(tag string) Cohort {
	if c, ok := known[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return c
	}
	return Latest
}

// Segment returns the path segment for the cohort, including the trailing slash.
func (c Cohort) Segment() string {
	return string(Parse(string(c))) + "/"
}

func (c Cohort) String() string {
	return string(c)
}
