// Package staticpath turns logical data paths into fully-qualified URLs under
// the cohort-versioned static data tree:
//
//	{origin}/{dataRoot}/{cohort}/{relativePath}
package staticpath

import (
	"net/url"
	"strings"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/variants"
)

// DefaultDataRoot is the fixed data-root segment of the published tree.
const DefaultDataRoot = "static/data"

// Placeholder marks where the entity name goes in a path template.
const Placeholder = "{}"

// Resolver composes candidate URLs. It does no I/O.
type Resolver struct {
	origin   string
	dataRoot string
}

// NewResolver creates a Resolver. An empty origin yields root-relative URLs,
// which is what local and dev deployments serve from. An empty dataRoot uses
// DefaultDataRoot.
func NewResolver(origin, dataRoot string) *Resolver {
	dataRoot = strings.Trim(dataRoot, "/")
	if dataRoot == "" {
		dataRoot = DefaultDataRoot
	}
	return &Resolver{
		origin:   strings.TrimRight(origin, "/"),
		dataRoot: dataRoot,
	}
}

// Origin returns the configured base origin.
func (r *Resolver) Origin() string {
	return r.origin
}

// BuildURL returns the URL of basePath under the given cohort. Leading slashes
// on basePath are ignored.
func (r *Resolver) BuildURL(basePath string, c cohort.Cohort) string {
	rel := strings.TrimLeft(basePath, "/")
	return r.origin + "/" + r.dataRoot + "/" + c.Segment() + rel
}

// BuildEntityURLs substitutes every variant of entityName into pathTemplate
// and returns the resulting URLs in variant order. Each variant is escaped as
// a single path segment.
func (r *Resolver) BuildEntityURLs(entityName, pathTemplate string, c cohort.Cohort) []string {
	names := variants.Generate(entityName)

	urls := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		u := r.BuildURL(strings.Replace(pathTemplate, Placeholder, url.PathEscape(name), 1), c)
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}
