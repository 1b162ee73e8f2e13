// Package rating holds the fixed ordering of content-rating codes used to
// expand a rating ceiling into the set of codes it admits.
package rating

import "strings"

// DefaultOrder lists the catalog's rating codes from least to most restrictive.
var DefaultOrder = []string{"G", "PG", "PG-13", "R", "NC-17"}

var descriptions = map[string]string{
	"G":     "General audiences, all ages admitted",
	"PG":    "Parental guidance suggested",
	"PG-13": "Parents strongly cautioned, some material may be inappropriate for children under 13",
	"R":     "Restricted, under 17 requires accompanying parent or adult guardian",
	"NC-17": "Adults only, no one 17 and under admitted",
}

// Hierarchy is an ordered list of rating codes. The order comes from
// configuration, never from catalog data.
type Hierarchy struct {
	order []string
}

// New builds a Hierarchy from codes ordered least to most restrictive.
// Blank and repeated codes are dropped.
func New(order []string) Hierarchy {
	seen := make(map[string]bool, len(order))
	out := make([]string, 0, len(order))
	for _, code := range order {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return Hierarchy{order: out}
}

// Default returns the hierarchy built from DefaultOrder.
func Default() Hierarchy { return New(DefaultOrder) }

// Order returns a copy of the configured order.
func (h Hierarchy) Order() []string {
	return append([]string(nil), h.order...)
}

// AtOrBelow returns every code from the most permissive up to and including
// code. A code missing from the order admits only itself.
func (h Hierarchy) AtOrBelow(code string) []string {
	if code == "" {
		return nil
	}
	for i, c := range h.order {
		if c == code {
			return append([]string(nil), h.order[:i+1]...)
		}
	}
	return []string{code}
}

// Arrange orders the codes found in the catalog: known codes by their
// position in the hierarchy, then unknown codes in the order they were found.
func (h Hierarchy) Arrange(present []string) []string {
	found := make(map[string]bool, len(present))
	for _, code := range present {
		if code != "" {
			found[code] = true
		}
	}
	out := make([]string, 0, len(found))
	known := make(map[string]bool, len(h.order))
	for _, code := range h.order {
		known[code] = true
		if found[code] {
			out = append(out, code)
		}
	}
	added := make(map[string]bool)
	for _, code := range present {
		if code == "" || known[code] || added[code] {
			continue
		}
		added[code] = true
		out = append(out, code)
	}
	return out
}

// Describe returns a human description of a rating code.
func Describe(code string) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "(no description)"
}
