package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Actor represents a row in the `actor` table. The catalog stores names in
// upper case; FullName converts them for display.
type Actor struct {
	ID        uint64 // actor.actor_id
	FirstName string // actor.first_name
	LastName  string // actor.last_name
}

var titleCaser = cases.Title(language.Und)

// FullName returns "First Last" in title case.
func (a Actor) FullName() string {
	first := titleCaser.String(strings.ToLower(strings.TrimSpace(a.FirstName)))
	last := titleCaser.String(strings.ToLower(strings.TrimSpace(a.LastName)))
	return strings.TrimSpace(first + " " + last)
}
