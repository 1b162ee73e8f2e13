package browse

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
	"github.com/iliyamo/movie-catalog-browser/internal/rating"
)

const (
	separator    = "----------------------------------------------------------------------"
	maxDescRunes = 200
	favoriteMark = "★"
	notAvailable = "N/A"
)

// RenderPage prints one page of films numbered by their position in the
// whole result set. Films in favs are marked with a star.
func RenderPage(w io.Writer, heading string, p model.Page, favs map[uint64]bool) {
	fmt.Fprintf(w, "\n%s (showing %d–%d of %d)\n", heading, p.Start(), p.End(), p.Total)
	fmt.Fprintln(w, separator)
	for i, f := range p.Items {
		RenderFilm(w, p.Offset+i+1, f, favs[f.ID])
	}
	fmt.Fprintln(w, separator)
}

// RenderFilm prints one numbered film entry.
func RenderFilm(w io.Writer, n int, f model.Film, favorite bool) {
	year := notAvailable
	if f.ReleaseYear != 0 {
		year = fmt.Sprint(f.ReleaseYear)
	}
	mark := ""
	if favorite {
		mark = "  " + favoriteMark
	}
	fmt.Fprintf(w, "\n  %d.  %s (%s)%s\n", n, f.Title, year, mark)

	ratingText := notAvailable
	if code := f.RatingCode(); code != "" {
		ratingText = code + " – " + rating.Describe(code)
	}
	fmt.Fprintf(w, "      Rental: %s | Replacement: %s | Rating: %s\n",
		money(f.RentalRate), money(f.ReplacementCost), ratingText)

	if f.Description != nil && *f.Description != "" {
		fmt.Fprintf(w, "      %s\n", truncate(*f.Description, maxDescRunes))
	}
}

// RenderActors prints the numbered cast of a film.
func RenderActors(w io.Writer, filmTitle string, actors []model.Actor) {
	if len(actors) == 0 {
		fmt.Fprintf(w, "\n  No actors found for %q.\n", filmTitle)
		return
	}
	fmt.Fprintf(w, "\nCast of %q:\n", filmTitle)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, a := range actors {
		fmt.Fprintf(tw, "  %d.\t%s\n", i+1, a.FullName())
	}
	_ = tw.Flush()
}

func money(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("$%.2f", *v)
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
