package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

func (a *App) showStats(ctx context.Context) error {
	if !a.stats.Enabled() {
		a.console.Println("\n  Search statistics are unavailable: the search log is not connected.")
		return nil
	}
	top, err := a.stats.Top(ctx, a.statsLimit)
	if err != nil {
		return err
	}
	recent, err := a.stats.Recent(ctx, a.statsLimit)
	if err != nil {
		return err
	}

	a.console.Println("\n  MOST FREQUENT SEARCHES")
	if len(top) == 0 {
		a.console.Println("  No searches logged yet.")
	}
	for i, s := range top {
		a.console.Printf("\n  %d. %s\n", i+1, searchTypeName(s.SearchType))
		a.console.Printf("     Filters: %s\n", FormatParams(s.ParamsMap()))
		a.console.Printf("     Times run: %d\n", s.Count)
		a.console.Printf("     Last run: %s\n", formatTime(s.Last))
	}

	a.console.Println("\n  RECENT SEARCHES")
	if len(recent) == 0 {
		a.console.Println("  No recent searches.")
	}
	for i, s := range recent {
		a.console.Printf("\n  %d. [%s] %s\n", i+1, formatTime(s.Last), searchTypeName(s.SearchType))
		a.console.Printf("     Filters: %s\n", FormatParams(s.ParamsMap()))
		a.console.Printf("     Results: %d\n", s.ResultsCount)
	}
	return nil
}

func (a *App) clearLogs(ctx context.Context) error {
	if !a.stats.Enabled() {
		a.console.Println("\n  The search log is not connected, nothing to clear.")
		return nil
	}
	ok, err := a.yesNo(ctx, "\n This deletes the whole search log. Continue? (y/n): ")
	if err != nil {
		return err
	}
	if !ok {
		a.console.Println("\n  Cancelled.")
		return nil
	}
	n, err := a.stats.Clear(ctx)
	if err != nil {
		return err
	}
	a.log.Info("search log cleared", "count", n)
	a.console.Printf("\n  Deleted %d log entr(ies).\n", n)
	return nil
}

func searchTypeName(t model.SearchType) string {
	switch t {
	case model.SearchKeyword:
		return "Keyword search"
	case model.SearchGenreYear:
		return "Genre and year search"
	}
	return string(t)
}

// FormatParams renders logged search params for people.
func FormatParams(p map[string]any) string {
	if len(p) == 0 {
		return "none"
	}
	var parts []string
	if kw, ok := p["keyword"]; ok {
		if s := fmt.Sprint(kw); s != "" {
			parts = append(parts, fmt.Sprintf("keyword %q", s))
		} else {
			parts = append(parts, "all titles")
		}
	}
	if g, ok := p["genre_id"]; ok {
		parts = append(parts, fmt.Sprintf("genre #%v", g))
	}
	lo, hasLo := p["year_min"]
	hi, hasHi := p["year_max"]
	if hasLo && hasHi {
		parts = append(parts, fmt.Sprintf("years %v–%v", lo, hi))
	}
	if r, ok := p["rating"]; ok {
		parts = append(parts, fmt.Sprintf("rated up to %v", r))
	}
	if len(parts) == 0 {
		return fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
