package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/iliyamo/movie-catalog-browser/internal/browse"
	"github.com/iliyamo/movie-catalog-browser/internal/config"
	"github.com/iliyamo/movie-catalog-browser/internal/model"
	"github.com/iliyamo/movie-catalog-browser/internal/rating"
	"github.com/iliyamo/movie-catalog-browser/internal/repository"
)

func (a *App) keywordSearch(ctx context.Context) error {
	a.console.Println("\n  SEARCH BY KEYWORD")

	label := " Keyword (Enter to cancel): "
	if a.emptyKeywordMode == config.EmptyKeywordAll {
		label = " Keyword (Enter for all films): "
	}
	kw, err := a.console.Prompt(ctx, label)
	if err != nil {
		return err
	}
	if kw == "" {
		if a.emptyKeywordMode != config.EmptyKeywordAll {
			a.console.Println("\n  No keyword given, back to the menu.")
			return nil
		}
		a.console.Println("\n  Searching all films.")
	}

	filters := model.KeywordFilters{Keyword: kw}

	if ok, err := a.yesNo(ctx, "\n Filter by genre? (y/n): "); err != nil {
		return err
	} else if ok {
		g, err := a.chooseGenre(ctx, " Genre number (Enter to skip): ")
		if err != nil {
			return err
		}
		if g != nil {
			filters.GenreID = &g.ID
		}
	}

	if ok, err := a.yesNo(ctx, "\n Filter by release year? (y/n): "); err != nil {
		return err
	} else if ok {
		if filters.Years, err = a.chooseYears(ctx, true); err != nil {
			return err
		}
	}

	if filters.Rating, err = a.chooseRating(ctx); err != nil {
		return err
	}

	if err := filters.Validate(); err != nil {
		a.console.Printf("\n  Invalid search: %v\n", err)
		return nil
	}

	total, err := a.search.CountByKeyword(ctx, filters)
	if err != nil {
		return err
	}
	a.console.Printf("\n  Found %d film(s).\n", total)
	a.logger.LogSearch(ctx, model.SearchKeyword, filters.Params(), total)

	return a.browser.Browse(ctx, browse.KeywordSource(a.search, filters), total)
}

func (a *App) genreYearSearch(ctx context.Context) error {
	a.console.Println("\n  SEARCH BY GENRE AND YEARS")

	var (
		filters model.GenreYearFilters
		label   []string
	)

	g, err := a.chooseGenre(ctx, " Genre number (Enter to skip): ")
	if err != nil {
		return err
	}
	if g != nil {
		filters.GenreID = &g.ID
		label = append(label, g.Name)
	}

	if filters.Years, err = a.chooseYears(ctx, false); err != nil {
		return err
	}
	if filters.Years != nil {
		label = append(label, fmt.Sprintf("%d–%d", filters.Years.Min, filters.Years.Max))
	}

	if filters.GenreID == nil && filters.Years == nil {
		a.console.Println("\n  No genre or years given, back to the menu.")
		return nil
	}

	if filters.Rating, err = a.chooseRating(ctx); err != nil {
		return err
	}
	if filters.Rating != "" {
		label = append(label, "rated up to "+filters.Rating)
	}

	if err := filters.Validate(); err != nil {
		a.console.Printf("\n  Invalid search: %v\n", err)
		return nil
	}

	total, err := a.search.CountByGenreYear(ctx, filters)
	if err != nil {
		return err
	}
	a.console.Printf("\n  Found %d film(s).\n", total)
	a.logger.LogSearch(ctx, model.SearchGenreYear, filters.Params(), total)

	src := browse.GenreYearSource(a.search, filters, strings.Join(label, ", "))
	return a.browser.Browse(ctx, src, total)
}

// chooseGenre lists the genres and returns the chosen one, or nil when the
// user skips or there are no genres.
func (a *App) chooseGenre(ctx context.Context, label string) (*model.Genre, error) {
	genres, err := a.lookups.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		a.console.Println("\n  The genre list is empty, genre filter skipped.")
		return nil, nil
	}

	a.console.Println("\n  Genres:")
	tw := tabwriter.NewWriter(a.console.Out(), 0, 0, 2, ' ', 0)
	for i, g := range genres {
		fmt.Fprintf(tw, "  %2d.\t%s\n", i+1, g.Name)
	}
	_ = tw.Flush()

	idx, ok, err := a.chooseIndex(ctx, label, len(genres))
	if err != nil || !ok {
		return nil, err
	}
	g := genres[idx-1]
	a.console.Printf("\n  Genre: %s\n", g.Name)
	return &g, nil
}

// chooseYears asks for a year range inside the catalog bounds. A blank side
// takes the catalog bound; both blank means no year filter unless
// fillBlank is set, in which case the whole catalog range is used. An
// inverted range is reported and dropped.
func (a *App) chooseYears(ctx context.Context, fillBlank bool) (*model.YearRange, error) {
	bounds, err := a.lookups.YearBounds(ctx)
	if errors.Is(err, repository.ErrNoYearBounds) {
		a.console.Println("\n  The catalog has no release years, year filter skipped.")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.console.Printf("\n  Available years: %d – %d\n", bounds.Min, bounds.Max)
	suffix := "Enter to skip"
	if fillBlank {
		suffix = "Enter for the catalog bound"
	}
	lo, err := a.yearInput(ctx, fmt.Sprintf(" From year (%s): ", suffix), bounds)
	if err != nil {
		return nil, err
	}
	hi, err := a.yearInput(ctx, fmt.Sprintf(" To year (%s): ", suffix), bounds)
	if err != nil {
		return nil, err
	}

	if lo == nil && hi == nil && !fillBlank {
		return nil, nil
	}
	years := model.YearRange{Min: bounds.Min, Max: bounds.Max}
	if lo != nil {
		years.Min = *lo
	}
	if hi != nil {
		years.Max = *hi
	}
	if years.Min > years.Max {
		a.console.Println("\n  The first year is after the last one, year filter skipped.")
		return nil, nil
	}
	a.console.Printf("\n  Years: %d–%d\n", years.Min, years.Max)
	return &years, nil
}

// chooseRating lists the catalog's rating codes and returns the chosen
// ceiling, or "" when skipped.
func (a *App) chooseRating(ctx context.Context) (string, error) {
	codes, err := a.lookups.ListRatings(ctx)
	if err != nil {
		return "", err
	}
	if len(codes) == 0 {
		return "", nil
	}

	a.console.Println("\n  Ratings:")
	tw := tabwriter.NewWriter(a.console.Out(), 0, 0, 2, ' ', 0)
	for i, code := range codes {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, code, rating.Describe(code))
	}
	_ = tw.Flush()

	idx, ok, err := a.chooseIndex(ctx, " Highest rating to include (Enter to skip): ", len(codes))
	if err != nil || !ok {
		return "", err
	}
	return codes[idx-1], nil
}
