// Package cli is the interactive console front end: the main menu and the
// flows behind each menu entry. Flows gather filters, count matches, log
// the search once and hand the result set to the browse controller.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/iliyamo/movie-catalog-browser/internal/browse"
	"github.com/iliyamo/movie-catalog-browser/internal/config"
	"github.com/iliyamo/movie-catalog-browser/internal/model"
	"github.com/iliyamo/movie-catalog-browser/internal/repository"
)

// Searcher counts and fetches the two search shapes.
type Searcher interface {
	browse.KeywordFetcher
	browse.GenreYearFetcher
	CountByKeyword(ctx context.Context, f model.KeywordFilters) (int, error)
	CountByGenreYear(ctx context.Context, f model.GenreYearFilters) (int, error)
}

// Favorites is the favorites list as the menu sees it.
type Favorites interface {
	List() []model.Favorite
	Count() int
	Clear() (int, error)
}

// SearchLogger records one analytics entry per search.
type SearchLogger interface {
	LogSearch(ctx context.Context, searchType model.SearchType, params map[string]any, resultsCount int)
}

// StatsReader serves and clears the analytics summaries.
type StatsReader interface {
	Enabled() bool
	Top(ctx context.Context, limit int) ([]model.QueryStat, error)
	Recent(ctx context.Context, limit int) ([]model.QueryStat, error)
	Clear(ctx context.Context) (int64, error)
}

// Deps are the collaborators of an App.
type Deps struct {
	Console   *browse.Console
	Lookups   repository.Lookups
	Search    Searcher
	Browser   *browse.Controller
	Favorites Favorites
	Logger    SearchLogger
	Stats     StatsReader
	Log       *slog.Logger

	EmptyKeywordMode string
	StatsLimit       int
}

// App runs the main menu.
type App struct {
	console   *browse.Console
	lookups   repository.Lookups
	search    Searcher
	browser   *browse.Controller
	favorites Favorites
	logger    SearchLogger
	stats     StatsReader
	log       *slog.Logger

	emptyKeywordMode string
	statsLimit       int
}

// New builds an App from d.
func New(d Deps) *App {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.EmptyKeywordMode == "" {
		d.EmptyKeywordMode = config.EmptyKeywordAbort
	}
	if d.StatsLimit <= 0 {
		d.StatsLimit = 5
	}
	return &App{
		console:          d.Console,
		lookups:          d.Lookups,
		search:           d.Search,
		browser:          d.Browser,
		favorites:        d.Favorites,
		logger:           d.Logger,
		stats:            d.Stats,
		log:              d.Log,
		emptyKeywordMode: d.EmptyKeywordMode,
		statsLimit:       d.StatsLimit,
	}
}

const menu = `
======================================================================
                         MOVIE CATALOG
======================================================================
  1. Search by keyword
  2. Search by genre and years
  3. My favorites
  4. Clear favorites
  5. Search statistics
  6. Clear search log
  q. Quit
`

// Run shows the menu until the user quits, input ends or ctx is done. A
// prompt blocked on input returns as soon as ctx is cancelled.
// A failing flow is reported and the menu is shown again.
func (a *App) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		a.console.Printf("%s", menu)
		choice, err := a.console.Prompt(ctx, " > ")
		if err != nil {
			if stopped(ctx, err) {
				return nil
			}
			return err
		}

		switch browse.NormalizeCommand(choice) {
		case "1":
			err = a.keywordSearch(ctx)
		case "2":
			err = a.genreYearSearch(ctx)
		case "3":
			err = a.viewFavorites(ctx)
		case "4":
			err = a.clearFavorites(ctx)
		case "5":
			err = a.showStats(ctx)
		case "6":
			err = a.clearLogs(ctx)
		case "q":
			a.console.Println("\n  Bye!")
			return nil
		case "":
			continue
		default:
			a.console.Println("  Unknown option, choose 1-6 or q.")
			continue
		}

		if err != nil {
			if stopped(ctx, err) {
				return nil
			}
			a.report(err)
		}
	}
	return nil
}

// stopped reports whether err means the session is over: input ended or
// ctx was cancelled (Ctrl-C).
func stopped(ctx context.Context, err error) bool {
	return errors.Is(err, io.EOF) || ctx.Err() != nil
}

// report prints a failed flow. Connection problems get the remediation
// hint; the process keeps running either way.
func (a *App) report(err error) {
	var ce *repository.ConnectionError
	if errors.As(err, &ce) {
		a.log.Error("store unavailable", "store", ce.Store, "err", ce.Err)
		a.console.Printf("\n  Could not reach %s: %v\n  %s\n", ce.Store, ce.Err, ce.Hint)
		return
	}
	a.log.Error("flow failed", "err", err)
	a.console.Printf("\n  Error: %v\n", err)
}
