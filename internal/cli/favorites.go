package cli

import (
	"context"
	"fmt"

	"github.com/iliyamo/movie-catalog-browser/internal/browse"
	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

func (a *App) viewFavorites(ctx context.Context) error {
	list := a.favorites.List()
	if len(list) == 0 {
		a.console.Println("\n  Your favorites list is empty.")
		a.console.Println("  Add films while browsing results with f<number>.")
		return nil
	}

	films := make([]model.Film, 0, len(list))
	for _, f := range list {
		films = append(films, f.Film())
	}
	return a.browser.Browse(ctx, browse.StaticSource("My favorites", films), len(films))
}

func (a *App) clearFavorites(ctx context.Context) error {
	n := a.favorites.Count()
	if n == 0 {
		a.console.Println("\n  Your favorites list is already empty.")
		return nil
	}
	ok, err := a.yesNo(ctx, fmt.Sprintf("\n This removes ALL %d favorite(s). Continue? (y/n): ", n))
	if err != nil {
		return err
	}
	if !ok {
		a.console.Println("\n  Cancelled.")
		return nil
	}
	removed, err := a.favorites.Clear()
	if err != nil {
		return err
	}
	a.log.Info("favorites cleared", "count", removed)
	a.console.Printf("\n  Removed %d favorite(s).\n", removed)
	return nil
}
