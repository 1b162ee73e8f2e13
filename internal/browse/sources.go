package browse

import (
	"context"
	"fmt"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// PageSource yields pages of one ordered result set.
type PageSource interface {
	Heading() string
	Fetch(ctx context.Context, offset, limit int) ([]model.Film, error)
}

// KeywordFetcher fetches keyword search pages.
type KeywordFetcher interface {
	FetchByKeyword(ctx context.Context, f model.KeywordFilters, offset, limit int) ([]model.Film, error)
}

// GenreYearFetcher fetches genre/year search pages.
type GenreYearFetcher interface {
	FetchByGenreYear(ctx context.Context, f model.GenreYearFilters, offset, limit int) ([]model.Film, error)
}

// ActorCatalog is what the controller needs to drill down from a film into
// its cast and from an actor into their filmography.
type ActorCatalog interface {
	ActorsForFilm(ctx context.Context, filmID uint64) ([]model.Actor, error)
	CountForActor(ctx context.Context, actorID uint64) (int, error)
	FilmsForActor(ctx context.Context, actorID uint64, offset, limit int) ([]model.Film, error)
}

type keywordSource struct {
	catalog KeywordFetcher
	filters model.KeywordFilters
}

// KeywordSource pages through a keyword search.
func KeywordSource(catalog KeywordFetcher, f model.KeywordFilters) PageSource {
	return keywordSource{catalog: catalog, filters: f}
}

func (s keywordSource) Heading() string {
	if s.filters.Keyword == "" {
		return "All films"
	}
	return fmt.Sprintf("Films matching %q", s.filters.Keyword)
}

func (s keywordSource) Fetch(ctx context.Context, offset, limit int) ([]model.Film, error) {
	return s.catalog.FetchByKeyword(ctx, s.filters, offset, limit)
}

type genreYearSource struct {
	catalog GenreYearFetcher
	filters model.GenreYearFilters
	label   string
}

// GenreYearSource pages through a genre/year search. label describes the
// filters for the page heading.
func GenreYearSource(catalog GenreYearFetcher, f model.GenreYearFilters, label string) PageSource {
	return genreYearSource{catalog: catalog, filters: f, label: label}
}

func (s genreYearSource) Heading() string {
	if s.label == "" {
		return "Search results"
	}
	return "Films: " + s.label
}

func (s genreYearSource) Fetch(ctx context.Context, offset, limit int) ([]model.Film, error) {
	return s.catalog.FetchByGenreYear(ctx, s.filters, offset, limit)
}

type actorSource struct {
	catalog ActorCatalog
	actor   model.Actor
}

// ActorSource pages through an actor's filmography.
func ActorSource(catalog ActorCatalog, a model.Actor) PageSource {
	return actorSource{catalog: catalog, actor: a}
}

func (s actorSource) Heading() string { return "Films with " + s.actor.FullName() }

func (s actorSource) Fetch(ctx context.Context, offset, limit int) ([]model.Film, error) {
	return s.catalog.FilmsForActor(ctx, s.actor.ID, offset, limit)
}

type staticSource struct {
	heading string
	films   []model.Film
}

// StaticSource pages through an in-memory list, such as the favorites.
func StaticSource(heading string, films []model.Film) PageSource {
	return staticSource{heading: heading, films: films}
}

func (s staticSource) Heading() string { return s.heading }

func (s staticSource) Fetch(_ context.Context, offset, limit int) ([]model.Film, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s.films) {
		return []model.Film{}, nil
	}
	end := len(s.films)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return s.films[offset:end], nil
}
