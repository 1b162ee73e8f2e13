// This file defines the read-only catalog repository over the Sakila schema:
// the three film query shapes (keyword, genre/year, actor filmography) with
// their counts, and the lookup lists the interactive flows offer as choices.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
	"github.com/iliyamo/movie-catalog-browser/internal/rating"
)

// CatalogRepo encapsulates all queries against the film catalog. Every
// method fully materializes its result and releases the rows before
// returning.
type CatalogRepo struct {
	db      *sql.DB
	ratings rating.Hierarchy
}

// NewCatalogRepo constructs a CatalogRepo. The rating hierarchy is used to
// expand a rating ceiling into the codes it admits.
func NewCatalogRepo(db *sql.DB, ratings rating.Hierarchy) *CatalogRepo {
	return &CatalogRepo{db: db, ratings: ratings}
}

// ListGenres returns all genres ordered by name.
func (r *CatalogRepo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	const q = "SELECT category_id, name FROM category ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classifyMySQL(err)
	}
	defer rows.Close()

	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyMySQL(err)
	}
	return out, nil
}

// ListRatings returns the distinct non-null rating codes in the catalog,
// arranged by the configured hierarchy.
func (r *CatalogRepo) ListRatings(ctx context.Context) ([]string, error) {
	const q = "SELECT DISTINCT rating FROM film WHERE rating IS NOT NULL"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classifyMySQL(err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		found = append(found, code)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyMySQL(err)
	}
	return r.ratings.Arrange(found), nil
}

// YearBounds returns the earliest and latest release year in the catalog.
// It returns ErrNoYearBounds when there is nothing to aggregate.
func (r *CatalogRepo) YearBounds(ctx context.Context) (model.YearRange, error) {
	const q = "SELECT MIN(release_year), MAX(release_year) FROM film"
	var lo, hi sql.NullInt64
	if err := r.db.QueryRowContext(ctx, q).Scan(&lo, &hi); err != nil {
		return model.YearRange{}, classifyMySQL(err)
	}
	if !lo.Valid || !hi.Valid {
		return model.YearRange{}, ErrNoYearBounds
	}
	return model.YearRange{Min: int(lo.Int64), Max: int(hi.Int64)}, nil
}

// CountByKeyword returns the number of distinct films matching f.
func (r *CatalogRepo) CountByKeyword(ctx context.Context, f model.KeywordFilters) (int, error) {
	return r.count(ctx, keywordQuery(f, r.ratings))
}

// FetchByKeyword returns one page of films matching f ordered by title.
// A limit <= 0 returns every match from offset on.
func (r *CatalogRepo) FetchByKeyword(ctx context.Context, f model.KeywordFilters, offset, limit int) ([]model.Film, error) {
	return r.fetch(ctx, keywordQuery(f, r.ratings), offset, limit)
}

// CountByGenreYear returns the number of distinct films matching f.
func (r *CatalogRepo) CountByGenreYear(ctx context.Context, f model.GenreYearFilters) (int, error) {
	return r.count(ctx, genreYearQuery(f, r.ratings))
}

// FetchByGenreYear returns one page of films matching f ordered by title.
func (r *CatalogRepo) FetchByGenreYear(ctx context.Context, f model.GenreYearFilters, offset, limit int) ([]model.Film, error) {
	return r.fetch(ctx, genreYearQuery(f, r.ratings), offset, limit)
}

// CountForActor returns the number of films the actor appears in.
func (r *CatalogRepo) CountForActor(ctx context.Context, actorID uint64) (int, error) {
	return r.count(ctx, actorQuery(actorID))
}

// FilmsForActor returns one page of the actor's filmography ordered by title.
func (r *CatalogRepo) FilmsForActor(ctx context.Context, actorID uint64, offset, limit int) ([]model.Film, error) {
	return r.fetch(ctx, actorQuery(actorID), offset, limit)
}

// ActorsForFilm returns the cast of a film ordered by last name, then first name.
func (r *CatalogRepo) ActorsForFilm(ctx context.Context, filmID uint64) ([]model.Actor, error) {
	const q = `SELECT a.actor_id, a.first_name, a.last_name
		FROM actor a
		JOIN film_actor fa ON fa.actor_id = a.actor_id
		WHERE fa.film_id = ?
		ORDER BY a.last_name, a.first_name, a.actor_id`
	rows, err := r.db.QueryContext(ctx, q, filmID)
	if err != nil {
		return nil, classifyMySQL(err)
	}
	defer rows.Close()

	out := []model.Actor{}
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyMySQL(err)
	}
	return out, nil
}

func (r *CatalogRepo) count(ctx context.Context, fq filmQuery) (int, error) {
	q, args := fq.countSQL()
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, classifyMySQL(err)
	}
	return n, nil
}

func (r *CatalogRepo) fetch(ctx context.Context, fq filmQuery, offset, limit int) ([]model.Film, error) {
	q, args := fq.fetchSQL(offset, limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classifyMySQL(err)
	}
	defer rows.Close()

	out := []model.Film{}
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyMySQL(err)
	}
	return out, nil
}

func scanFilm(rows *sql.Rows) (model.Film, error) {
	var (
		f           model.Film
		description sql.NullString
		year        sql.NullInt64
		code        sql.NullString
		rentalRate  sql.NullFloat64
		replacement sql.NullFloat64
	)
	if err := rows.Scan(&f.ID, &f.Title, &description, &year, &code, &rentalRate, &replacement); err != nil {
		return f, err
	}
	if description.Valid {
		f.Description = &description.String
	}
	if year.Valid {
		f.ReleaseYear = int(year.Int64)
	}
	if code.Valid && code.String != "" {
		f.Rating = &code.String
	}
	if rentalRate.Valid {
		f.RentalRate = &rentalRate.Float64
	}
	if replacement.Valid {
		f.ReplacementCost = &replacement.Float64
	}
	return f, nil
}
