package repository

import (
	"math"
	"strings"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
	"github.com/iliyamo/movie-catalog-browser/internal/rating"
)

const filmColumns = `f.film_id,
			f.title,
			f.description,
			f.release_year,
			f.rating,
			f.rental_rate,
			f.replacement_cost`

// filmQuery is the join and filter fragment of one query shape. The count
// and the paged fetch of a shape are both rendered from the same value, so
// they always agree on which films match.
type filmQuery struct {
	join  string
	where []string
	args  []any
}

// keywordQuery matches titles containing the keyword (case-insensitive)
// plus the optional genre, year and rating filters.
func keywordQuery(f model.KeywordFilters, ratings rating.Hierarchy) filmQuery {
	q := filmQuery{}
	q.where = append(q.where, `LOWER(f.title) LIKE ?`)
	q.args = append(q.args, "%"+escapeLike(strings.ToLower(f.Keyword))+"%")
	q.applyCommon(f.GenreID, f.Years, f.Rating, ratings)
	return q
}

// genreYearQuery matches films by genre and/or year range plus the optional
// rating ceiling. With no filters at all it matches every film.
func genreYearQuery(f model.GenreYearFilters, ratings rating.Hierarchy) filmQuery {
	q := filmQuery{}
	q.applyCommon(f.GenreID, f.Years, f.Rating, ratings)
	return q
}

// actorQuery matches the filmography of one actor.
func actorQuery(actorID uint64) filmQuery {
	return filmQuery{
		join:  `JOIN film_actor fa ON fa.film_id = f.film_id`,
		where: []string{`fa.actor_id = ?`},
		args:  []any{actorID},
	}
}

func (q *filmQuery) applyCommon(genreID *int, years *model.YearRange, code string, ratings rating.Hierarchy) {
	if genreID != nil {
		q.join = `JOIN film_category fc ON fc.film_id = f.film_id`
		q.where = append(q.where, `fc.category_id = ?`)
		q.args = append(q.args, *genreID)
	}
	if years != nil {
		q.where = append(q.where, `f.release_year BETWEEN ? AND ?`)
		q.args = append(q.args, years.Min, years.Max)
	}
	if code != "" {
		allowed := ratings.AtOrBelow(code)
		if len(allowed) > 0 {
			q.where = append(q.where, `f.rating IN (`+placeholders(len(allowed))+`)`)
			for _, r := range allowed {
				q.args = append(q.args, r)
			}
		}
	}
}

func (q filmQuery) cond() string {
	if len(q.where) == 0 {
		return "1=1"
	}
	return strings.Join(q.where, " AND ")
}

func (q filmQuery) from() string {
	s := `FROM film f`
	if q.join != "" {
		s += `
		` + q.join
	}
	return s + `
		WHERE ` + q.cond()
}

func (q filmQuery) countSQL() (string, []any) {
	return `SELECT COUNT(DISTINCT f.film_id)
		` + q.from(), q.args
}

// fetchSQL renders the paged select. A limit <= 0 means no limit.
func (q filmQuery) fetchSQL(offset, limit int) (string, []any) {
	if offset < 0 {
		offset = 0
	}
	lim := int64(limit)
	if limit <= 0 {
		lim = math.MaxInt64
	}
	sql := `SELECT DISTINCT
			` + filmColumns + `
		` + q.from() + `
		ORDER BY f.title ASC, f.film_id ASC
		LIMIT ? OFFSET ?`
	args := append(append([]any{}, q.args...), lim, offset)
	return sql, args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
