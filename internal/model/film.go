package model

// Film is a read-only projection of a row in the catalog's `film` table.
// Nullable columns are represented by pointers so that a missing value can
// be told apart from a zero value when rendering.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – film title.
//  Description     – optional synopsis.
//  ReleaseYear     – year of release (0 when the column is NULL).
//  Rating          – content rating code (nil when unrated).
//  RentalRate      – rental price (nullable).
//  ReplacementCost – replacement cost (nullable).
type Film struct {
	ID              uint64   // film.film_id
	Title           string   // film.title
	Description     *string  // film.description (nullable)
	ReleaseYear     int      // film.release_year
	Rating          *string  // film.rating (nullable)
	RentalRate      *float64 // film.rental_rate (nullable)
	ReplacementCost *float64 // film.replacement_cost (nullable)
}

// RatingCode returns the rating code or an empty string when the film is unrated.
func (f Film) RatingCode() string {
	if f.Rating == nil {
		return ""
	}
	return *f.Rating
}

// Genre represents a row in the `category` table.
type Genre struct {
	ID   int    // category.category_id
	Name string // category.name
}

// Page is one bounded window over an ordered result set. Total is the
// count computed once before browsing started; it is never refreshed.
type Page struct {
	Items  []Film
	Offset int
	Limit  int
	Total  int
}

// Start returns the 1-based index of the first item on the page.
func (p Page) Start() int { return p.Offset + 1 }

// End returns the 1-based index of the last item on the page.
func (p Page) End() int { return p.Offset + len(p.Items) }

// Short reports whether the page holds fewer rows than the page size,
// which marks the last page of the result set.
func (p Page) Short() bool { return len(p.Items) < p.Limit }

// Contains reports whether the 1-based result index n is on this page.
func (p Page) Contains(n int) bool { return n >= p.Start() && n <= p.End() }

// At returns the film at the 1-based result index n. Callers check Contains first.
func (p Page) At(n int) Film { return p.Items[n-p.Offset-1] }
