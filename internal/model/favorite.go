package model

// FavoriteTimeLayout is the format of Favorite.Added.
const FavoriteTimeLayout = "2006-01-02 15:04:05"

// Favorite is a snapshot of a film taken when the user starred it. It is
// never re-synced with the catalog.
type Favorite struct {
	FilmID uint64  `json:"film_id"`
	Title  string  `json:"title"`
	Added  string  `json:"added"`
	Year   *int    `json:"year,omitempty"`
	Rating *string `json:"rating,omitempty"`
}

// FavoriteFromFilm captures the fields of f that are stored with a favorite.
// Added is filled in by the store.
func FavoriteFromFilm(f Film) Favorite {
	fav := Favorite{FilmID: f.ID, Title: f.Title}
	if f.ReleaseYear != 0 {
		y := f.ReleaseYear
		fav.Year = &y
	}
	if f.Rating != nil && *f.Rating != "" {
		r := *f.Rating
		fav.Rating = &r
	}
	return fav
}

// Film converts the snapshot back into a Film so it can be browsed like a
// search result. Catalog-only columns stay empty.
func (f Favorite) Film() Film {
	film := Film{ID: f.FilmID, Title: f.Title, Rating: f.Rating}
	if f.Year != nil {
		film.ReleaseYear = *f.Year
	}
	if f.Added != "" {
		desc := "Added " + f.Added
		film.Description = &desc
	}
	return film
}
