package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// favoritesFile is the on-disk document: {"films": [...]}.
type favoritesFile struct {
	Films []model.Favorite `json:"films"`
}

// FavoriteStore persists favorites in a local JSON file. The file is read
// on every call and rewritten in full on every change; a missing or
// unreadable file is treated as an empty list.
type FavoriteStore struct {
	path string
	now  func() time.Time
}

// NewFavoriteStore returns a store backed by path.
func NewFavoriteStore(path string) *FavoriteStore {
	return &FavoriteStore{path: path, now: time.Now}
}

// Path returns the backing file.
func (s *FavoriteStore) Path() string { return s.path }

// Add appends a snapshot of fav unless a favorite with the same FilmID is
// already stored. It reports whether the list changed. When the file cannot
// be written the favorite is not added and a *PersistenceError is returned.
func (s *FavoriteStore) Add(fav model.Favorite) (bool, error) {
	doc := s.load()
	for _, f := range doc.Films {
		if f.FilmID == fav.FilmID {
			return false, nil
		}
	}
	fav.Added = s.now().Format(model.FavoriteTimeLayout)
	doc.Films = append(doc.Films, fav)
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether filmID is stored.
func (s *FavoriteStore) IsFavorite(filmID uint64) bool {
	for _, f := range s.load().Films {
		if f.FilmID == filmID {
			return true
		}
	}
	return false
}

// IDs returns the set of stored film ids.
func (s *FavoriteStore) IDs() map[uint64]bool {
	films := s.load().Films
	out := make(map[uint64]bool, len(films))
	for _, f := range films {
		out[f.FilmID] = true
	}
	return out
}

// List returns the favorites in insertion order.
func (s *FavoriteStore) List() []model.Favorite {
	return s.load().Films
}

// Count returns the number of stored favorites.
func (s *FavoriteStore) Count() int { return len(s.load().Films) }

// Clear removes every favorite and returns how many were removed. Callers
// confirm with the user before calling it.
func (s *FavoriteStore) Clear() (int, error) {
	n := len(s.load().Films)
	if n == 0 {
		return 0, nil
	}
	if err := s.save(favoritesFile{Films: []model.Favorite{}}); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *FavoriteStore) load() favoritesFile {
	doc := favoritesFile{Films: []model.Favorite{}}
	bs, err := os.ReadFile(s.path)
	if err != nil {
		return doc
	}
	var parsed favoritesFile
	if err := json.Unmarshal(bs, &parsed); err != nil || parsed.Films == nil {
		return doc
	}
	return parsed
}

// save writes doc to a temporary file next to the target and renames it
// into place, so a failed write never leaves a truncated file behind.
func (s *FavoriteStore) save(doc favoritesFile) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if _, err := os.Stat(tmpName); !errors.Is(err, fs.ErrNotExist) {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
