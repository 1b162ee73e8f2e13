package browse

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

type fakeCatalog struct {
	actors    map[uint64][]model.Actor
	films     map[uint64][]model.Film
	actorsErr error
}

func (f *fakeCatalog) ActorsForFilm(_ context.Context, filmID uint64) ([]model.Actor, error) {
	if f.actorsErr != nil {
		return nil, f.actorsErr
	}
	return f.actors[filmID], nil
}

func (f *fakeCatalog) CountForActor(_ context.Context, actorID uint64) (int, error) {
	return len(f.films[actorID]), nil
}

func (f *fakeCatalog) FilmsForActor(ctx context.Context, actorID uint64, offset, limit int) ([]model.Film, error) {
	return StaticSource("", f.films[actorID]).Fetch(ctx, offset, limit)
}

type memFavorites struct {
	list []model.Favorite
	err  error
}

func (m *memFavorites) Add(fav model.Favorite) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, f := range m.list {
		if f.FilmID == fav.FilmID {
			return false, nil
		}
	}
	m.list = append(m.list, fav)
	return true, nil
}

func (m *memFavorites) IDs() map[uint64]bool {
	out := map[uint64]bool{}
	for _, f := range m.list {
		out[f.FilmID] = true
	}
	return out
}

// recordingSource remembers the offsets it was asked for.
type recordingSource struct {
	PageSource
	offsets []int
	err     error
}

func (r *recordingSource) Fetch(ctx context.Context, offset, limit int) ([]model.Film, error) {
	r.offsets = append(r.offsets, offset)
	if r.err != nil {
		return nil, r.err
	}
	return r.PageSource.Fetch(ctx, offset, limit)
}

func films(titles ...string) []model.Film {
	out := make([]model.Film, 0, len(titles))
	for i, t := range titles {
		out = append(out, model.Film{ID: uint64(i + 1), Title: t, ReleaseYear: 2006})
	}
	return out
}

type harness struct {
	ctl     *Controller
	out     *bytes.Buffer
	catalog *fakeCatalog
	favs    *memFavorites
}

func newHarness(input string, pageSize int) *harness {
	out := &bytes.Buffer{}
	cat := &fakeCatalog{
		actors: map[uint64][]model.Actor{
			1: {{ID: 10, FirstName: "PENELOPE", LastName: "GUINESS"}, {ID: 20, FirstName: "NICK", LastName: "WAHLBERG"}},
		},
		films: map[uint64][]model.Film{
			10: {{ID: 100, Title: "Academy Dinosaur"}, {ID: 101, Title: "Anaconda Confessions"}},
		},
	}
	favs := &memFavorites{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctl := NewController(cat, favs, NewConsole(strings.NewReader(input), out), pageSize, log)
	return &harness{ctl: ctl, out: out, catalog: cat, favs: favs}
}

func TestBrowse_EmptyFirstPage(t *testing.T) {
	h := newHarness("", 10)

	err := h.ctl.Browse(context.Background(), StaticSource("Comedy", nil), 0)

	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "No films found.")
	assert.NotContains(t, h.out.String(), "Enter:")
}

func TestBrowse_PagesUntilShortPage(t *testing.T) {
	h := newHarness("\n\n", 2)
	src := &recordingSource{PageSource: StaticSource("Films matching \"a\"", films("A", "B", "C"))}

	require.NoError(t, h.ctl.Browse(context.Background(), src, 3))

	assert.Equal(t, []int{0, 2}, src.offsets)
	out := h.out.String()
	assert.Contains(t, out, "(showing 1–2 of 3)")
	assert.Contains(t, out, "(showing 3–3 of 3)")
	assert.Contains(t, out, "End of results.")
}

func TestBrowse_FullLastPageEndsOnEmptyFetch(t *testing.T) {
	h := newHarness("\n\n\n", 1)
	src := &recordingSource{PageSource: StaticSource("Films matching \"dog\"", films("Dog Day", "Doghouse"))}

	require.NoError(t, h.ctl.Browse(context.Background(), src, 2))

	assert.Equal(t, []int{0, 1, 2}, src.offsets)
	out := h.out.String()
	assert.Contains(t, out, "1.  Dog Day")
	assert.Contains(t, out, "2.  Doghouse")
	assert.Contains(t, out, "No more results.")
}

func TestBrowse_TotalIsFrozen(t *testing.T) {
	h := newHarness("q\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("x", films("A", "B")), 5))

	assert.Contains(t, h.out.String(), "(showing 1–2 of 5)")
}

func TestBrowse_AddFavorite(t *testing.T) {
	h := newHarness("f1\nf1\nа2\nf9\nq\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("x", films("Dog Day", "Doghouse")), 2))

	require.Len(t, h.favs.list, 2)
	assert.Equal(t, uint64(1), h.favs.list[0].FilmID)
	assert.Equal(t, uint64(2), h.favs.list[1].FilmID)
	out := h.out.String()
	assert.Contains(t, out, "\"Dog Day\" added to favorites.")
	assert.Contains(t, out, "\"Dog Day\" is already in favorites.")
	assert.Contains(t, out, "Invalid number: enter a value from 1 to 2.")
}

func TestBrowse_FavoriteWriteFailureIsReported(t *testing.T) {
	h := newHarness("f1\nq\n", 10)
	h.favs.err = errors.New("disk full")

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("x", films("Dog Day")), 1))

	assert.Empty(t, h.favs.list)
	assert.Contains(t, h.out.String(), "Could not save favorites: disk full")
}

func TestBrowse_FavoritesAreStarred(t *testing.T) {
	h := newHarness("q\n", 10)
	h.favs.list = []model.Favorite{{FilmID: 2, Title: "Doghouse"}}

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("x", films("Dog Day", "Doghouse")), 2))

	out := h.out.String()
	assert.Contains(t, out, "Doghouse (2006)  ★")
	assert.NotContains(t, out, "Dog Day (2006)  ★")
}

func TestBrowse_ActorDrillDownAndReturn(t *testing.T) {
	// open cast of film 1, pick actor 1, leave the filmography, leave the search
	h := newHarness("1\n1\nq\nq\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("Search results", films("Dog Day")), 1))

	out := h.out.String()
	assert.Contains(t, out, "Cast of \"Dog Day\"")
	assert.Contains(t, out, "Penelope Guiness")
	assert.Contains(t, out, "Films with Penelope Guiness (showing 1–2 of 2)")
	assert.Contains(t, out, "Academy Dinosaur")
	assert.Equal(t, 2, strings.Count(out, "Search results (showing 1–1 of 1)"))
}

func TestBrowse_ActorFilmographyRunsOutThenParentRedraws(t *testing.T) {
	h := newHarness("1\n2\n\n\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("Search results", films("Dog Day")), 1))

	out := h.out.String()
	assert.Contains(t, out, "Nick Wahlberg")
	assert.Contains(t, out, "No films found.")
	assert.Equal(t, 2, strings.Count(out, "Search results (showing 1–1 of 1)"))
}

func TestBrowse_CancelActorChoiceStaysOnPage(t *testing.T) {
	h := newHarness("1\n\nq\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("Search results", films("Dog Day")), 1))

	out := h.out.String()
	assert.Equal(t, 1, strings.Count(out, "Search results (showing 1–1 of 1)"))
	assert.NotContains(t, out, "Films with")
}

func TestBrowse_MenuLeavesEverySession(t *testing.T) {
	h := newHarness("1\n1\nm\nq\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("Search results", films("Dog Day")), 1))

	out := h.out.String()
	assert.Contains(t, out, "Films with Penelope Guiness")
	assert.Equal(t, 1, strings.Count(out, "Search results (showing 1–1 of 1)"))
}

func TestBrowse_InvalidInputReprompts(t *testing.T) {
	h := newHarness("abc\n0\n5\n1\nx\n7\n\nq\n", 10)

	require.NoError(t, h.ctl.Browse(context.Background(), StaticSource("x", films("Dog Day")), 1))

	out := h.out.String()
	assert.Contains(t, out, "Expected a film number.")
	assert.Contains(t, out, "Invalid number: enter a value from 1 to 1.")
	assert.Contains(t, out, "Expected an actor number.")
	assert.Contains(t, out, "Invalid number: enter a value from 1 to 2.")
	assert.NotContains(t, out, "Films with")
}

func TestBrowse_CatalogErrorAborts(t *testing.T) {
	boom := errors.New("catalog down")

	h := newHarness("", 10)
	src := &recordingSource{PageSource: StaticSource("x", nil), err: boom}
	assert.ErrorIs(t, h.ctl.Browse(context.Background(), src, 3), boom)

	h = newHarness("1\n", 10)
	h.catalog.actorsErr = boom
	assert.ErrorIs(t, h.ctl.Browse(context.Background(), StaticSource("x", films("Dog Day")), 1), boom)
}

func TestBrowse_EndOfInputStops(t *testing.T) {
	h := newHarness("", 10)

	err := h.ctl.Browse(context.Background(), StaticSource("x", films("Dog Day")), 1)

	assert.NoError(t, err)
}

func TestNormalizeCommand(t *testing.T) {
	assert.Equal(t, "f3", NormalizeCommand(" F3 "))
	assert.Equal(t, "f3", NormalizeCommand("а3"))
	assert.Equal(t, "q", NormalizeCommand("Й"))
	assert.Equal(t, "m", NormalizeCommand("ь"))
}

func TestStaticSource_Fetch(t *testing.T) {
	src := StaticSource("x", films("A", "B", "C"))
	ctx := context.Background()

	page, _ := src.Fetch(ctx, 0, 2)
	assert.Len(t, page, 2)
	page, _ = src.Fetch(ctx, 2, 2)
	assert.Len(t, page, 1)
	page, _ = src.Fetch(ctx, 3, 2)
	assert.Empty(t, page)
	page, _ = src.Fetch(ctx, 0, 0)
	assert.Len(t, page, 3)
}
