package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/iliyamo/movie-catalog-browser/internal/browse"
	"github.com/iliyamo/movie-catalog-browser/internal/config"
	"github.com/iliyamo/movie-catalog-browser/internal/model"
	"github.com/iliyamo/movie-catalog-browser/internal/repository"
)

type fakeLookups struct {
	genres  []model.Genre
	ratings []string
	years   model.YearRange
	noYears bool
}

func (f *fakeLookups) ListGenres(context.Context) ([]model.Genre, error) { return f.genres, nil }
func (f *fakeLookups) ListRatings(context.Context) ([]string, error) { return f.ratings, nil }
func (f *fakeLookups) YearBounds(context.Context) (model.YearRange, error) {
	if f.noYears {
		return model.YearRange{}, repository.ErrNoYearBounds
	}
	return f.years, nil
}

type fakeSearch struct {
	films    []model.Film
	countErr error
	keyword  []model.KeywordFilters
	genre    []model.GenreYearFilters
}

func (f *fakeSearch) CountByKeyword(_ context.Context, fl model.KeywordFilters) (int, error) {
	f.keyword = append(f.keyword, fl)
	return len(f.films), f.countErr
}

func (f *fakeSearch) FetchByKeyword(ctx context.Context, _ model.KeywordFilters, offset, limit int) ([]model.Film, error) {
	return browse.StaticSource("", f.films).Fetch(ctx, offset, limit)
}

func (f *fakeSearch) CountByGenreYear(_ context.Context, fl model.GenreYearFilters) (int, error) {
	f.genre = append(f.genre, fl)
	return len(f.films), f.countErr
}

func (f *fakeSearch) FetchByGenreYear(ctx context.Context, _ model.GenreYearFilters, offset, limit int) ([]model.Film, error) {
	return browse.StaticSource("", f.films).Fetch(ctx, offset, limit)
}

type noActors struct{}

func (noActors) ActorsForFilm(context.Context, uint64) ([]model.Actor, error) { return nil, nil }
func (noActors) CountForActor(context.Context, uint64) (int, error) { return 0, nil }
func (noActors) FilmsForActor(context.Context, uint64, int, int) ([]model.Film, error) {
	return nil, nil
}

type loggedSearch struct {
	searchType model.SearchType
	params     map[string]any
	count      int
}

type recordingLogger struct{ entries []loggedSearch }

func (r *recordingLogger) LogSearch(_ context.Context, t model.SearchType, p map[string]any, n int) {
	r.entries = append(r.entries, loggedSearch{t, p, n})
}

type fakeStats struct {
	enabled bool
	top     []model.QueryStat
	cleared bool
}

func (f *fakeStats) Enabled() bool { return f.enabled }
func (f *fakeStats) Top(context.Context, int) ([]model.QueryStat, error) {
	return f.top, nil
}
func (f *fakeStats) Recent(context.Context, int) ([]model.QueryStat, error) {
	return f.top, nil
}
func (f *fakeStats) Clear(context.Context) (int64, error) {
	f.cleared = true
	return int64(len(f.top)), nil
}

type appHarness struct {
	app    *App
	out    *bytes.Buffer
	search *fakeSearch
	logger *recordingLogger
	stats  *fakeStats
	favs   *repository.FavoriteStore
}

func newApp(t *testing.T, input string, search *fakeSearch, mode string) *appHarness {
	t.Helper()
	return newAppReading(t, strings.NewReader(input), search, mode)
}

func newAppReading(t *testing.T, in io.Reader, search *fakeSearch, mode string) *appHarness {
	t.Helper()
	out := &bytes.Buffer{}
	console := browse.NewConsole(in, out)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	favs := repository.NewFavoriteStore(filepath.Join(t.TempDir(), "favorites.json"))
	logger := &recordingLogger{}
	stats := &fakeStats{enabled: true}

	app := New(Deps{
		Console: console,
		Lookups: &fakeLookups{
			genres:  []model.Genre{{ID: 5, Name: "Comedy"}},
			ratings: []string{"G", "PG"},
			years:   model.YearRange{Min: 2000, Max: 2006},
		},
		Search:           search,
		Browser:          browse.NewController(noActors{}, favs, console, 10, log),
		Favorites:        favs,
		Logger:           logger,
		Stats:            stats,
		Log:              log,
		EmptyKeywordMode: mode,
	})
	return &appHarness{app: app, out: out, search: search, logger: logger, stats: stats, favs: favs}
}

func dogFilms() []model.Film {
	return []model.Film{{ID: 1, Title: "Dog Day", ReleaseYear: 2006}, {ID: 2, Title: "Doghouse", ReleaseYear: 2006}}
}

func TestApp_KeywordSearchLogsOnceAndBrowses(t *testing.T) {
	// menu 1, keyword, no genre, no years, no rating, favorite film 2, leave results, quit
	h := newApp(t, "1\ndog\nn\nn\n\nf2\nq\nq\n", &fakeSearch{films: dogFilms()}, "")

	require.NoError(t, h.app.Run(context.Background()))

	require.Len(t, h.logger.entries, 1)
	assert.Equal(t, model.SearchKeyword, h.logger.entries[0].searchType)
	assert.Equal(t, map[string]any{"keyword": "dog"}, h.logger.entries[0].params)
	assert.Equal(t, 2, h.logger.entries[0].count)

	out := h.out.String()
	assert.Contains(t, out, "Found 2 film(s).")
	assert.Contains(t, out, "Films matching \"dog\" (showing 1–2 of 2)")
	assert.True(t, h.favs.IsFavorite(2))
}

func TestApp_KeywordSearchWithFilters(t *testing.T) {
	// genre 1 (Comedy), years 2005..(default 2006), rating 2 (PG)
	h := newApp(t, "1\ndog\ny\n1\ny\n2005\n\n2\nq\nq\n", &fakeSearch{films: dogFilms()}, "")

	require.NoError(t, h.app.Run(context.Background()))

	require.Len(t, h.search.keyword, 1)
	f := h.search.keyword[0]
	require.NotNil(t, f.GenreID)
	assert.Equal(t, 5, *f.GenreID)
	assert.Equal(t, &model.YearRange{Min: 2005, Max: 2006}, f.Years)
	assert.Equal(t, "PG", f.Rating)
	assert.Equal(t, map[string]any{"keyword": "dog", "genre_id": 5, "year_min": 2005, "year_max": 2006, "rating": "PG"},
		h.logger.entries[0].params)
}

func TestApp_EmptyKeyword(t *testing.T) {
	h := newApp(t, "1\n\nq\n", &fakeSearch{films: dogFilms()}, config.EmptyKeywordAbort)
	require.NoError(t, h.app.Run(context.Background()))
	assert.Contains(t, h.out.String(), "No keyword given")
	assert.Empty(t, h.logger.entries)

	h = newApp(t, "1\n\nn\nn\n\nq\nq\n", &fakeSearch{films: dogFilms()}, config.EmptyKeywordAll)
	require.NoError(t, h.app.Run(context.Background()))
	assert.Contains(t, h.out.String(), "All films (showing 1–2 of 2)")
	require.Len(t, h.logger.entries, 1)
	assert.Equal(t, map[string]any{"keyword": ""}, h.logger.entries[0].params)
}

func TestApp_GenreYearNeedsAFilter(t *testing.T) {
	h := newApp(t, "2\n\n\n\nq\n", &fakeSearch{}, "")

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "No genre or years given")
	assert.Empty(t, h.search.genre)
	assert.Empty(t, h.logger.entries)
}

func TestApp_GenreWithNoFilms(t *testing.T) {
	h := newApp(t, "2\n1\n\n\n\nq\n", &fakeSearch{}, "")

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Found 0 film(s).")
	assert.Contains(t, out, "No films found.")
	require.Len(t, h.logger.entries, 1)
	assert.Equal(t, model.SearchGenreYear, h.logger.entries[0].searchType)
	assert.Equal(t, map[string]any{"genre_id": 5}, h.logger.entries[0].params)
	assert.Zero(t, h.logger.entries[0].count)
}

func TestApp_YearInputIsValidated(t *testing.T) {
	// genre skipped; "20" and "1999" rejected; 2005 accepted; upper defaults
	h := newApp(t, "2\n\n20\n1999\n2005\n\n\nq\nq\n", &fakeSearch{films: dogFilms()}, "")

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "must be a four-digit positive number")
	assert.Contains(t, out, "must be between 2000 and 2006")
	require.Len(t, h.search.genre, 1)
	assert.Equal(t, &model.YearRange{Min: 2005, Max: 2006}, h.search.genre[0].Years)
}

func TestApp_InvertedYearsAreDropped(t *testing.T) {
	h := newApp(t, "2\n\n2006\n2001\nq\n", &fakeSearch{}, "")

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "year filter skipped")
	assert.Contains(t, out, "No genre or years given")
}

func TestApp_ConnectionErrorReturnsToMenu(t *testing.T) {
	search := &fakeSearch{countErr: &repository.ConnectionError{
		Store: "mysql",
		Hint:  "check the MYSQL_* settings",
		Err:   errors.New("dial tcp: connection refused"),
	}}
	h := newApp(t, "1\ndog\nn\nn\n\nq\n", search, "")

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Could not reach mysql")
	assert.Contains(t, out, "check the MYSQL_* settings")
	assert.Contains(t, out, "Bye!")
	assert.Empty(t, h.logger.entries)
}

func TestApp_Favorites(t *testing.T) {
	h := newApp(t, "3\n4\nq\n", &fakeSearch{}, "")
	require.NoError(t, h.app.Run(context.Background()))
	out := h.out.String()
	assert.Contains(t, out, "Your favorites list is empty.")
	assert.Contains(t, out, "already empty")

	h = newApp(t, "3\nq\n4\nn\n4\ny\nq\n", &fakeSearch{}, "")
	_, err := h.favs.Add(model.Favorite{FilmID: 9, Title: "Academy Dinosaur"})
	require.NoError(t, err)

	require.NoError(t, h.app.Run(context.Background()))

	out = h.out.String()
	assert.Contains(t, out, "My favorites (showing 1–1 of 1)")
	assert.Contains(t, out, "Academy Dinosaur")
	assert.Contains(t, out, "Cancelled.")
	assert.Contains(t, out, "Removed 1 favorite(s).")
	assert.Zero(t, h.favs.Count())
}

func TestApp_StatsAndClearLogs(t *testing.T) {
	h := newApp(t, "5\n6\ny\nq\n", &fakeSearch{}, "")
	h.stats.top = []model.QueryStat{{
		SearchType: model.SearchKeyword,
		Params:     bson.D{{Key: "keyword", Value: "dog"}},
		Count:      3,
	}}

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "MOST FREQUENT SEARCHES")
	assert.Contains(t, out, "keyword \"dog\"")
	assert.Contains(t, out, "Times run: 3")
	assert.Contains(t, out, "Deleted 1 log entr(ies).")
	assert.True(t, h.stats.cleared)
}

func TestApp_StatsDisabled(t *testing.T) {
	h := newApp(t, "5\n6\nq\n", &fakeSearch{}, "")
	h.stats.enabled = false

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Search statistics are unavailable")
	assert.False(t, h.stats.cleared)
}

func TestApp_EndOfInputQuits(t *testing.T) {
	h := newApp(t, "7\n", &fakeSearch{}, "")

	require.NoError(t, h.app.Run(context.Background()))

	assert.Contains(t, h.out.String(), "Unknown option")
}

func TestApp_CancelStopsBlockedPrompt(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	h := newAppReading(t, in, &fakeSearch{}, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
}

func TestApp_CancelInsideFlowEndsQuietly(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()
	h := newAppReading(t, in, &fakeSearch{}, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.app.Run(ctx) }()

	// menu choice, then the keyword prompt blocks
	_, err := io.WriteString(w, "1\n")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
	assert.NotContains(t, h.out.String(), "Error:")
	assert.Empty(t, h.search.keyword)
}

func TestApp_KeywordsThatLookLikeCommands(t *testing.T) {
	for _, kw := range []string{"q", "Q", "й"} {
		t.Run(kw, func(t *testing.T) {
			h := newApp(t, "1\n"+kw+"\nn\nn\n\nq\nq\n", &fakeSearch{films: dogFilms()}, "")

			require.NoError(t, h.app.Run(context.Background()))

			require.Len(t, h.search.keyword, 1)
			assert.Equal(t, kw, h.search.keyword[0].Keyword)
			require.Len(t, h.logger.entries, 1)
		})
	}
}

func TestParseYear(t *testing.T) {
	bounds := model.YearRange{Min: 2000, Max: 2006}
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"2005", 2005, false},
		{"2000", 2000, false},
		{"2006", 2006, false},
		{"1999", 0, true},
		{"2007", 0, true},
		{"205", 0, true},
		{"02005", 0, true},
		{"-200", 0, true},
		{"abcd", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYear(tt.in, bounds)
			if tt.wantErr {
				var ve *model.ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "none", FormatParams(nil))
	assert.Equal(t, `keyword "dog", genre #5, years 2001–2004, rated up to PG`,
		FormatParams(map[string]any{"keyword": "dog", "genre_id": 5, "year_min": 2001, "year_max": 2004, "rating": "PG"}))
	assert.Equal(t, "all titles", FormatParams(map[string]any{"keyword": ""}))
}
