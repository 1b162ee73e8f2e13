// Package browse implements the interactive result browser: it pages
// through a result set, lets the user open a film's cast, jump into an
// actor's filmography and back, and star films as favorites.
//
// Drill-downs are kept on an explicit stack of sessions rather than on the
// Go call stack. Leaving a session (q, or running out of pages) returns to
// the one below it; m leaves all of them at once.
package browse

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog-browser/internal/model"
)

// FavoriteMarker records favorites and reports which films are starred.
type FavoriteMarker interface {
	Add(fav model.Favorite) (bool, error)
	IDs() map[uint64]bool
}

// Controller drives browse sessions over a console.
type Controller struct {
	catalog   ActorCatalog
	favorites FavoriteMarker
	console   *Console
	pageSize  int
	log       *slog.Logger
}

// NewController builds a Controller. pageSize below 1 is treated as 1.
func NewController(catalog ActorCatalog, favorites FavoriteMarker, console *Console, pageSize int, log *slog.Logger) *Controller {
	if pageSize < 1 {
		pageSize = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{catalog: catalog, favorites: favorites, console: console, pageSize: pageSize, log: log}
}

// session is one result set being browsed. total is frozen when the session
// starts and is never recounted while paging.
type session struct {
	src    PageSource
	total  int
	offset int
	page   model.Page
	loaded bool
	redraw bool
}

type action int

const (
	actStay action = iota
	actNext
	actPush
	actPop
	actMenu
)

// Browse pages through src until the user leaves it. total is the count
// computed before browsing started. A catalog error ends every open
// session and is returned; end of input ends them without error.
func (c *Controller) Browse(ctx context.Context, src PageSource, total int) error {
	stack := []*session{{src: src, total: total}}

	pop := func() {
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			stack[len(stack)-1].redraw = true
		}
	}

	for len(stack) > 0 {
		s := stack[len(stack)-1]

		if !s.loaded {
			films, err := s.src.Fetch(ctx, s.offset, c.pageSize)
			if err != nil {
				c.log.Error("fetch page failed", "heading", s.src.Heading(), "offset", s.offset, "err", err)
				return err
			}
			if len(films) == 0 {
				if s.offset == 0 {
					c.console.Println("\n  No films found.")
				} else {
					c.console.Println("\n  No more results.")
				}
				pop()
				continue
			}
			s.page = model.Page{Items: films, Offset: s.offset, Limit: c.pageSize, Total: s.total}
			s.loaded = true
			s.redraw = true
		}

		if s.redraw {
			RenderPage(c.console.Out(), s.src.Heading(), s.page, c.favoriteIDs())
			if s.page.Short() {
				c.console.Println("  End of results.")
			}
			s.redraw = false
		}

		act, child, err := c.command(ctx, s)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch act {
		case actNext:
			if s.page.Short() {
				pop()
				continue
			}
			s.offset += c.pageSize
			s.loaded = false
		case actPush:
			stack = append(stack, child)
		case actPop:
			pop()
		case actMenu:
			stack = nil
		}
	}
	return nil
}

// command reads sub-commands until one changes the browse state.
func (c *Controller) command(ctx context.Context, s *session) (action, *session, error) {
	hint := "Enter: next page"
	if s.page.Short() {
		hint = "Enter: back"
	}
	label := "\n " + hint + " | N: cast of film N | fN: add film N to favorites | q: back | m: menu\n > "

	for {
		raw, err := c.console.Prompt(ctx, label)
		if err != nil {
			return actStay, nil, err
		}
		cmd := NormalizeCommand(raw)

		switch {
		case cmd == "":
			return actNext, nil, nil
		case cmd == "q":
			return actPop, nil, nil
		case cmd == "m":
			return actMenu, nil, nil
		case strings.HasPrefix(cmd, "f"):
			n, ok := c.filmIndex(s.page, strings.TrimSpace(cmd[1:]))
			if ok {
				c.addFavorite(s.page.At(n))
			}
		default:
			n, ok := c.filmIndex(s.page, cmd)
			if !ok {
				continue
			}
			child, err := c.viewActors(ctx, s.page.At(n))
			if err != nil {
				return actStay, nil, err
			}
			if child != nil {
				return actPush, child, nil
			}
		}
	}
}

// filmIndex parses a 1-based result index and checks that it is on the page.
func (c *Controller) filmIndex(p model.Page, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		c.console.Println("  Expected a film number.")
		return 0, false
	}
	if !p.Contains(n) {
		c.console.Printf("  Invalid number: enter a value from %d to %d.\n", p.Start(), p.End())
		return 0, false
	}
	return n, true
}

func (c *Controller) addFavorite(f model.Film) {
	added, err := c.favorites.Add(model.FavoriteFromFilm(f))
	switch {
	case err != nil:
		c.log.Error("add favorite failed", "film_id", f.ID, "err", err)
		c.console.Printf("  Could not save favorites: %v\n", err)
	case added:
		c.log.Info("favorite added", "film_id", f.ID)
		c.console.Printf("  %q added to favorites.\n", f.Title)
	default:
		c.console.Printf("  %q is already in favorites.\n", f.Title)
	}
}

// viewActors shows the cast of f and lets the user pick an actor. It
// returns the filmography session to push, or nil when the user cancels.
func (c *Controller) viewActors(ctx context.Context, f model.Film) (*session, error) {
	actors, err := c.catalog.ActorsForFilm(ctx, f.ID)
	if err != nil {
		c.log.Error("load cast failed", "film_id", f.ID, "err", err)
		return nil, err
	}
	RenderActors(c.console.Out(), f.Title, actors)
	if len(actors) == 0 {
		return nil, nil
	}

	for {
		raw, err := c.console.Prompt(ctx, "\n Choose an actor to see their films (Enter to cancel): ")
		if err != nil {
			return nil, err
		}
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.console.Println("  Expected an actor number.")
			continue
		}
		if n < 1 || n > len(actors) {
			c.console.Printf("  Invalid number: enter a value from 1 to %d.\n", len(actors))
			continue
		}

		a := actors[n-1]
		total, err := c.catalog.CountForActor(ctx, a.ID)
		if err != nil {
			c.log.Error("count actor films failed", "actor_id", a.ID, "err", err)
			return nil, err
		}
		return &session{src: ActorSource(c.catalog, a), total: total}, nil
	}
}

func (c *Controller) favoriteIDs() map[uint64]bool {
	if c.favorites == nil {
		return nil
	}
	return c.favorites.IDs()
}
