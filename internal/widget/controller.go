// Package widget drives one show-finder page: it runs searches and episode
// expansions against the catalog and applies their results to the page DOM.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/render"
	"github.com/Belphemur/ShowFinder/internal/store"
)

// ErrSuperseded is returned when an action finished after a newer one was
// started. Its result was discarded and the page was left untouched.
var ErrSuperseded = errors.New("widget: result superseded by a newer action")

// Render kinds used as metric labels.
const (
	kindShows    = "shows"
	kindEpisodes = "episodes"
)

// Options configures a Controller.
type Options struct {
	Client    client.Client
	Store     store.Store
	SessionID string
	Summary   render.SummaryFilter
	Logger    zerolog.Logger

	// Hub receives failures when set.
	Hub *sentry.Hub
}

// Controller owns the page of one session.
//
// Fetches run without holding the page lock; results are applied under it.
// Only the most recently initiated search renders shows, and an expansion
// renders only if no search or other expansion was initiated after it.
type Controller struct {
	client   client.Client
	registry *Registry
	session  string
	logger   zerolog.Logger
	hub      *sentry.Hub

	searchToken atomic.Uint64
	expandToken atomic.Uint64

	mu      sync.Mutex
	page    *render.Page
	handles []string
}

// New creates the controller of a session with a fresh page.
func New(opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("widget: client is nil")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("widget: store is nil")
	}

	page, err := render.NewPage(opts.Summary)
	if err != nil {
		return nil, err
	}

	return &Controller{
		client:   opts.Client,
		registry: NewRegistry(opts.Store, opts.SessionID),
		session:  opts.SessionID,
		logger:   opts.Logger.With().Str("session", opts.SessionID).Logger(),
		hub:      opts.Hub,
		page:     page,
	}, nil
}

// Search fetches the shows matching term and renders them, hiding the
// episode panel. On failure the page is unchanged.
func (c *Controller) Search(ctx context.Context, term string) error {
	token := c.searchToken.Add(1)

	shows, err := c.client.SearchShows(ctx, term)
	if err != nil {
		c.report(err, "search", term)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.searchToken.Load() != token {
		metrics.DiscardedResultsTotal.WithLabelValues(kindShows).Inc()
		c.logger.Debug().Str("term", term).Uint64("token", token).Msg("Discarding stale search result")
		return ErrSuperseded
	}

	cards := make([]models.ShowCard, 0, len(shows))
	handles := make([]string, 0, len(shows))
	for _, show := range shows {
		handle, err := c.registry.Register(show)
		if err != nil {
			c.registry.Forget(handles)
			c.report(err, "search", term)
			return fmt.Errorf("register show %d: %w", show.ID, err)
		}
		cards = append(cards, models.ShowCard{Show: show, Handle: handle})
		handles = append(handles, handle)
	}

	c.registry.Forget(c.handles)
	c.handles = handles

	c.page.HideEpisodes()
	c.page.SetSearchTerm(term)
	c.page.RenderShows(cards)
	metrics.RendersTotal.WithLabelValues(kindShows).Inc()

	c.logger.Debug().Str("term", term).Int("shows", len(cards)).Msg("Rendered search results")
	return nil
}

// ExpandEpisodes fetches the episodes of the show rendered under handle and
// reveals them in the episode panel. An unknown handle does not supersede an
// expansion in flight.
func (c *Controller) ExpandEpisodes(ctx context.Context, handle string) error {
	searchAt := c.searchToken.Load()

	show, err := c.registry.Lookup(handle)
	if err != nil {
		c.logger.Debug().Err(err).Str("handle", handle).Msg("Unknown show handle")
		return err
	}
	token := c.expandToken.Add(1)

	episodes, err := c.client.GetEpisodes(ctx, show.ID)
	if err != nil {
		c.report(err, "episodes", show.Name)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expandToken.Load() != token || c.searchToken.Load() != searchAt {
		metrics.DiscardedResultsTotal.WithLabelValues(kindEpisodes).Inc()
		c.logger.Debug().Int("show_id", show.ID).Uint64("token", token).Msg("Discarding stale episode listing")
		return ErrSuperseded
	}

	c.page.RenderEpisodes(episodes)
	metrics.RendersTotal.WithLabelValues(kindEpisodes).Inc()

	c.logger.Debug().Int("show_id", show.ID).Int("episodes", len(episodes)).Msg("Rendered episodes")
	return nil
}

// Click dispatches a click on target the way a listener delegated from the
// shows container would: only targets inside an expansion control act, and
// the show is taken from the closest show node. Other clicks are ignored.
func (c *Controller) Click(ctx context.Context, target *goquery.Selection) error {
	c.mu.Lock()
	control := target.Closest(render.ExpandSelector)
	handle, ok := "", false
	if control.Length() > 0 {
		handle, ok = c.page.ShowHandleOf(control)
	}
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return c.ExpandEpisodes(ctx, handle)
}

// ControlFor returns the expansion control of the show rendered under handle,
// or an empty selection when no such show is on the page.
func (c *Controller) ControlFor(handle string) *goquery.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Document().Find(render.ShowSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		h, ok := s.Attr(render.ShowHandleAttr)
		return ok && h == handle
	}).Find(render.ExpandSelector)
}

// Find selects nodes of the current page.
func (c *Controller) Find(selector string) *goquery.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Document().Find(selector)
}

// EpisodesVisible reports whether the episode panel is shown.
func (c *Controller) EpisodesVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.EpisodesVisible()
}

// WriteHTML serialises the current page to w.
func (c *Controller) WriteHTML(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.page.WriteTo(w)
	return err
}

// Snapshot returns the current page markup.
func (c *Controller) Snapshot() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.HTML()
}

// Close forgets the handles of the rendered shows.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.Forget(c.handles)
	c.handles = nil
}

func (c *Controller) report(err error, action, subject string) {
	c.logger.Error().Err(err).Str("action", action).Str("subject", subject).Msg("Widget action failed")

	if c.hub == nil {
		return
	}
	c.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("action", action)
		scope.SetTag("session", c.session)
		scope.SetContext("widget", sentry.Context{"subject": subject})
		c.hub.CaptureException(err)
	})
}
