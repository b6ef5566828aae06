package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/widget"
)

// SessionCookie names the cookie carrying the widget session id.
const SessionCookie = "showfinder_session"

const (
	defaultSessionSize = 1000
	defaultSessionTTL  = 24 * time.Hour
)

// sessions holds one widget controller per browser session.
type sessions struct {
	ttl         time.Duration
	controllers *expirable.LRU[string, *widget.Controller]
	create      func(id string) (*widget.Controller, error)
}

func newSessions(size int, ttl time.Duration, create func(id string) (*widget.Controller, error)) *sessions {
	if size <= 0 {
		size = defaultSessionSize
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	onEvict := func(_ string, c *widget.Controller) {
		c.Close()
		metrics.ActiveSessions.Dec()
	}

	return &sessions{
		ttl:         ttl,
		controllers: expirable.NewLRU[string, *widget.Controller](size, onEvict, ttl),
		create:      create,
	}
}

// controller returns the controller of the request's session, starting a new
// session (and setting its cookie) when the cookie is absent or has expired.
// Every request renews the session lifetime.
func (s *sessions) controller(w http.ResponseWriter, r *http.Request) (*widget.Controller, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if c, ok := s.controllers.Get(cookie.Value); ok {
			// Add on a live key resets its expiry without evicting it.
			s.controllers.Add(cookie.Value, c)
			s.setCookie(w, cookie.Value)
			return c, nil
		}
	}

	id := uuid.NewString()
	c, err := s.create(id)
	if err != nil {
		return nil, err
	}
	s.controllers.Add(id, c)
	metrics.ActiveSessions.Inc()
	s.setCookie(w, id)
	return c, nil
}

func (s *sessions) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *sessions) len() int {
	return s.controllers.Len()
}

// purge drops every session, closing their controllers.
func (s *sessions) purge() {
	s.controllers.Purge()
}
