package widget

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/store"
)

// Registry maps the handles of rendered show nodes to their Show records.
//
// Handles registered by this registry stay resolvable until they are
// forgotten, whatever the store evicts or expires. The store keeps a copy
// under session-scoped keys so several sessions can share one backend.
type Registry struct {
	store   store.Store
	session string

	mu    sync.RWMutex
	shows map[string]models.Show
}

// NewRegistry returns the registry of one session.
func NewRegistry(s store.Store, session string) *Registry {
	return &Registry{
		store:   s,
		session: session,
		shows:   make(map[string]models.Show),
	}
}

func (r *Registry) key(handle string) string {
	return r.session + "/" + handle
}

// Register stores show under a fresh handle and returns the handle.
// Nothing is registered when the store write fails.
func (r *Registry) Register(show models.Show) (string, error) {
	payload, err := json.Marshal(show)
	if err != nil {
		return "", err
	}
	handle := uuid.NewString()
	if err := r.store.Set(r.key(handle), payload); err != nil {
		return "", fmt.Errorf("store show handle: %w", err)
	}

	r.mu.Lock()
	r.shows[handle] = show
	r.mu.Unlock()
	return handle, nil
}

// Lookup resolves a handle. Unknown or forgotten handles return an ErrNotFound.
func (r *Registry) Lookup(handle string) (models.Show, error) {
	r.mu.RLock()
	show, ok := r.shows[handle]
	r.mu.RUnlock()
	if ok {
		return show, nil
	}

	payload, ok := r.store.Get(r.key(handle))
	if !ok {
		return models.Show{}, apperrors.NewHandleNotFoundError(handle)
	}
	if err := json.Unmarshal(payload, &show); err != nil {
		return models.Show{}, &apperrors.ErrMalformedResponse{Resource: "show handle", Err: err}
	}
	return show, nil
}

// Forget removes handles from the registry and the store.
func (r *Registry) Forget(handles []string) {
	r.mu.Lock()
	for _, handle := range handles {
		delete(r.shows, handle)
	}
	r.mu.Unlock()

	for _, handle := range handles {
		r.store.Delete(r.key(handle))
	}
}
