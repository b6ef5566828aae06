package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/widget"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.controller(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.writePage(w, c, http.StatusOK)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.controller(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}
	err = c.Search(r.Context(), r.URL.Query().Get("q"))
	s.writePage(w, c, statusFor(err))
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.controller(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}
	handle := r.PathValue("handle")
	control := c.ControlFor(handle)
	if control.Length() == 0 {
		s.writePage(w, c, statusFor(apperrors.NewHandleNotFoundError(handle)))
		return
	}
	err = c.Click(r.Context(), control)
	s.writePage(w, c, statusFor(err))
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	shows, err := s.client.SearchShows(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

func (s *Server) handleAPIEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, errors.New("show id must be a positive integer"))
		return
	}
	episodes, err := s.client.GetEpisodes(r.Context(), id)
	if err != nil {
		writeJSONError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writePage(w http.ResponseWriter, c *widget.Controller, status int) {
	page, err := c.Snapshot()
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("Failed to serve widget page")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// statusFor maps an action error to the HTTP status of its response.
// A superseded action answers 200 with the newer page. Timeouts are matched
// before transport failures since the client wraps them in ErrNetworkFailure.
func statusFor(err error) int {
	switch {
	case err == nil, errors.Is(err, widget.ErrSuperseded):
		return http.StatusOK
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, timeout.ErrExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, &apperrors.ErrNetworkFailure{}),
		errors.Is(err, &apperrors.ErrUnexpectedStatus{}),
		errors.Is(err, &apperrors.ErrMalformedResponse{}):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
