package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
)

// StringPtr is a helper for creating *string values in tests
func StringPtr(v string) *string {
	return &v
}

// ShowResultOptions describes one entry of a generated search/shows response
type ShowResultOptions struct {
	ID          int
	Name        string
	Summary     *string // nil renders as JSON null
	ImageMedium string  // empty renders the image object as null
	Score       float64
	Premiered   string
}

// EpisodeOptions describes one entry of a generated episode listing
type EpisodeOptions struct {
	ID      int
	Name    string
	Season  int
	Number  int
	Airdate string
}

// GenerateSearchResponseJSON builds a search/shows body shaped like the real TVMaze API,
// including fields the client is expected to ignore.
func GenerateSearchResponseJSON(results []ShowResultOptions) string {
	payload := make([]map[string]any, 0, len(results))
	for _, r := range results {
		var image any
		if r.ImageMedium != "" {
			image = map[string]any{
				"medium":   r.ImageMedium,
				"original": strings.Replace(r.ImageMedium, "medium_portrait", "original_untouched", 1),
			}
		}
		var summary any
		if r.Summary != nil {
			summary = *r.Summary
		}
		payload = append(payload, map[string]any{
			"score": r.Score,
			"show": map[string]any{
				"id":        r.ID,
				"url":       "https://www.tvmaze.com/shows/" + strconv.Itoa(r.ID),
				"name":      r.Name,
				"type":      "Scripted",
				"language":  "English",
				"premiered": r.Premiered,
				"summary":   summary,
				"image":     image,
			},
		})
	}
	return mustMarshal(payload)
}

// GenerateEpisodesJSON builds a shows/{id}/episodes body shaped like the real TVMaze API
func GenerateEpisodesJSON(episodes []EpisodeOptions) string {
	payload := make([]map[string]any, 0, len(episodes))
	for _, e := range episodes {
		payload = append(payload, map[string]any{
			"id":      e.ID,
			"url":     "https://www.tvmaze.com/episodes/" + strconv.Itoa(e.ID),
			"name":    e.Name,
			"season":  e.Season,
			"number":  e.Number,
			"type":    "regular",
			"airdate": e.Airdate,
			"runtime": 60,
			"summary": "<p>Episode summary</p>",
		})
	}
	return mustMarshal(payload)
}

// TVMazeStub is an httptest server answering the two TVMaze endpoints used by the client
type TVMazeStub struct {
	*httptest.Server

	SearchBody   string
	EpisodesBody map[string]string // keyed by show ID as it appears in the path
	StatusCode   int               // forced status for every request when non-zero

	requests   atomic.Int64
	lastQuery  atomic.Value
	lastHeader atomic.Value
}

// NewTVMazeStub starts a stub API server. Close it with t.Cleanup or defer.
func NewTVMazeStub() *TVMazeStub {
	stub := &TVMazeStub{
		SearchBody:   "[]",
		EpisodesBody: map[string]string{},
	}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.serve))
	return stub
}

func (s *TVMazeStub) serve(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	s.lastHeader.Store(r.Header.Clone())

	if s.StatusCode != 0 && s.StatusCode != http.StatusOK {
		w.WriteHeader(s.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	switch {
	case strings.TrimSuffix(r.URL.Path, "/") == "/search/shows":
		s.lastQuery.Store(r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(s.SearchBody))
	case strings.HasPrefix(r.URL.Path, "/shows/") && strings.HasSuffix(r.URL.Path, "/episodes"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/shows/"), "/episodes")
		body, ok := s.EpisodesBody[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"name":"Not Found","message":"","code":0,"status":404}`))
			return
		}
		_, _ = w.Write([]byte(body))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Requests returns how many requests reached the stub
func (s *TVMazeStub) Requests() int64 {
	return s.requests.Load()
}

// LastQuery returns the q parameter of the most recent search request
func (s *TVMazeStub) LastQuery() string {
	q, _ := s.lastQuery.Load().(string)
	return q
}

// LastHeader returns the headers of the most recent request
func (s *TVMazeStub) LastHeader() http.Header {
	h, _ := s.lastHeader.Load().(http.Header)
	return h
}

func mustMarshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
