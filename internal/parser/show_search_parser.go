package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// searchResult is one entry of the TVMaze search/shows response.
type searchResult struct {
	Score float64  `json:"score"`
	Show  *apiShow `json:"show"`
}

type apiShow struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Summary *string   `json:"summary"`
	Image   *apiImage `json:"image"`
}

type apiImage struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// ShowSearchParser decodes a TVMaze show search response into Show records
type ShowSearchParser struct {
	fallbackImage string
}

// NewShowSearchParser creates a parser that substitutes fallbackImage for shows without artwork
func NewShowSearchParser(fallbackImage string) *ShowSearchParser {
	if fallbackImage == "" {
		fallbackImage = config.DefaultFallbackImageURL
	}
	return &ShowSearchParser{fallbackImage: fallbackImage}
}

// Parse decodes the search response, keeping the order returned by the API
func (p *ShowSearchParser) Parse(body io.Reader) ([]models.Show, error) {
	logger := config.GetLogger()

	var results []searchResult
	if err := json.NewDecoder(body).Decode(&results); err != nil {
		logger.Error().Err(err).Msg("Failed to decode show search response")
		return nil, &apperrors.ErrMalformedResponse{Resource: "show search", Err: err}
	}

	shows := make([]models.Show, 0, len(results))
	for i, result := range results {
		if result.Show == nil {
			return nil, &apperrors.ErrMalformedResponse{
				Resource: "show search",
				Err:      fmt.Errorf("result %d: %w", i, errors.New("missing show object")),
			}
		}
		show := p.toShow(result.Show)
		logger.Debug().
			Int("id", show.ID).
			Str("name", show.Name).
			Float64("score", result.Score).
			Msg("Decoded show")
		shows = append(shows, show)
	}

	logger.Debug().Int("total_shows", len(shows)).Msg("Completed show search decoding")
	return shows, nil
}

func (p *ShowSearchParser) toShow(s *apiShow) models.Show {
	show := models.Show{
		ID:    s.ID,
		Name:  s.Name,
		Image: p.fallbackImage,
	}
	if s.Summary != nil {
		show.Summary = *s.Summary
	}
	if s.Image != nil && s.Image.Medium != "" {
		show.Image = s.Image.Medium
	}
	return show
}
