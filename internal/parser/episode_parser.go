package parser

import (
	"encoding/json"
	"io"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// EpisodeParser decodes a TVMaze episode listing. Fields are copied verbatim.
type EpisodeParser struct{}

// NewEpisodeParser creates a new episode parser instance
func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse decodes the episode listing, keeping the order returned by the API
func (p *EpisodeParser) Parse(body io.Reader) ([]models.Episode, error) {
	var episodes []models.Episode
	if err := json.NewDecoder(body).Decode(&episodes); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to decode episode listing")
		return nil, &apperrors.ErrMalformedResponse{Resource: "episode list", Err: err}
	}
	if episodes == nil {
		episodes = []models.Episode{}
	}
	return episodes, nil
}
