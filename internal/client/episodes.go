package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// GetEpisodes fetches shows/{id}/episodes. An unknown show yields ErrNotFound.
func (c *client) GetEpisodes(ctx context.Context, showID int) ([]models.Episode, error) {
	logger := config.GetLogger()
	logger.Info().Int("showID", showID).Msg("Fetching episodes")

	endpoint := c.baseURL.JoinPath("shows", strconv.Itoa(showID), "episodes")

	episodes, err := fetchAll(ctx, c, "episodes", endpoint.String(), c.episodeParser, apperrors.NewShowNotFoundError(showID))
	if err != nil {
		return nil, fmt.Errorf("get episodes of show %d: %w", showID, err)
	}

	logger.Info().Int("showID", showID).Int("count", len(episodes)).Msg("Episode listing completed")
	return episodes, nil
}
