package client

import (
	"context"
	"fmt"

	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
)

// SearchShows queries search/shows with the term as the q parameter.
// Shows without artwork get the fallback image; API order is preserved.
func (c *client) SearchShows(ctx context.Context, term string) ([]models.Show, error) {
	logger := config.GetLogger()
	logger.Info().Str("term", term).Msg("Searching shows")

	endpoint := c.baseURL.JoinPath("search", "shows")
	query := endpoint.Query()
	query.Set("q", term)
	endpoint.RawQuery = query.Encode()

	shows, err := fetchAll(ctx, c, "search", endpoint.String(), c.showParser, nil)
	if err != nil {
		return nil, fmt.Errorf("search shows %q: %w", term, err)
	}

	logger.Info().Str("term", term).Int("count", len(shows)).Msg("Show search completed")
	return shows, nil
}
