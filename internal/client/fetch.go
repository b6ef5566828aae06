package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Belphemur/ShowFinder/internal/apperrors"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/metrics"
	"github.com/Belphemur/ShowFinder/internal/parser"
)

// fetchAll performs a GET against the API and decodes the body with p.
// endpoint is the metric label for the request ("search", "episodes").
// notFound, when non-nil, is returned instead of a status error on HTTP 404.
func fetchAll[T any](ctx context.Context, c *client, endpoint, target string, p parser.Parser[T], notFound error) ([]T, error) {
	logger := config.GetLogger()
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", config.GetUserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		logger.Warn().Err(err).Str("url", target).Msg("Request to TVMaze failed")
		return nil, &apperrors.ErrNetworkFailure{Op: http.MethodGet, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeNotFound).Inc()
		return nil, notFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeError).Inc()
		logger.Warn().Int("statusCode", resp.StatusCode).Str("url", target).Msg("TVMaze returned non-OK status")
		return nil, &apperrors.ErrUnexpectedStatus{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeMalformed).Inc()
		return nil, &apperrors.ErrMalformedResponse{Resource: endpoint, Err: err}
	}

	records, err := p.Parse(body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeMalformed).Inc()
		return nil, err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
	return records, nil
}
