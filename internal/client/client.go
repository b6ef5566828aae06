package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go/failsafehttp"
	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/parser"
)

// defaultTimeout bounds a single upstream request when client_timeout is unset or invalid.
const defaultTimeout = 30 * time.Second

// Client defines the interface for querying the TVMaze API
type Client interface {
	// SearchShows returns the shows matching term, in API order.
	// The term is sent verbatim, including the empty string.
	SearchShows(ctx context.Context, term string) ([]models.Show, error)

	// GetEpisodes returns the episodes of a show, in API order.
	GetEpisodes(ctx context.Context, showID int) ([]models.Episode, error)

	// Close releases idle upstream connections.
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient    *http.Client
	transport     *http.Transport
	baseURL       *url.URL
	showParser    parser.Parser[models.Show]
	episodeParser parser.Parser[models.Episode]
}

// NewClient creates a new TVMaze client with proxy and timeout configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	requestTimeout := defaultTimeout
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			requestTimeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to preserve its pooling, HTTP/2 and dial timeouts
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	rawBase := cfg.TVMazeBaseURL
	if rawBase == "" {
		rawBase = config.DefaultTVMazeBaseURL
	}
	baseURL, err := url.Parse(rawBase)
	if err != nil {
		logger.Warn().Err(err).Str("base_url", rawBase).Msg("Invalid TVMaze base URL, using default")
		baseURL, _ = url.Parse(config.DefaultTVMazeBaseURL)
	}

	// Only a timeout: no retries, failures propagate to the caller
	timeoutPolicy := timeout.New[*http.Response](requestTimeout)

	httpClient := &http.Client{
		Transport: failsafehttp.NewRoundTripper(newCompressionTransport(baseTransport), timeoutPolicy),
	}

	fallbackImage := cfg.FallbackImageURL
	if fallbackImage == "" {
		fallbackImage = config.GetFallbackImageURL()
	}

	return &client{
		httpClient:    httpClient,
		transport:     baseTransport,
		baseURL:       baseURL,
		showParser:    parser.NewShowSearchParser(fallbackImage),
		episodeParser: parser.NewEpisodeParser(),
	}
}

// Close releases idle upstream connections.
func (c *client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
