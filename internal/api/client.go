// Package api implements the HTTP client for the dashboard backend routes.
package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"golang.org/x/time/rate"

	apierrors "github.com/diogo/promptdeck/internal/errors"
	"github.com/diogo/promptdeck/internal/models"
)

// Doer sends a single HTTP request. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is the surface the panels and commands depend on
type ClientInterface interface {
	Converse(ctx context.Context, prompt string) (string, error)
	GenerateMusic(ctx context.Context, prompt string) (string, error)
	DownloadAsset(ctx context.Context, assetURL string, opts DownloadOptions) (string, error)
	BaseURL() string
	Close()
}

// Client talks to the /api routes of the dashboard backend
type Client struct {
	httpClient       Doer
	baseURL          string
	conversationPath string
	musicPath        string
	timeout          time.Duration
	limiter          *rate.Limiter
	mu               sync.RWMutex
	closed           bool
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend root URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithEndpoints overrides the conversation and music route paths
func WithEndpoints(conversationPath, musicPath string) ClientOption {
	return func(c *Client) {
		if conversationPath != "" {
			c.conversationPath = conversationPath
		}
		if musicPath != "" {
			c.musicPath = musicPath
		}
	}
}

// WithTimeout bounds each request. Zero means no client-side deadline.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit caps submissions to perMinute requests, burst 1.
// Zero or negative disables the limiter.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithHTTPClient replaces the transport
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:          models.DefaultBaseURL,
		conversationPath: models.PathConversation,
		musicPath:        models.PathMusic,
		timeout:          120 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}
		if client.timeout > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(int(client.timeout.Seconds())))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Close shuts down the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// BaseURL returns the backend root URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpointURL joins the base URL and a route path
func (c *Client) endpointURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// wait blocks until the limiter admits one request
func (c *Client) wait(ctx context.Context, endpoint string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return apierrors.NewNetworkError(endpoint, fmt.Errorf("rate limiter: %w", err))
	}
	return nil
}
