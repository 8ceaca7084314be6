package lastfm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0"

// ErrAuthRequired is returned when no API key is configured or the API
// rejects the key.
var ErrAuthRequired = errors.New("lastfm: valid api key required")

// Client calls the Last.fm REST API.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	baseURL string
	apiKey  string
}

// NewClient creates a client from cfg. It fails with ErrAuthRequired when
// cfg has no API key.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAuthRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(zap.String("client", "lastfm")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// TopAlbums fetches one page of the user's top albums, ordered by play count.
func (c *Client) TopAlbums(ctx context.Context, user string, page, limit int) (*TopAlbumsPage, error) {
	params := url.Values{
		"method":  {"user.gettopalbums"},
		"user":    {user},
		"page":    {strconv.Itoa(page)},
		"limit":   {strconv.Itoa(limit)},
		"period":  {"overall"},
		"api_key": {c.apiKey},
		"format":  {"json"},
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp topAlbumsResponse
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse top albums page %d: %w", page, err)
	}
	return resp.page(), nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "patrician/1.0")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Requesting", zap.String("method", params.Get("method")), zap.String("page", params.Get("page")))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lastfm request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lastfm response: %w", err)
	}

	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case codeAuthFailed, codeInvalidAPIKey, codeSuspendedKey:
			return nil, fmt.Errorf("%w: %s", ErrAuthRequired, apiErr.Message)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Code: apiErr.Error, Message: apiErr.Message}
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrAuthRequired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return body, nil
}
