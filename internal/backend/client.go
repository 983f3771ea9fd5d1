package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines every read the navigation store performs against the
// panel backend. It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	FetchNavConfig(ctx context.Context) (*NavConfig, error)
	FetchSites(ctx context.Context) (*SitesData, error)
	FetchDocker(ctx context.Context) (*DockerData, error)
	FetchLuckyServices(ctx context.Context) (*LuckyServicesData, error)
	FetchDockerStats(ctx context.Context) (*DockerStatsResponse, error)
	FetchLuckyServicesStats(ctx context.Context) (*LuckyServicesStatsResponse, error)
	FetchNetworkType(ctx context.Context) (*NetworkTypeResponse, error)
	FetchServerConfig(ctx context.Context) (*ServerConfigResponse, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Endpoint paths, relative to the panel base URL.
const (
	PathNav                = "backend/nav.json"
	PathSites              = "backend/sites.json"
	PathDocker             = "backend/docker.json"
	PathDockerStats        = "backend/docker-stats.json"
	PathLuckyServices      = "backend/luckyservices.json"
	PathLuckyServicesStats = "backend/luckyservices-stats.json"
	PathNetworkType        = "backend/api/network-type"
	PathServerConfig       = "backend/default-config.json"
)

// StatusError reports a non-success HTTP status from the backend.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client talks to the panel backend over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "127.0.0.1:16601"
	defaultUserAgent = "lightpanel/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the panel served at baseURL. A bare
// host:port is treated as http; any path prefix is kept.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchNavConfig retrieves the panel settings and module switches.
func (c *Client) FetchNavConfig(ctx context.Context) (*NavConfig, error) {
	var payload NavConfig
	if err := c.get(ctx, PathNav, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchSites retrieves the site catalog.
func (c *Client) FetchSites(ctx context.Context) (*SitesData, error) {
	var payload SitesData
	if err := c.get(ctx, PathSites, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchDocker retrieves the Docker container catalog.
func (c *Client) FetchDocker(ctx context.Context) (*DockerData, error) {
	var payload DockerData
	if err := c.get(ctx, PathDocker, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchLuckyServices retrieves the Lucky service catalog.
func (c *Client) FetchLuckyServices(ctx context.Context) (*LuckyServicesData, error) {
	var payload LuckyServicesData
	if err := c.get(ctx, PathLuckyServices, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchDockerStats retrieves live container statistics.
func (c *Client) FetchDockerStats(ctx context.Context) (*DockerStatsResponse, error) {
	var payload DockerStatsResponse
	if err := c.get(ctx, PathDockerStats, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchLuckyServicesStats retrieves live Lucky service statistics.
func (c *Client) FetchLuckyServicesStats(ctx context.Context) (*LuckyServicesStatsResponse, error) {
	var payload LuckyServicesStatsResponse
	if err := c.get(ctx, PathLuckyServicesStats, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchNetworkType asks the backend whether this client is on the LAN.
func (c *Client) FetchNetworkType(ctx context.Context) (*NetworkTypeResponse, error) {
	var payload NetworkTypeResponse
	if err := c.get(ctx, PathNetworkType, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchServerConfig retrieves server-side preference defaults. Older
// backends do not serve this endpoint and answer 404.
func (c *Client) FetchServerConfig(ctx context.Context) (*ServerConfigResponse, error) {
	var payload ServerConfigResponse
	if err := c.get(ctx, PathServerConfig, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: path}
	return c.doURL(ctx, http.MethodGet, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.String(), Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
