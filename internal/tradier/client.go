package tradier

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=tradier_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestObserver receives the outcome of each API call, for metrics.
// status is the HTTP status code as a string, or "error" when the request
// never completed.
type RequestObserver func(endpoint, status string, elapsed time.Duration)

// defaultBaseURL is the production API host. The sandbox host is
// https://sandbox.tradier.com/v1.
const defaultBaseURL = "https://api.tradier.com/v1"

// Client is a client for the Tradier market-data API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains the headers sent with each request.
	header http.Header
	// observe, when set, is called after every request.
	observe RequestObserver
}

// ClientOption is a configuration option for the Tradier API client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithObserver sets the per-request observer hook.
func WithObserver(fn RequestObserver) ClientOption {
	return func(c *Client) {
		c.observe = fn
	}
}

// NewClient creates a new Tradier API client.
func NewClient(apiKey string, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("tradier: api key required")
	}
	var client = &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	// Every endpoint authenticates with a bearer token.
	// https://documentation.tradier.com/brokerage-api
	client.header.Set("Authorization", "Bearer "+apiKey)
	client.header.Set("Accept", "application/json")
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// endpointURL joins the base URL, path and query into a request URL.
func (c *Client) endpointURL(path string, query url.Values) string {
	return fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
}

// do performs the request and reports its outcome to the observer.
func (c *Client) do(req *http.Request, endpoint string) (*http.Response, error) {
	start := time.Now()
	res, err := c.httpClient.Do(req)
	if c.observe != nil {
		status := "error"
		if err == nil {
			status = fmt.Sprintf("%d", res.StatusCode)
		}
		c.observe(endpoint, status, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	return res, nil
}

// checkStatus maps non-200 responses to errors. The caller owns res.Body.
func checkStatus(res *http.Response) error {
	switch res.StatusCode {
	case http.StatusOK:
		return nil

	case http.StatusBadRequest:
		return fmt.Errorf("bad request")

	case http.StatusUnauthorized:
		return fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited")

	default:
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
}
