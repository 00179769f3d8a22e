package bitcoinaverage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ratesprovider/internal/rates"
)

const (
	baseURL    = "https://apiv2.bitcoinaverage.com"
	tickerPath = "/indices/global/ticker/short"
)

// maxBody caps the ticker payload; the full global index is well under this.
const maxBody = 8 << 20

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=bitcoinaverage_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the BitcoinAverage indices API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// ClientOption is a configuration option for the client.
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

// NewClient creates a new BitcoinAverage client.
func NewClient(options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(client)
	}
	if client.baseURL == "" {
		return nil, fmt.Errorf("bitcoinaverage: empty base url")
	}
	return client, nil
}

// TickerURL is the global short ticker endpoint for the crypto ticker.
func (c *Client) TickerURL(crypto string) string {
	query := url.Values{"crypto": {crypto}}
	return fmt.Sprintf("%s%s?%s", c.baseURL, tickerPath, query.Encode())
}

// GetTickers retrieves the raw global short ticker for the crypto ticker.
func (c *Client) GetTickers(ctx context.Context, crypto string) ([]byte, error) {
	u := c.TickerURL(crypto)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request: %v", rates.ErrTransport, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: unauthorized", rates.ErrProtocol)

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limited", rates.ErrProtocol)

	default:
		return nil, fmt.Errorf("%w: unexpected status code: %d", rates.ErrProtocol, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", rates.ErrTransport, err)
	}
	return body, nil
}
