package nbrb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://www.nbrb.by/api/exrates"

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20

	// parammode=2 tells NBRB the path segment is an abbreviation, not Cur_ID.
	paramModeAbbreviation = 2
)

var (
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrUnexpectedStatus = errors.New("unexpected status from nbrb")
)

type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	logger     *logrus.Logger
	currencies CurrencyMap
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the per-request timeout. It applies to the client's own
// copy of the HTTP client, whichever order the options come in.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithCurrencyMap skips the currency list request made by NewClient.
// The map is copied; later changes by the caller are not seen.
func WithCurrencyMap(m CurrencyMap) Option {
	return func(c *Client) {
		if m != nil {
			c.currencies = maps.Clone(m)
		}
	}
}

// NewClient builds a client and loads its currency map from /currencies
// unless one was injected with WithCurrencyMap.
func NewClient(ctx context.Context, logger *logrus.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = c.buildHTTPClient()

	if c.currencies != nil {
		return c, nil
	}

	currencies, err := c.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currency map: %w", err)
	}
	c.currencies = NewCurrencyMap(currencies)
	c.logger.Infof("Loaded %d currency codes from NBRB", len(c.currencies))

	return c, nil
}

// buildHTTPClient never modifies a client passed with WithHTTPClient: the
// timeout goes on a copy. A caller's client keeps its own timeout unless
// WithTimeout was given.
func (c *Client) buildHTTPClient() *http.Client {
	if c.httpClient == nil {
		timeout := c.timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		hc := &http.Client{Timeout: timeout}
		if base, ok := http.DefaultTransport.(*http.Transport); ok {
			transport := base.Clone()
			transport.ResponseHeaderTimeout = timeout
			hc.Transport = transport
		}
		return hc
	}

	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	return &hc
}

// Currencies returns a copy of the currency map.
func (c *Client) Currencies() CurrencyMap {
	return maps.Clone(c.currencies)
}

// Get performs an arbitrary GET of {base}/{slug} and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, slug string, out any) error {
	return c.getJSON(ctx, c.baseURL+"/"+strings.TrimLeft(slug, "/"), out)
}

func (c *Client) ListCurrencies(ctx context.Context) ([]Currency, error) {
	var currencies []Currency
	if err := c.getJSON(ctx, c.baseURL+"/currencies", &currencies); err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	return currencies, nil
}

func (c *Client) CurrencyInfo(ctx context.Context, code string) (*Currency, error) {
	id, err := c.currencies.Lookup(code)
	if err != nil {
		return nil, err
	}

	var cur Currency
	if err := c.getJSON(ctx, fmt.Sprintf("%s/currencies/%d", c.baseURL, id), &cur); err != nil {
		return nil, fmt.Errorf("currency info %s: %w", code, err)
	}
	return &cur, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	c.logger.Debugf("Fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Errorf("Failed to create request: %v", err)
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("Failed to fetch by API: %v", err)
		return fmt.Errorf("fetch error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Errorf("Failed to read response body: %v", err)
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode}).Warn("NBRB returned non-2xx status")
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Errorf("Failed to parse NBRB response: %v", err)
		c.logger.Debugf("First 500 chars: %s", string(body)[:min(500, len(body))])
		return fmt.Errorf("parse JSON: %w", err)
	}

	return nil
}
