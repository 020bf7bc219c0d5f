// Package ngx provides a client for the official Nigerian Exchange endpoints
package ngx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/models"
)

const (
	DefaultBaseURL   = "https://ngxgroup.com"
	DefaultDoclibURL = "https://doclib.ngxgroup.com/REST/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// browserUserAgent is required by the NGX site; the default Go
	// user agent is rejected with a 403.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client fetches the daily equity price list from the official NGX
// endpoints: the doclib statistics REST API, the site AJAX endpoint, and
// the rendered price-list page.
type Client struct {
	baseURL    string
	doclibURL  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the site base URL (AJAX + price-list page)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithDoclibURL sets the statistics API base URL
func WithDoclibURL(doclibURL string) ClientOption {
	return func(c *Client) {
		c.doclibURL = doclibURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new NGX client.
// No API key is required — these are public endpoints.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		doclibURL: DefaultDoclibURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do performs a rate-limited GET request with browser headers.
func (c *Client) do(ctx context.Context, reqURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json, text/html")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", reqURL).Dur("elapsed", elapsed).Msg("NGX request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		c.logger.Warn().Str("url", reqURL).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("NGX non-OK response")
		return nil, fmt.Errorf("NGX error: status %d for %s", resp.StatusCode, reqURL)
	}

	c.logger.Debug().Str("url", reqURL).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("NGX request")
	return resp, nil
}

// statisticsRow is one equity in the doclib statistics payload. Numeric
// fields arrive as numbers, strings, or null depending on the session.
// ClosePrice and Change coerce through flexFloat64 (zero on failure, like
// the rendered price list). PercChange keeps its raw text: a halted equity
// must fail percent coercion in the normalizer and be dropped, not ranked
// at 0%.
type statisticsRow struct {
	Symbol     string      `json:"Symbol"`
	ClosePrice flexFloat64 `json:"ClosePrice"`
	Change     flexFloat64 `json:"Change"`
	PercChange flexText    `json:"PercChange"`
}

// FetchStatistics retrieves the price list from the doclib statistics API.
func (c *Client) FetchStatistics(ctx context.Context) (*models.RawTable, error) {
	reqURL := fmt.Sprintf("%s/statistics/equities/?market=&sector=&orderby=&pageSize=300&pageNo=0", c.doclibURL)

	resp, err := c.do(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []statisticsRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode statistics response: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("statistics API returned no equities")
	}

	table := &models.RawTable{
		Headers: []string{"Symbol", "Close", "Change", "%Change"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Symbol,
			strconv.FormatFloat(float64(r.ClosePrice), 'f', -1, 64),
			strconv.FormatFloat(float64(r.Change), 'f', -1, 64),
			string(r.PercChange),
		})
	}

	c.logger.Info().Int("equities", len(table.Rows)).Msg("NGX statistics API returned price list")
	return table, nil
}

// ajaxRow is one equity in the site AJAX payload. All values are strings
// as rendered into the price-list DataTable.
type ajaxRow struct {
	Symbol  string `json:"symbol"`
	Current string `json:"current"`
	Change  string `json:"change"`
	PChange string `json:"pchange"`
}

// FetchAjax retrieves the price list from the site AJAX endpoint backing
// the equities price-list DataTable.
func (c *Client) FetchAjax(ctx context.Context) (*models.RawTable, error) {
	reqURL := fmt.Sprintf("%s/exchange/data/equities-price-list-ajax/", c.baseURL)

	resp, err := c.do(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data []ajaxRow `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode ajax response: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("ajax endpoint returned no equities")
	}

	table := &models.RawTable{
		Headers: []string{"symbol", "current", "change", "pchange"},
		Rows:    make([][]string, 0, len(payload.Data)),
	}
	for _, r := range payload.Data {
		table.Rows = append(table.Rows, []string{r.Symbol, r.Current, r.Change, r.PChange})
	}

	c.logger.Info().Int("equities", len(table.Rows)).Msg("NGX ajax endpoint returned price list")
	return table, nil
}

// FetchPriceListPage scrapes the server-rendered equities price-list page.
func (c *Client) FetchPriceListPage(ctx context.Context) (*models.RawTable, error) {
	reqURL := fmt.Sprintf("%s/exchange/data/equities-price-list/", c.baseURL)

	resp, err := c.do(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	table, err := largestHTMLTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("price-list page: %w", err)
	}

	c.logger.Info().Int("equities", len(table.Rows)).Msg("NGX price-list page scraped")
	return table, nil
}

// source adapts one fetch method to the MarketSource interface.
type source struct {
	name  string
	fetch func(context.Context) (*models.RawTable, error)
}

func (s source) Name() string { return s.name }

func (s source) Fetch(ctx context.Context) (*models.RawTable, error) { return s.fetch(ctx) }

// Sources returns the official NGX sources in cascade priority order:
// statistics API, then AJAX endpoint, then HTML scrape.
func (c *Client) Sources() []interfaces.MarketSource {
	return []interfaces.MarketSource{
		source{name: "ngx-api", fetch: c.FetchStatistics},
		source{name: "ngx-ajax", fetch: c.FetchAjax},
		source{name: "ngx-html", fetch: c.FetchPriceListPage},
	}
}
