// Package kwayisi provides a client for the afx.kwayisi.org NGX mirror
package kwayisi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/models"
)

const (
	DefaultBaseURL   = "https://afx.kwayisi.org"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client scrapes the African Exchanges mirror of the NGX equity list.
// It is the last resort in the source cascade — the mirror lags the
// official endpoints but has proven far more reliable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
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

// NewClient creates a new mirror client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
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

// Name identifies the mirror in cascade diagnostics
func (c *Client) Name() string { return "kwayisi-mirror" }

// Fetch scrapes the NGX listing page on the mirror and returns the equity
// table in raw form.
func (c *Client) Fetch(ctx context.Context) (*models.RawTable, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/ngx/", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("Mirror request failed")
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Mirror non-OK response")
		return nil, fmt.Errorf("mirror error: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mirror HTML: %w", err)
	}

	table, err := listingTable(doc)
	if err != nil {
		return nil, err
	}

	c.logger.Info().Int("equities", len(table.Rows)).Dur("elapsed", elapsed).Msg("Mirror returned price list")
	return table, nil
}

// listingTable finds the equity listing table — the first table on the
// page with a header row and more than one data row.
func listingTable(doc *goquery.Document) (*models.RawTable, error) {
	var table *models.RawTable

	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		headers := headerTexts(tbl)
		if len(headers) < 3 {
			return true // keep looking
		}

		rows := [][]string{}
		tbl.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				row = append(row, strings.TrimSpace(td.Text()))
			})
			if len(row) > 0 {
				rows = append(rows, row)
			}
		})
		if len(rows) < 2 {
			return true
		}

		table = &models.RawTable{Headers: headers, Rows: rows}
		return false
	})

	if table == nil {
		return nil, fmt.Errorf("no equity listing table found on mirror page")
	}
	return table, nil
}

func headerTexts(tbl *goquery.Selection) []string {
	var headers []string
	cells := tbl.Find("thead th")
	if cells.Length() == 0 {
		cells = tbl.Find("tr").First().Find("th")
	}
	cells.Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	return headers
}

// Ensure Client implements MarketSource
var _ interfaces.MarketSource = (*Client)(nil)
