// Package models defines data structures for ngxd
package models

import (
	"time"
)

// MarketQuote holds one normalized row of the daily equity price list.
// PercentChange is the ranking key; a row is only eligible for ranking
// when its percent change survived numeric coercion.
type MarketQuote struct {
	Ticker         string  `json:"ticker"`
	ClosePrice     float64 `json:"close_price"`
	PercentChange  float64 `json:"percent_change"`
	AbsoluteChange float64 `json:"absolute_change"`
}

// MarketSnapshot is the full set of quotes retrieved from one source at one
// point in time. Quote order is whatever the upstream table provided — it
// becomes the stable-sort tiebreak during ranking.
type MarketSnapshot struct {
	Quotes    []MarketQuote `json:"quotes"`
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// RawTable is the source-agnostic tabular form every upstream client
// produces. The normalizer matches Headers against its synonym sets, so
// clients never hard-code column indices.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// RankedReport holds the two top-5 slices for one trading session.
// It is derived per request and never persisted. When the universe has
// fewer than 10 rows the slices may share tickers.
type RankedReport struct {
	Advancers  []MarketQuote `json:"advancers"`
	Decliners  []MarketQuote `json:"decliners"`
	ReportDate time.Time     `json:"report_date"`
	Source     string        `json:"source"`
}
