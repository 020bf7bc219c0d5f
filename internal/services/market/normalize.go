package market

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taiwoadebayo/ngxd/internal/models"
)

// fieldSpec declares how one canonical quote field is located in a source
// table: the first synonym (in order) with a matching header wins, so more
// specific names like "current" take priority over generic ones like
// "close". Matching is case-insensitive by substring. Headers matching any
// exclusion are never candidates — this keeps "% Change" out of the
// absolute-change column and "Last Close" style columns out of price.
type fieldSpec struct {
	name     string
	synonyms []string
	exclude  []string
}

var quoteFields = []fieldSpec{
	{name: "ticker", synonyms: []string{"symbol", "ticker"}},
	{name: "price", synonyms: []string{"current", "price", "close"}, exclude: []string{"change", "last", "prev"}},
	{name: "percent_change", synonyms: []string{"%", "gain", "pchange", "changepercentage"}},
	{name: "absolute_change", synonyms: []string{"change"}, exclude: []string{"%", "gain", "pchange", "percentage"}},
}

// Normalize maps a source table to canonical quotes. Rows whose
// percent-change cell fails numeric coercion are silently dropped; price
// and absolute-change cells that fail coercion become zero, matching the
// published price list which renders halted equities as "--". A missing
// required column yields a SchemaMismatchError so the cascade can advance
// to the next source.
func Normalize(source string, table *models.RawTable) ([]models.MarketQuote, error) {
	columns, missing := locateColumns(table.Headers)
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Source: source, Missing: missing}
	}

	quotes := make([]models.MarketQuote, 0, len(table.Rows))
	for _, row := range table.Rows {
		quote, ok := quoteFromRow(row, columns)
		if ok {
			quotes = append(quotes, quote)
		}
	}

	if len(quotes) == 0 {
		return nil, &SchemaMismatchError{Source: source, Missing: []string{"no coercible rows"}}
	}

	return quotes, nil
}

// locateColumns resolves each canonical field to a header index.
func locateColumns(headers []string) (map[string]int, []string) {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columns := make(map[string]int, len(quoteFields))
	var missing []string

	for _, field := range quoteFields {
		idx := -1
	search:
		for _, syn := range field.synonyms {
			for i, header := range lowered {
				if !strings.Contains(header, syn) {
					continue
				}
				if excluded(header, field.exclude) {
					continue
				}
				idx = i
				break search
			}
		}
		if idx < 0 {
			missing = append(missing, field.name)
			continue
		}
		columns[field.name] = idx
	}

	return columns, missing
}

func excluded(header string, exclude []string) bool {
	for _, ex := range exclude {
		if strings.Contains(header, ex) {
			return true
		}
	}
	return false
}

// quoteFromRow builds a quote from one table row. Returns false when the
// row is too short, has an empty ticker, or its percent change is not
// numeric — those rows are ineligible for ranking.
func quoteFromRow(row []string, columns map[string]int) (models.MarketQuote, bool) {
	for _, idx := range columns {
		if idx >= len(row) {
			return models.MarketQuote{}, false
		}
	}

	ticker := strings.TrimSpace(row[columns["ticker"]])
	if ticker == "" {
		return models.MarketQuote{}, false
	}

	pct, err := cleanNumber(row[columns["percent_change"]])
	if err != nil {
		return models.MarketQuote{}, false
	}

	price, err := cleanNumber(row[columns["price"]])
	if err != nil {
		price = 0
	}
	change, err := cleanNumber(row[columns["absolute_change"]])
	if err != nil {
		change = 0
	}

	return models.MarketQuote{
		Ticker:         ticker,
		ClosePrice:     price,
		PercentChange:  pct,
		AbsoluteChange: change,
	}, true
}

// cleanNumber coerces price-list text to a float. It strips the naira
// sign, a leading "N" currency prefix, thousands separators, percent signs
// and a leading "+". Placeholder values ("--", "N/A") fail coercion.
func cleanNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "--", "N/A", "NA":
		return 0, fmt.Errorf("not a number: %q", s)
	}

	s = strings.ReplaceAll(s, "₦", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimPrefix(s, "N")
	s = strings.TrimSpace(s)

	// Keep only digits, dot and minus — drops any stray markup
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	switch cleaned {
	case "", "-", ".", "-.":
		return 0, fmt.Errorf("not a number: %q", s)
	}

	return strconv.ParseFloat(cleaned, 64)
}
