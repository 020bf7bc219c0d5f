package ngx

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/taiwoadebayo/ngxd/internal/models"
)

// flexFloat64 handles JSON values that may be a number, a string, or null.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" || s == "N/A" || s == "--" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// flexText keeps the textual form of a JSON value that may be a number, a
// string, or null. Unlike flexFloat64 it never invents a numeric value:
// null becomes "N/A" and unparseable strings pass through untouched, so
// downstream coercion can reject them.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = "N/A"
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexText(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexText(strings.TrimSpace(s))
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into text", string(data))
}

// largestHTMLTable parses the document and returns the table with the most
// body rows as a RawTable. Headers come from thead cells, falling back to
// the first row when the table has no thead.
func largestHTMLTable(r io.Reader) (*models.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var best *goquery.Selection
	bestRows := 0
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		rows := tbl.Find("tbody tr").Length()
		if rows == 0 {
			// Tables without an explicit tbody still count their data rows
			rows = tbl.Find("tr").Length() - 1
		}
		if rows > bestRows {
			best = tbl
			bestRows = rows
		}
	})

	if best == nil || bestRows == 0 {
		return nil, fmt.Errorf("no data table found in document")
	}

	return tableFromSelection(best)
}

// tableFromSelection extracts headers and cell text from a table element.
func tableFromSelection(tbl *goquery.Selection) (*models.RawTable, error) {
	table := &models.RawTable{}

	headerCells := tbl.Find("thead th")
	if headerCells.Length() == 0 {
		headerCells = tbl.Find("tr").First().Find("th, td")
	}
	headerCells.Each(func(_ int, th *goquery.Selection) {
		table.Headers = append(table.Headers, strings.TrimSpace(th.Text()))
	})

	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}

	bodyRows := tbl.Find("tbody tr")
	if bodyRows.Length() == 0 {
		bodyRows = tbl.Find("tr").Slice(1, goquery.ToEnd)
	}
	bodyRows.Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		if len(row) > 0 {
			table.Rows = append(table.Rows, row)
		}
	})

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no data rows")
	}

	return table, nil
}
