package render

import (
	"bytes"
	"fmt"

	docx "github.com/fumiama/go-docx"

	"github.com/taiwoadebayo/ngxd/internal/models"
	"github.com/taiwoadebayo/ngxd/internal/services/report"
)

// DOCX renders a ranked report as a word-processing byte stream: a title
// paragraph and two labeled tables with the same columns as the
// spreadsheet, values formatted to 2 decimals.
func DOCX(r *models.RankedReport) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	title := "DAILY EQUITY SUMMARY FOR " + report.ReportLabel(r.ReportDate)
	w.AddParagraph().AddText(title).Size("32").Bold()

	if err := addSection(w, "Gainers", r.Advancers); err != nil {
		return nil, err
	}
	if err := addSection(w, "Losers", r.Decliners); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}

func addSection(w *docx.Docx, label string, quotes []models.MarketQuote) error {
	w.AddParagraph().AddText(label).Size("28").Bold()

	tbl := w.AddTable(len(quotes)+1, 4, 8000, nil)
	if tbl == nil || len(tbl.TableRows) != len(quotes)+1 {
		return fmt.Errorf("failed to build %s table", label)
	}

	headers := []string{label, "Close Price", "% Change", "Naira Change"}
	for col, text := range headers {
		tbl.TableRows[0].TableCells[col].AddParagraph().AddText(text).Bold()
	}

	for i, q := range quotes {
		cells := tbl.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(q.Ticker)
		cells[1].AddParagraph().AddText(fmt.Sprintf("%.2f", q.ClosePrice))
		cells[2].AddParagraph().AddText(fmt.Sprintf("%.2f", q.PercentChange))
		cells[3].AddParagraph().AddText(fmt.Sprintf("%.2f", q.AbsoluteChange))
	}

	return nil
}
