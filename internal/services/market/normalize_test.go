package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoadebayo/ngxd/internal/models"
)

func TestNormalize_PriceListPageHeaders(t *testing.T) {
	// Header shape of the rendered price-list page. "Current" must win the
	// price column over "Last Close".
	table := &models.RawTable{
		Headers: []string{"Symbols", "Last Close", "Current", "Change", "% Change"},
		Rows: [][]string{
			{"ZENITHBANK", "N35.50", "N36.00", "+0.50", "+1.41%"},
			{"GTCO", "N45.50", "N44.95", "-0.55", "-1.21%"},
		},
	}

	quotes, err := Normalize("ngx-html", table)
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "ZENITHBANK", quotes[0].Ticker)
	assert.InDelta(t, 36.00, quotes[0].ClosePrice, 1e-9)
	assert.InDelta(t, 1.41, quotes[0].PercentChange, 1e-9)
	assert.InDelta(t, 0.50, quotes[0].AbsoluteChange, 1e-9)

	assert.Equal(t, "GTCO", quotes[1].Ticker)
	assert.InDelta(t, 44.95, quotes[1].ClosePrice, 1e-9)
	assert.InDelta(t, -1.21, quotes[1].PercentChange, 1e-9)
	assert.InDelta(t, -0.55, quotes[1].AbsoluteChange, 1e-9)
}

func TestNormalize_MirrorHeaders(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Ticker", "Name", "Price", "Change", "%Chg"},
		Rows: [][]string{
			{"DANGCEM", "Dangote Cement", "478.00", "-2.00", "-0.42"},
			{"MTNN", "MTN Nigeria", "245.00", "12.00", "5.15"},
		},
	}

	quotes, err := Normalize("kwayisi-mirror", table)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "DANGCEM", quotes[0].Ticker)
	assert.InDelta(t, 478.00, quotes[0].ClosePrice, 1e-9)
	assert.InDelta(t, -0.42, quotes[0].PercentChange, 1e-9)
}

func TestNormalize_AjaxHeaders(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"symbol", "current", "change", "pchange"},
		Rows: [][]string{
			{"UBA", "22.10", "0.35", "1.61"},
		},
	}

	quotes, err := Normalize("ngx-ajax", table)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "UBA", quotes[0].Ticker)
	assert.InDelta(t, 22.10, quotes[0].ClosePrice, 1e-9)
}

func TestNormalize_DropsRowsWithUnparseablePercentChange(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Symbol", "Current", "Change", "% Change"},
		Rows: [][]string{
			{"GOOD", "10.00", "0.10", "1.00"},
			{"HALTED", "5.00", "--", "N/A"},
			{"ALSOGOOD", "2.00", "-0.04", "-2.00"},
		},
	}

	quotes, err := Normalize("test", table)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "GOOD", quotes[0].Ticker)
	assert.Equal(t, "ALSOGOOD", quotes[1].Ticker)
}

func TestNormalize_PlaceholderPriceBecomesZeroButRowKept(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Symbol", "Current", "Change", "% Change"},
		Rows: [][]string{
			{"ODDLOT", "--", "--", "0.00"},
		},
	}

	quotes, err := Normalize("test", table)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Zero(t, quotes[0].ClosePrice)
	assert.Zero(t, quotes[0].AbsoluteChange)
}

func TestNormalize_SchemaMismatchOnMissingPercentColumn(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Ticker", "Name", "Volume", "Price", "Change"},
		Rows: [][]string{
			{"DANGCEM", "Dangote Cement", "120000", "478.00", "-2.00"},
		},
	}

	_, err := Normalize("kwayisi-mirror", table)
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch), "expected SchemaMismatchError, got %v", err)
	assert.Equal(t, "kwayisi-mirror", mismatch.Source)
	assert.Contains(t, mismatch.Missing, "percent_change")
}

func TestNormalize_SchemaMismatchWhenNoRowCoerces(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Symbol", "Current", "Change", "% Change"},
		Rows: [][]string{
			{"AAA", "1.00", "0.00", "N/A"},
			{"", "2.00", "0.00", "1.00"},
		},
	}

	_, err := Normalize("test", table)
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch), "expected SchemaMismatchError, got %v", err)
}

func TestNormalize_ShortRowsSkipped(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Symbol", "Current", "Change", "% Change"},
		Rows: [][]string{
			{"ONLY", "10.00"},
			{"FULL", "10.00", "0.10", "1.00"},
		},
	}

	quotes, err := Normalize("test", table)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "FULL", quotes[0].Ticker)
}

func TestCleanNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"13.05", 13.05, false},
		{"N13.05", 13.05, false},
		{"₦13.05", 13.05, false},
		{"1,234.56", 1234.56, false},
		{"+0.63", 0.63, false},
		{"-14.95", -14.95, false},
		{"4.20%", 4.2, false},
		{" 36.00 ", 36.00, false},
		{"0", 0, false},
		{"--", 0, true},
		{"N/A", 0, true},
		{"", 0, true},
		{"-", 0, true},
		{".", 0, true},
	}

	for _, c := range cases {
		got, err := cleanNumber(c.in)
		if c.wantErr {
			assert.Error(t, err, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.InDelta(t, c.want, got, 1e-9, "input %q", c.in)
	}
}
