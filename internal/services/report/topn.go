package report

import (
	"sort"

	"github.com/taiwoadebayo/ngxd/internal/models"
)

// TopMovers is the number of advancers and decliners reported.
const TopMovers = 5

// Rank returns the top-n advancers (percent change descending) and
// decliners (ascending) from a snapshot. Both sorts are stable, so equal
// percent changes keep their source order. When the snapshot has fewer
// than 2n rows the two slices may share tickers — the published summary
// behaves the same way, so this is deliberately not guarded against.
func Rank(snapshot *models.MarketSnapshot, n int) (advancers, decliners []models.MarketQuote) {
	advancers = make([]models.MarketQuote, len(snapshot.Quotes))
	copy(advancers, snapshot.Quotes)
	decliners = make([]models.MarketQuote, len(snapshot.Quotes))
	copy(decliners, snapshot.Quotes)

	sort.SliceStable(advancers, func(i, j int) bool {
		return advancers[i].PercentChange > advancers[j].PercentChange
	})
	sort.SliceStable(decliners, func(i, j int) bool {
		return decliners[i].PercentChange < decliners[j].PercentChange
	})

	if len(advancers) > n {
		advancers = advancers[:n]
	}
	if len(decliners) > n {
		decliners = decliners[:n]
	}
	return advancers, decliners
}
