// Package report computes ranked daily equity summaries
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/models"
)

// Service implements ReportService
type Service struct {
	market interfaces.MarketService
	logger *common.Logger
	now    func() time.Time // injectable clock for testing
}

// NewService creates a new report service
func NewService(market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		market: market,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateReport runs the pipeline: snapshot, rank, label.
func (s *Service) GenerateReport(ctx context.Context) (*models.RankedReport, error) {
	date := EffectiveTradingDate(s.now())

	snapshot, err := s.market.GetSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	advancers, decliners := Rank(snapshot, TopMovers)

	s.logger.Info().
		Str("source", snapshot.Source).
		Int("quotes", len(snapshot.Quotes)).
		Str("report_date", date.Format("2006-01-02")).
		Msg("Ranked daily summary generated")

	return &models.RankedReport{
		Advancers:  advancers,
		Decliners:  decliners,
		ReportDate: date,
		Source:     snapshot.Source,
	}, nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
