// Package interfaces defines service contracts for ngxd
package interfaces

import (
	"context"

	"github.com/taiwoadebayo/ngxd/internal/models"
)

// MarketService produces market snapshots from the source cascade
type MarketService interface {
	// GetSnapshot returns a normalized snapshot, trying each configured
	// source in priority order. A short-TTL cache fronts the cascade.
	GetSnapshot(ctx context.Context) (*models.MarketSnapshot, error)
}

// ReportService assembles ranked daily reports
type ReportService interface {
	// GenerateReport fetches a snapshot and ranks the top movers,
	// labeling the result with the effective trading date.
	GenerateReport(ctx context.Context) (*models.RankedReport, error)
}
