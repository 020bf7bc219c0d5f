// Package interfaces defines service contracts for ngxd
package interfaces

import (
	"context"

	"github.com/taiwoadebayo/ngxd/internal/models"
)

// MarketSource is one upstream candidate for the daily equity price list.
// Implementations return the table in raw form; mapping columns to the
// canonical schema is the normalizer's job, not the client's.
type MarketSource interface {
	// Name identifies the source in logs and failure diagnostics
	Name() string

	// Fetch retrieves the price list as a raw table
	Fetch(ctx context.Context) (*models.RawTable, error)
}
