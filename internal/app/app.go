// Package app wires configuration, clients, and services for ngxd
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/taiwoadebayo/ngxd/internal/clients/kwayisi"
	"github.com/taiwoadebayo/ngxd/internal/clients/ngx"
	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/services/market"
	"github.com/taiwoadebayo/ngxd/internal/services/report"
)

// App holds all initialized services and clients.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	MarketService interfaces.MarketService
	ReportService interfaces.ReportService
	StartupTime   time.Time

	schedulerCancel context.CancelFunc
}

// NewApp initializes configuration, clients, and services.
// configPath may be empty, in which case NGXD_CONFIG and then the default
// path are consulted.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("NGXD_CONFIG")
	}
	if configPath == "" {
		configPath = "config/ngxd.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	ngxClient := ngx.NewClient(
		ngx.WithBaseURL(config.Clients.NGX.BaseURL),
		ngx.WithDoclibURL(config.Clients.NGX.DoclibURL),
		ngx.WithLogger(logger),
		ngx.WithRateLimit(config.Clients.NGX.RateLimit),
		ngx.WithTimeout(config.Clients.NGX.GetTimeout()),
	)

	mirrorClient := kwayisi.NewClient(
		kwayisi.WithBaseURL(config.Clients.Kwayisi.BaseURL),
		kwayisi.WithLogger(logger),
		kwayisi.WithRateLimit(config.Clients.Kwayisi.RateLimit),
		kwayisi.WithTimeout(config.Clients.Kwayisi.GetTimeout()),
	)

	// Cascade priority: official API, AJAX endpoint, HTML scrape, mirror
	sources := append(ngxClient.Sources(), mirrorClient)

	marketService := market.NewService(sources, config.Market.GetCacheTTL(), logger)
	reportService := report.NewService(marketService, logger)

	logger.Info().
		Str("environment", config.Environment).
		Int("sources", len(sources)).
		Str("cache_ttl", config.Market.CacheTTL).
		Msg("Application initialized")

	return &App{
		Config:        config,
		Logger:        logger,
		MarketService: marketService,
		ReportService: reportService,
		StartupTime:   time.Now(),
	}, nil
}

// StartReportScheduler starts the background report writer when enabled
// in config. Safe to call when disabled — it is a no-op.
func (a *App) StartReportScheduler() {
	if !a.Config.Reports.ScheduleEnabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel

	interval := a.Config.Reports.GetScheduleInterval()
	a.Logger.Info().
		Str("dir", a.Config.Reports.Dir).
		Dur("interval", interval).
		Msg("Report scheduler started")

	go runReportScheduler(ctx, a.ReportService, a.Logger, a.Config.Reports.Dir, interval)
}

// Close stops background work.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
}
