package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/interfaces"
	"github.com/taiwoadebayo/ngxd/internal/services/render"
	"github.com/taiwoadebayo/ngxd/internal/services/report"
)

// runReportScheduler writes both document kinds to the reports directory
// on a fixed interval. Failures are logged and retried on the next tick —
// the upstream sources fail often enough that aborting would be wrong.
func runReportScheduler(ctx context.Context, reports interfaces.ReportService, logger *common.Logger, dir string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Report scheduler: stopped")
			return
		case <-ticker.C:
			writeDailyReports(ctx, reports, logger, dir)
		}
	}
}

func writeDailyReports(ctx context.Context, reports interfaces.ReportService, logger *common.Logger, dir string) {
	start := time.Now()

	ranked, err := reports.GenerateReport(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Report scheduler: generation failed, will retry next tick")
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("Report scheduler: cannot create reports directory")
		return
	}

	basename := report.FileBasename(ranked.ReportDate)

	xlsxBytes, err := render.XLSX(ranked)
	if err != nil {
		logger.Error().Err(err).Msg("Report scheduler: xlsx render failed")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, basename+".xlsx"), xlsxBytes, 0o644); err != nil {
		logger.Error().Err(err).Msg("Report scheduler: xlsx write failed")
		return
	}

	docxBytes, err := render.DOCX(ranked)
	if err != nil {
		logger.Error().Err(err).Msg("Report scheduler: docx render failed")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, basename+".docx"), docxBytes, 0o644); err != nil {
		logger.Error().Err(err).Msg("Report scheduler: docx write failed")
		return
	}

	logger.Info().
		Str("basename", basename).
		Str("source", ranked.Source).
		Dur("elapsed", time.Since(start)).
		Msg("Report scheduler: documents written")
}
