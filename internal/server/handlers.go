package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/taiwoadebayo/ngxd/internal/common"
	"github.com/taiwoadebayo/ngxd/internal/services/market"
	"github.com/taiwoadebayo/ngxd/internal/services/render"
	"github.com/taiwoadebayo/ngxd/internal/services/report"
)

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>NGX Daily Equity Summary</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 4rem auto; padding: 0 1rem; }
form { display: inline-block; margin-right: 1rem; }
button { padding: 0.6rem 1.2rem; font-size: 1rem; cursor: pointer; }
</style>
</head>
<body>
<h1>NGX Daily Equity Summary</h1>
<p>Top 5 gainers and top 5 losers on the Nigerian Exchange for the current trading session.</p>
<form method="post" action="/generate?kind=xlsx"><button type="submit">Download Excel</button></form>
<form method="post" action="/generate?kind=docx"><button type="submit">Download Word</button></form>
</body>
</html>
`

// handleIndex serves the report form on GET /.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// handleGenerate handles POST /generate?kind=xlsx|docx — runs the full
// pipeline and returns the document as a file download.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "xlsx"
	}
	if kind != "xlsx" && kind != "docx" {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown document kind %q (want xlsx or docx)", kind))
		return
	}

	ranked, err := s.app.ReportService.GenerateReport(r.Context())
	if err != nil {
		var unavailable *market.DataUnavailableError
		if errors.As(err, &unavailable) {
			s.logger.Warn().Err(err).Msg("Report generation failed: all sources down")
			WriteError(w, http.StatusServiceUnavailable,
				"Market data is temporarily unavailable from all sources. Please retry in a few minutes.")
			return
		}
		s.logger.Error().Err(err).Msg("Report generation failed")
		WriteError(w, http.StatusInternalServerError, "Report generation failed")
		return
	}

	var (
		payload  []byte
		mimeType string
	)
	switch kind {
	case "docx":
		payload, err = render.DOCX(ranked)
		mimeType = render.MIMEDOCX
	default:
		payload, err = render.XLSX(ranked)
		mimeType = render.MIMEXLSX
	}
	if err != nil {
		s.logger.Error().Err(err).Str("kind", kind).Msg("Document render failed")
		WriteError(w, http.StatusInternalServerError, "Document render failed")
		return
	}

	filename := report.FileBasename(ranked.ReportDate) + "." + kind

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Write(payload)
}

// handleReport serves the ranked report as JSON on GET /api/report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ranked, err := s.app.ReportService.GenerateReport(r.Context())
	if err != nil {
		var unavailable *market.DataUnavailableError
		if errors.As(err, &unavailable) {
			WriteError(w, http.StatusServiceUnavailable,
				"Market data is temporarily unavailable from all sources. Please retry in a few minutes.")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Report generation failed")
		return
	}

	WriteJSON(w, http.StatusOK, ranked)
}

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
