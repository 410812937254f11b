package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/api/response"
	"github.com/newthinker/fisher/internal/core"
)

// maxBodyBytes bounds POST bodies
const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.deps.Cache.Tickers(r.Context())
	if err != nil {
		s.logger.Error("listing tickers", zap.Error(err))
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"tickers":   tickers,
		"watchlist": s.deps.App.GetWatchlist(),
	})
}

// AnalysisView is a cached analysis and the date it was computed for
type AnalysisView struct {
	Ticker       string                `json:"ticker"`
	AnalysisDate string                `json:"analysis_date"`
	RunID        string                `json:"run_id,omitempty"`
	Analysis     *core.CompositeResult `json:"analysis_data"`
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	ticker := core.NormalizeTicker(r.PathValue("ticker"))

	entry, err := s.deps.Cache.Get(r.Context(), ticker)
	if err != nil {
		response.Fail(w, err)
		return
	}
	if entry.AnalysisData == nil {
		response.Fail(w, core.WrapError(core.ErrNoData, fmt.Errorf("%s has not been analyzed", ticker)))
		return
	}

	response.JSON(w, http.StatusOK, AnalysisView{
		Ticker:       ticker,
		AnalysisDate: entry.AnalysisDate,
		RunID:        entry.RunID,
		Analysis:     entry.AnalysisData,
	})
}

// RunRequest selects tickers for an on-demand analysis. An empty list means the watchlist.
type RunRequest struct {
	Tickers []string `json:"tickers"`
}

// RunResponse carries per-ticker results and the tickers that failed
type RunResponse struct {
	Results map[string]core.CompositeResult `json:"results"`
	Errors  []string                        `json:"errors,omitempty"`
}

func (s *Server) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			response.Fail(w, core.WrapError(core.ErrInvalidInput, err))
			return
		}
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = s.deps.App.GetWatchlist()
	}

	results, err := s.deps.App.Analyze(r.Context(), tickers)
	if err != nil && len(results) == 0 {
		response.Fail(w, err)
		return
	}

	resp := RunResponse{Results: results}
	if err != nil {
		resp.Errors = splitErrors(err)
	}
	response.JSON(w, http.StatusOK, resp)
}

func splitErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}
	errs := joined.Unwrap()
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
