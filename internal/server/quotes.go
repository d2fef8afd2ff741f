package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

const refreshTimeout = 5 * time.Minute

// handleGetDailyQuotes proxies today's intraday candles for a ticker,
// capped to the most recent rows.
func (s *Server) handleGetDailyQuotes(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		s.respondError(w, apierrs.ErrEmptyTicker)
		return
	}

	candles, err := s.deps.Moex.GetIntradayCandles(r.Context(), ticker, time.Now())
	if err != nil {
		log.Error("failed to fetch intraday candles",
			zap.String("ticker", ticker),
			zap.Error(err),
		)
		s.respondError(w, apierrs.ErrPriceUnavailable)
		return
	}

	if len(candles) > domain.DailyCandlesLimit {
		candles = candles[len(candles)-domain.DailyCandlesLimit:]
	}

	s.respondJSON(w, http.StatusOK, candles)
}

// handleRefreshQuotes kicks off a reconciliation pass over every tracked
// ticker and returns immediately.
func (s *Server) handleRefreshQuotes(w http.ResponseWriter, _ *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		if err := s.deps.Reconciler.ReconcileAll(ctx); err != nil {
			log.Error("quotes refresh failed", zap.Error(err))
		}
	}()

	s.respondJSON(w, http.StatusAccepted, statusResponse{Status: "accepted"})
}
