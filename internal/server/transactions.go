package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGetTransactions lists the user's still-open lots.
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	transactions, err := s.deps.Transactions.GetOpenTransactions(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, transactions)
}

// handleGetJournal renders the user's full history as buy/sell journal
// entries grouped by day and ticker.
func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	ctx := r.Context()

	transactions, err := s.deps.Transactions.GetTransactions(ctx, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	tickers := make([]string, 0)
	seen := make(map[string]struct{})
	for _, transaction := range transactions {
		if _, ok := seen[transaction.Ticker]; !ok {
			seen[transaction.Ticker] = struct{}{}
			tickers = append(tickers, transaction.Ticker)
		}
	}

	instruments, err := s.deps.Instruments.GetInstrumentsByTickers(ctx, tickers)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, mapJournal(transactions, instruments))
}
