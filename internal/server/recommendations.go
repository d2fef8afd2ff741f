package server

import (
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

type recommendationResponse struct {
	ID              string                        `json:"id"`
	Stock           *domain.Instrument            `json:"stock"`
	Recommendations []*domain.RecommendationQuote `json:"recomendation"`
}

// handleGetRecommendations lists buy-flagged tips grouped per ticker and
// joined with instrument metadata. Tips for unknown tickers are skipped.
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recommendations, err := s.deps.Recommendations.GetBuyRecommendations(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}

	stocks, err := s.getStocks(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}

	stocksByTicker := make(map[string]*domain.Instrument, len(stocks))
	for _, stock := range stocks {
		stocksByTicker[stock.Ticker] = stock
	}

	// Repository order is newest first; grouping preserves it per ticker.
	byTicker := make(map[string][]*domain.RecommendationQuote)
	for _, recommendation := range recommendations {
		byTicker[recommendation.Ticker] = append(byTicker[recommendation.Ticker], recommendation)
	}

	response := make([]recommendationResponse, 0, len(byTicker))
	for ticker, group := range byTicker {
		stock, ok := stocksByTicker[ticker]
		if !ok {
			log.Info("recommended ticker is not listed", zap.String("ticker", ticker))
			continue
		}

		response = append(response, recommendationResponse{
			ID:              uuid.NewString(),
			Stock:           stock,
			Recommendations: group,
		})
	}

	sort.Slice(response, func(i, j int) bool {
		return response[i].Stock.Ticker < response[j].Stock.Ticker
	})

	s.respondJSON(w, http.StatusOK, response)
}
