package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

const unknownCompanyName = "Unknown company"

type createUserInstrumentRequest struct {
	UserID  string    `json:"userId"`
	Ticker  string    `json:"ticker"`
	Date    time.Time `json:"date"`
	Count   *int      `json:"count,omitempty"`
	Price   *float64  `json:"price,omitempty"`
	Comment string    `json:"comment,omitempty"`
}

type sellRequest struct {
	UserID  string `json:"userId"`
	Ticker  string `json:"ticker"`
	Count   int    `json:"count"`
	Comment string `json:"comment,omitempty"`
}

type myStockResponse struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	DisplayName string    `json:"display_name"`
	Image       string    `json:"image"`
	Date        time.Time `json:"date"`
}

type groupedUserInstrumentsResponse struct {
	ID          string            `json:"id"`
	Ticker      string            `json:"ticker"`
	Instruments []myStockResponse `json:"instruments"`
}

type instrumentTipItem struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type instrumentDetailsResponse struct {
	ID     string              `json:"id"`
	Ticker string              `json:"ticker"`
	Date   time.Time           `json:"date"`
	Tips   []instrumentTipItem `json:"tips"`
	Quotes []float64           `json:"quotes"`
}

// handleCreateUserInstrument declares interest in a ticker; when the request
// carries a count, it also opens one lot per unit at the given price.
func (s *Server) handleCreateUserInstrument(w http.ResponseWriter, r *http.Request) {
	var req createUserInstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.respondBadRequest(w, "userId is required")
		return
	}
	if req.Ticker == "" {
		s.respondBadRequest(w, "ticker is required")
		return
	}

	ctx := r.Context()

	userInstrument := &domain.UserInstrument{
		ID:     uuid.NewString(),
		Ticker: req.Ticker,
		UserID: req.UserID,
		Date:   req.Date,
	}
	if userInstrument.Date.IsZero() {
		userInstrument.Date = time.Now()
	}

	if err := s.deps.UserInstruments.CreateUserInstrument(ctx, userInstrument); err != nil {
		s.respondError(w, err)
		return
	}

	if req.Count != nil && *req.Count > 0 {
		price := 0.0
		if req.Price != nil {
			price = *req.Price
		}

		if err := s.deps.Portfolio.Buy(ctx, userInstrument, *req.Count, price, req.Comment); err != nil {
			s.respondError(w, err)
			return
		}
	}

	// Warm up the tip service for the new instrument; a failure is its
	// problem, not ours.
	if _, err := s.deps.Tips.GetInstrumentTip(ctx, userInstrument.ID); err != nil {
		log.Warn("tip service notification failed",
			zap.String("user_instrument_id", userInstrument.ID),
			zap.Error(err),
		)
	}

	stock, err := s.findStock(ctx, userInstrument.Ticker)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, newMyStockResponse(userInstrument, stock))
}

func (s *Server) handleGetUserInstruments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	ctx := r.Context()

	userInstruments, err := s.deps.UserInstruments.GetUserInstruments(ctx, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	grouped, err := s.groupUserInstruments(ctx, userInstruments)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleGetUserInstrumentDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	userInstrument, err := s.deps.UserInstruments.GetUserInstrumentByID(ctx, id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if userInstrument == nil {
		s.respondError(w, apierrs.ErrUserInstrumentNotFound)
		return
	}

	var tip *domain.InstrumentTip
	if fetched, err := s.deps.Tips.GetInstrumentTip(ctx, id); err != nil {
		log.Warn("failed to fetch instrument tip",
			zap.String("user_instrument_id", id),
			zap.Error(err),
		)
	} else {
		tip = fetched
	}

	from := truncateToDay(userInstrument.Date)
	quotes, err := s.deps.Quotes.GetQuotesInRange(ctx, userInstrument.Ticker, from, time.Now())
	if err != nil {
		s.respondError(w, err)
		return
	}

	series := make([]float64, 0, len(quotes))
	for _, quote := range quotes {
		series = append(series, quote.ClosePrice)
	}

	s.respondJSON(w, http.StatusOK, instrumentDetailsResponse{
		ID:     userInstrument.ID,
		Ticker: userInstrument.Ticker,
		Date:   userInstrument.Date,
		Tips:   buildTips(tip, series, userInstrument.Date),
		Quotes: series,
	})
}

func (s *Server) handleDeleteUserInstrument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	userInstrument, err := s.deps.UserInstruments.GetUserInstrumentByID(ctx, id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if userInstrument == nil {
		s.respondError(w, apierrs.ErrUserInstrumentNotFound)
		return
	}

	if err := s.deps.UserInstruments.DeleteUserInstrument(ctx, id); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.respondBadRequest(w, "userId is required")
		return
	}

	if err := s.deps.Portfolio.Sell(r.Context(), req.UserID, req.Ticker, req.Count, req.Comment); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// groupUserInstruments shapes a user's instruments into per-ticker groups
// enriched with display metadata.
func (s *Server) groupUserInstruments(ctx context.Context, userInstruments []*domain.UserInstrument) ([]groupedUserInstrumentsResponse, error) {
	byTicker := make(map[string][]*domain.UserInstrument)
	tickers := make([]string, 0, len(byTicker))
	for _, userInstrument := range userInstruments {
		if _, ok := byTicker[userInstrument.Ticker]; !ok {
			tickers = append(tickers, userInstrument.Ticker)
		}
		byTicker[userInstrument.Ticker] = append(byTicker[userInstrument.Ticker], userInstrument)
	}

	stocks, err := s.getStocks(ctx)
	if err != nil {
		return nil, err
	}

	stocksByTicker := make(map[string]*domain.Instrument, len(stocks))
	for _, stock := range stocks {
		stocksByTicker[stock.Ticker] = stock
	}

	grouped := make([]groupedUserInstrumentsResponse, 0, len(byTicker))
	for _, ticker := range tickers {
		stock := stocksByTicker[ticker]

		items := make([]myStockResponse, 0, len(byTicker[ticker]))
		for _, userInstrument := range byTicker[ticker] {
			items = append(items, newMyStockResponse(userInstrument, stock))
		}

		grouped = append(grouped, groupedUserInstrumentsResponse{
			ID:          uuid.NewString(),
			Ticker:      ticker,
			Instruments: items,
		})
	}

	sort.Slice(grouped, func(i, j int) bool {
		return grouped[i].Ticker < grouped[j].Ticker
	})

	return grouped, nil
}

func newMyStockResponse(userInstrument *domain.UserInstrument, stock *domain.Instrument) myStockResponse {
	res := myStockResponse{
		ID:          userInstrument.ID,
		Ticker:      userInstrument.Ticker,
		DisplayName: unknownCompanyName,
		Date:        userInstrument.Date,
	}

	if stock != nil {
		if stock.Name != "" {
			res.DisplayName = stock.Name
		}
		res.Image = stock.ImagePath
	}

	return res
}

// buildTips combines the external recommendation with a growth-potential
// note computed from the stored close-price series.
func buildTips(tip *domain.InstrumentTip, series []float64, since time.Time) []instrumentTipItem {
	now := time.Now()

	recommendation := ""
	requiredReturn := 0.0
	if tip != nil {
		recommendation = tip.Recommendation
		requiredReturn = tip.RequiredReturn
	}

	revenue := 0.0
	if len(series) > 0 && series[0] != 0 {
		revenue = (series[len(series)-1]/series[0] - 1) * 100
	}

	growth := ""
	if revenue < requiredReturn {
		growth = fmt.Sprintf("the stock has growth potential of %.2f - %.2f%% for the period since %s",
			requiredReturn, revenue, since.Format("02.01.2006"))
	}

	return []instrumentTipItem{
		{Date: now, Description: recommendation},
		{Date: now, Description: growth},
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
