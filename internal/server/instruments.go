package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/internal/common/domain"
)

const stocksCacheKey = "stocks:list"

// getStocks serves the instruments listing through a short-lived cache; the
// admin CRUD invalidates it on every write.
func (s *Server) getStocks(ctx context.Context) ([]*domain.Instrument, error) {
	if cached, ok := s.stocksCache.Get(stocksCacheKey); ok {
		return cached.([]*domain.Instrument), nil
	}

	stocks, err := s.deps.Instruments.GetInstruments(ctx)
	if err != nil {
		return nil, err
	}

	s.stocksCache.Set(stocksCacheKey, stocks)

	return stocks, nil
}

func (s *Server) findStock(ctx context.Context, ticker string) (*domain.Instrument, error) {
	stocks, err := s.getStocks(ctx)
	if err != nil {
		return nil, err
	}

	for _, stock := range stocks {
		if stock.Ticker == ticker {
			return stock, nil
		}
	}

	return nil, nil
}

func (s *Server) handleGetStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.getStocks(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stocks)
}

func (s *Server) handleGetInstruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := s.deps.Instruments.GetInstruments(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, instruments)
}

func (s *Server) handleCreateInstrument(w http.ResponseWriter, r *http.Request) {
	var instrument domain.Instrument
	if err := json.NewDecoder(r.Body).Decode(&instrument); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	if instrument.Ticker == "" {
		s.respondBadRequest(w, "ticker is required")
		return
	}

	instrument.ID = uuid.NewString()

	if err := s.deps.Instruments.CreateInstrument(r.Context(), &instrument); err != nil {
		s.respondError(w, err)
		return
	}

	s.stocksCache.Invalidate(stocksCacheKey)

	s.respondJSON(w, http.StatusOK, &instrument)
}

func (s *Server) handleBatchCreateInstruments(w http.ResponseWriter, r *http.Request) {
	var instruments []*domain.Instrument
	if err := json.NewDecoder(r.Body).Decode(&instruments); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}

	for _, instrument := range instruments {
		if instrument.Ticker == "" {
			s.respondBadRequest(w, "ticker is required")
			return
		}
		instrument.ID = uuid.NewString()
	}

	if err := s.deps.Instruments.CreateInstruments(r.Context(), instruments); err != nil {
		s.respondError(w, err)
		return
	}

	s.stocksCache.Invalidate(stocksCacheKey)

	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleUpdateInstrument(w http.ResponseWriter, r *http.Request) {
	var instrument domain.Instrument
	if err := json.NewDecoder(r.Body).Decode(&instrument); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	if instrument.ID == "" {
		s.respondBadRequest(w, "id is required")
		return
	}

	ctx := r.Context()

	existing, err := s.deps.Instruments.GetInstrumentByID(ctx, instrument.ID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if existing == nil {
		s.respondError(w, apierrs.ErrInstrumentNotFound)
		return
	}

	if err := s.deps.Instruments.UpdateInstrument(ctx, &instrument); err != nil {
		s.respondError(w, err)
		return
	}

	s.stocksCache.Invalidate(stocksCacheKey)

	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleDeleteInstrument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	existing, err := s.deps.Instruments.GetInstrumentByID(ctx, id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if existing == nil {
		s.respondError(w, apierrs.ErrInstrumentNotFound)
		return
	}

	if err := s.deps.Instruments.DeleteInstrument(ctx, id); err != nil {
		s.respondError(w, err)
		return
	}

	s.stocksCache.Invalidate(stocksCacheKey)

	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleGetPopularStocks(w http.ResponseWriter, r *http.Request) {
	popular, err := s.deps.Instruments.GetPopularInstruments(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, popular)
}
