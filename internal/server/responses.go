package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

// respondError maps domain errors onto HTTP statuses; anything unknown is an
// internal error and gets logged.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apierrs.ErrEmptyTicker),
		errors.Is(err, apierrs.ErrInvalidCount):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apierrs.ErrUserNotFound),
		errors.Is(err, apierrs.ErrInstrumentNotFound),
		errors.Is(err, apierrs.ErrUserInstrumentNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, apierrs.ErrInsufficientLots):
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, apierrs.ErrPriceUnavailable):
		s.respondJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		log.Error("internal error", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) respondBadRequest(w http.ResponseWriter, message string) {
	s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
