package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retvizor/invest-backend/internal/apierrs"
	"github.com/retvizor/invest-backend/internal/common/domain"
)

type signInRequest struct {
	UserID string `json:"userId"`
}

type userResponse struct {
	ID                 string                           `json:"id"`
	GroupedInstruments []groupedUserInstrumentsResponse `json:"grouped_instruments"`
}

// handleSignIn registers the opaque user id on first sight and is a no-op
// afterwards.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid request body")
		return
	}
	if req.UserID == "" {
		s.respondBadRequest(w, "userId is required")
		return
	}

	ctx := r.Context()

	user, err := s.deps.Users.GetUserByID(ctx, req.UserID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if user == nil {
		user = &domain.User{ID: req.UserID}
		if err := s.deps.Users.CreateUser(ctx, user); err != nil {
			s.respondError(w, err)
			return
		}
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	ctx := r.Context()

	user, err := s.deps.Users.GetUserByID(ctx, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if user == nil {
		s.respondError(w, apierrs.ErrUserNotFound)
		return
	}

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

	s.respondJSON(w, http.StatusOK, userResponse{
		ID:                 user.ID,
		GroupedInstruments: grouped,
	})
}
