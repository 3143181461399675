package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"fitplan/internal/common"
	"fitplan/internal/server/models"
	"fitplan/internal/server/worker"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type recommendationResponse struct {
	Message string `json:"message"`
	Plan    string `json:"plan"`
	Saved   bool   `json:"saved"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	_, err := s.users.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeMessage(w, http.StatusCreated, "User registered successfully!")
	case errors.Is(err, common.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "Username and password are required.")
	case errors.Is(err, common.ErrAlreadyExists):
		writeMessage(w, http.StatusConflict, "Username already exists.")
	default:
		s.logger.Error(r.Context(), "registration failed", "request_id", requestIDFrom(r.Context()), "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "Server error during registration.")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
	case errors.Is(err, common.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
	default:
		s.logger.Error(r.Context(), "login failed", "request_id", requestIDFrom(r.Context()), "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "Server error during login.")
	}
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var input models.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := s.plans.Generate(r.Context(), identity.UserID, &input)
	switch {
	case err == nil:
		msg := "Recommendation generated!"
		if !result.Saved {
			msg = "Recommendation generated, but saving it to your history failed."
		}
		writeJSON(w, http.StatusOK, recommendationResponse{Message: msg, Plan: result.Plan, Saved: result.Saved})
	case errors.Is(err, common.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, worker.ErrWorkerOutputInvalid):
		s.logger.Error(r.Context(), "worker output rejected", "request_id", requestIDFrom(r.Context()), "user_id", identity.UserID)
		writeMessage(w, http.StatusInternalServerError, "Failed to process the recommendation from the ML script.")
	default:
		s.logger.Error(r.Context(), "plan generation failed", "request_id", requestIDFrom(r.Context()), "user_id", identity.UserID, "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "The ML script encountered an error.")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	records, err := s.plans.History(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error(r.Context(), "history fetch failed", "request_id", requestIDFrom(r.Context()), "user_id", identity.UserID, "error", err.Error())
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch history.")
		return
	}

	writeJSON(w, http.StatusOK, records)
}
