package httpapi

import (
	"errors"
	"net/http"

	"relay/internal/common"
	"relay/internal/server/auth"
	"relay/internal/server/models"
)

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Login == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	if _, err := s.repos.Users().GetUserByLogin(r.Context(), req.Login); err == nil {
		writeError(w, http.StatusConflict, "login already taken")
		return
	} else if !errors.Is(err, common.ErrorNotFound) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	salt := auth.NewSalt()
	user := &models.User{
		Login:    req.Login,
		Salt:     salt,
		Verifier: auth.HashPassword(req.Password, salt),
	}

	user, err := s.repos.Users().Create(r.Context(), user)
	if err != nil {
		s.log.Error(r.Context(), "failed to create user", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.issueSession(w, r, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.repos.Users().GetUserByLogin(r.Context(), req.Login)
	if err != nil {
		// Same response as a bad password: no account enumeration.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !auth.VerifyPassword(req.Password, user.Salt, user.Verifier) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.issueSession(w, r, user, http.StatusOK)
}

func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		s.log.Error(r.Context(), "failed to issue token", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, status, sessionResponse{AccessToken: token, UserID: user.ID})
}
