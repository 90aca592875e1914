package http

import (
	"errors"
	"log/slog"
	"net/http"

	"wealthify/internal/api"
	"wealthify/internal/log"
	"wealthify/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeValidationError(w, fields)
		return
	}

	resp, err := s.svc.Login(r.Context(), api.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.session.Save(r.Context(), resp.Token, resp.User); err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist session", "error", err)
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not persist session")
		return
	}
	s.flushCaches()

	slog.InfoContext(r.Context(), "User logged in", "user_id", resp.User.ID)
	writeJSON(w, http.StatusOK, resp.User)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, log.ErrorTypeParse, "malformed request body")
		return
	}
	if fields := req.validate(); fields != nil {
		writeValidationError(w, fields)
		return
	}

	resp, err := s.svc.Register(r.Context(), api.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := s.session.Save(r.Context(), resp.Token, resp.User); err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist session", "error", err)
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not persist session")
		return
	}
	s.flushCaches()

	writeJSON(w, http.StatusCreated, resp.User)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Clear(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear session", "error", err)
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not clear session")
		return
	}
	s.flushCaches()
	writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// handleSession reports the current user, or 401 when no session exists.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.session.User(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeError(w, http.StatusUnauthorized, log.ErrorTypeAuth, "no active session")
			return
		}
		writeError(w, http.StatusInternalServerError, log.ErrorTypeInternal, "could not read session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
