// Package handler wires the HTTP surface to the auth gate and the hub.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"

	"github.com/yuto1106110/plus-chat-api/internal/auth"
)

// AuthRequest is the body of POST /api/auth.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Mode     string `json:"mode"`
}

// AuthResponse is returned for every auth outcome, success or not.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Auth handles POST /api/auth, dispatching on the mode field.
func Auth(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		switch req.Mode {
		case "register":
			registerUser(gate, w, r, req)
		case "login":
			loginUser(gate, w, r, req)
		default:
			writeAuthError(w, http.StatusBadRequest, "mode must be register or login")
		}
	}
}

// Register handles POST /api/register, kept as an alias of the register
// mode for clients of the original API shape.
func Register(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		registerUser(gate, w, r, req)
	}
}

// Login handles POST /api/login, the login-mode alias.
func Login(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAuthError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		loginUser(gate, w, r, req)
	}
}

func registerUser(gate *auth.Gate, w http.ResponseWriter, r *http.Request, req AuthRequest) {
	user, token, err := gate.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeGateError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered",
		slog.String("username", user.Username))

	writeJSON(w, http.StatusOK, AuthResponse{
		Success:  true,
		Username: user.Username,
		Token:    token,
	})
}

func loginUser(gate *auth.Gate, w http.ResponseWriter, r *http.Request, req AuthRequest) {
	user, token, err := gate.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeGateError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "user logged in",
		slog.String("username", user.Username))

	writeJSON(w, http.StatusOK, AuthResponse{
		Success:  true,
		Username: user.Username,
		Token:    token,
	})
}

// writeGateError maps gate outcomes onto the status codes of the API:
// 400 for malformed or conflicting registrations, 401 for bad logins,
// 500 for anything the store could not do.
func writeGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeAuthError(w, http.StatusBadRequest, "username must be 2-20 chars, password 4-20 chars")
	case errors.Is(err, auth.ErrUsernameTaken):
		writeAuthError(w, http.StatusBadRequest, "username already taken")
	case errors.Is(err, auth.ErrUnauthorized):
		writeAuthError(w, http.StatusUnauthorized, "invalid username or password")
	default:
		writeAuthError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, AuthResponse{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
