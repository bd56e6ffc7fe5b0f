package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/database"
	"github.com/thinkscotty/ideagen/internal/models"
)

// isHTTPS checks if the original request was made over HTTPS by examining
// the X-Forwarded-Proto header (set by reverse proxies) or the TLS state.
func isHTTPS(r *http.Request) bool {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.TLS != nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *Server) sessionTTL() time.Duration {
	if s.cfg.Server.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(s.cfg.Server.SessionTTLHours) * time.Hour
}

// startSession creates a session for user, sets the cookie and announces the
// sign-in.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user models.User, status int) {
	token, err := auth.GenerateToken()
	if err != nil {
		slog.Error("Failed to generate session token", "error", err)
		jsonError(w, "Internal error", "internal", http.StatusInternalServerError)
		return
	}

	ttl := s.sessionTTL()
	sess := &models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.CreateSession(sess); err != nil {
		slog.Error("Failed to create session", "error", err)
		jsonError(w, "Internal error", "internal", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})

	s.notifier.Notify(auth.Event{Kind: auth.SignedIn, User: user})
	jsonStatus(w, status, sessionResponse{User: user, Token: token, ExpiresAt: sess.ExpiresAt})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)

	if username == "" || req.Password == "" {
		jsonError(w, "Username and password are required", kindValidation, http.StatusBadRequest)
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		jsonError(w, "Password must be at least 8 characters", kindValidation, http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		jsonError(w, "Internal error", "internal", http.StatusInternalServerError)
		return
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.db.CreateUser(user); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			jsonError(w, "Username already taken", kindConflict, http.StatusConflict)
			return
		}
		slog.Error("Failed to create user", "error", err)
		jsonError(w, "Failed to create account", "internal", http.StatusInternalServerError)
		return
	}
	user.CreatedAt = time.Now().UTC()

	slog.Info("Account created", "username", username)
	s.startSession(w, r, *user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)

	if username == "" || req.Password == "" {
		jsonError(w, "Username and password are required", kindValidation, http.StatusBadRequest)
		return
	}

	user, err := s.db.GetUserByUsername(username)
	if err != nil {
		slog.Debug("Login failed: user lookup", "username", username, "error", err)
		jsonError(w, "Invalid username or password", kindUnauthenticated, http.StatusUnauthorized)
		return
	}

	if err := auth.CheckPassword(req.Password, user.PasswordHash); err != nil {
		slog.Debug("Login failed: wrong password", "username", username)
		jsonError(w, "Invalid username or password", kindUnauthenticated, http.StatusUnauthorized)
		return
	}

	slog.Info("User logged in", "username", username)
	s.startSession(w, r, user, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if token := sessionToken(r); token != "" {
		if err := s.db.DeleteSession(token); err != nil {
			slog.Error("Failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	s.notifier.Notify(auth.Event{Kind: auth.SignedOut, User: *user})
	jsonResponse(w, map[string]string{"status": "signed_out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]any{"user": auth.UserFrom(r.Context())})
}
