package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/finance"
	"finance-tracker/internal/logging"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	svc          *finance.Service
	secureCookie bool
	secretKey    string
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance. secretKey keys the session
// digests kept in the database.
func NewHandlers(db *storage.DB, svc *finance.Service, secureCookie bool, secretKey string) *Handlers {
	return &Handlers{
		db:           db,
		svc:          svc,
		secureCookie: secureCookie,
		secretKey:    secretKey,
		now:          time.Now,
	}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeJSON(w, r, http.StatusForbidden, errorResponse{Error: "Not authenticated"})
			return
		}

		key := auth.SessionKey(h.secretKey, cookie.Value)
		sessionInfo, err := h.db.ValidateSessionWithInfo(r.Context(), key)
		if err != nil {
			// Invalid or expired session, clear the cookie
			h.clearSessionCookie(w)
			writeJSON(w, r, http.StatusForbidden, errorResponse{Error: "Not authenticated"})
			return
		}

		// Rolling session: renew if past halfway point
		now := h.now()
		if sessionInfo.ExpiresAt.Sub(now) < SessionDuration/2 {
			if err := h.db.RenewSession(r.Context(), key, now.Add(SessionDuration)); err == nil {
				h.setSessionCookie(w, cookie.Value)
			} else {
				logging.FromContext(r.Context()).WarnContext(r.Context(), "Failed to renew session", "error", err)
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, sessionInfo.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type credentials struct {
	username string
	password string
}

func readCredentials(r *http.Request) (credentials, error) {
	if err := r.ParseForm(); err != nil {
		return credentials{}, &finance.ValidationError{Field: "form", Reason: "could not be parsed"}
	}
	c := credentials{
		username: strings.TrimSpace(r.FormValue("username")),
		password: r.FormValue("password"),
	}
	if c.username == "" || c.password == "" {
		return credentials{}, &finance.ValidationError{Field: "credentials", Reason: "username and password are required"}
	}
	return c, nil
}

// Signup creates an account and logs it in.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(creds.password) < 8 {
		writeError(w, r, &finance.ValidationError{Field: "password", Reason: "must be at least 8 characters"})
		return
	}

	hash, err := auth.HashPassword(creds.password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.db.CreateUser(r.Context(), creds.username, hash)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.startSession(w, r, user); err != nil {
		writeError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).InfoContext(r.Context(), "User signed up",
		"user_id", user.ID, "username", user.Username)
	writeJSON(w, r, http.StatusCreated, user)
}

// Login checks the submitted credentials and starts a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.db.GetUserByUsername(r.Context(), creds.username)
	if err != nil || !auth.CheckPassword(creds.password, user.PasswordHash) {
		if err != nil && !errors.Is(err, finance.ErrNotFound) {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"})
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.db.DeleteSession(r.Context(), auth.SessionKey(h.secretKey, cookie.Value)); err != nil {
			logging.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}
	expiresAt := h.now().Add(SessionDuration)
	if err := h.db.CreateSession(r.Context(), auth.SessionKey(h.secretKey, token), user.ID, expiresAt); err != nil {
		return err
	}
	h.setSessionCookie(w, token)
	return nil
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Health reports whether the server can reach its database.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Health check failed", "error", err)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
