package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/metrics"
	"github.com/iReady/iReady-Backend/internal/middleware"
	"github.com/iReady/iReady-Backend/internal/utils"
)

const (
	SessionTTL = 7 * 24 * time.Hour

	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

// Handler serves the /api/auth routes.
type Handler struct {
	Store Store
	// SecureCookies marks the session cookie Secure; on in production.
	SecureCookies bool
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int

	now func() time.Time
}

func NewHandler(store Store, secureCookies bool) *Handler {
	return &Handler{Store: store, SecureCookies: secureCookies}
}

func (h *Handler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *Handler) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	if !validUsername(in.Username) || !validPassword(in.Password) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), h.cost())
	if err != nil {
		logger.L().Error("hashing password", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := User{
		UserID:         utils.GenerateUUID(),
		Username:       in.Username,
		HashedPassword: string(hashed),
	}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			utils.WriteError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		logger.L().Error("signup", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.startSession(w, r, user.UserID); err != nil {
		logger.L().Error("creating session", zap.String("user_id", user.UserID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user.Public(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Username == "" || in.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.Store.FindUserByUsername(r.Context(), strings.TrimSpace(in.Username))
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			logger.L().Error("login lookup", zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.startSession(w, r, user.UserID); err != nil {
		logger.L().Error("creating session", zap.String("user_id", user.UserID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user.Public(),
	})
}

// Logout drops the caller's session if there is one. It succeeds without a
// cookie so a client with a stale session can always sign out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Store.DeleteSession(r.Context(), cookie.Value); err != nil {
			logger.L().Error("deleting session", zap.Error(err))
			utils.WriteError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.Store.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.WriteError(w, http.StatusUnauthorized, "User not found")
			return
		}
		logger.L().Error("me lookup", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"user": user.Public()})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var in updatePassword
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.CurrentPassword == "" {
		utils.WriteError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if !validPassword(in.NewPassword) {
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := h.Store.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.WriteError(w, http.StatusUnauthorized, "User not found")
			return
		}
		logger.L().Error("password user lookup", zap.String("user_id", userID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.CurrentPassword)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid current password")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), h.cost())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), userID, string(hashed)); err != nil {
		logger.L().Error("updating password", zap.String("user_id", userID), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID string) error {
	sess := Session{
		SessionID: utils.GenerateUUID(),
		UserID:    userID,
		ExpiresAt: h.clock().Add(SessionTTL),
	}
	if err := h.Store.SaveSession(r.Context(), sess); err != nil {
		return err
	}
	http.SetCookie(w, h.sessionCookie(sess.SessionID, int(SessionTTL.Seconds())))
	return nil
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.SecureCookies,
	}
}

func validUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= minUsernameLen && n <= maxUsernameLen
}

func validPassword(s string) bool {
	return len(s) >= minPasswordLen && len(s) <= maxPasswordLen
}
