package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"kpiflow/internal/domain/auth"
	"kpiflow/internal/transport/http/api"
	"kpiflow/internal/transport/http/middleware"
)

type Handler struct {
	Store     *auth.Store
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(store *auth.Store, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{Store: store, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.FindByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:   user.ID,
		Role:     user.Role,
		Override: user.IsOverride,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  user,
	}, middleware.GetRequestID(r.Context()))
}
