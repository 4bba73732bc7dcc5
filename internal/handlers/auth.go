package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Authenticator is the OAuth surface of the calendar gateway.
type Authenticator interface {
	IsAuthenticated() bool
	AuthURL() (string, error)
	HandleCallback(ctx context.Context, code string) error
	TokenB64() (string, error)
}

// AuthHandler handles the Google OAuth flow
type AuthHandler struct {
	auth           Authenticator
	returnTokenB64 bool
	logger         *zap.Logger
}

// NewAuthHandler creates a new auth handler. When returnTokenB64 is set the
// callback response includes the serialized token, for copying into
// GOOGLE_TOKEN_JSON_B64 on headless deployments.
func NewAuthHandler(auth Authenticator, returnTokenB64 bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, returnTokenB64: returnTokenB64, logger: logger}
}

// AuthURL handles GET/POST /auth/google
func (h *AuthHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.auth.AuthURL()
	if err != nil {
		h.logger.Error("auth_url_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"auth_url": url})
}

// Callback handles GET /auth/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing authorization code")
		return
	}

	if err := h.auth.HandleCallback(r.Context(), code); err != nil {
		h.logger.Error("auth_callback_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	response := map[string]any{
		"status":  "success",
		"message": "Authentication successful",
	}
	if h.returnTokenB64 {
		tokenB64, err := h.auth.TokenB64()
		if err != nil {
			h.logger.Warn("token_b64_unavailable", zap.Error(err))
		} else {
			response["google_token_json_b64"] = tokenB64
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// Status handles GET /auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": h.auth.IsAuthenticated()})
}
