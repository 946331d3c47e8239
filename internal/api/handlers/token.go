package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/reelscribe/backend/internal/auth"
	"github.com/reelscribe/backend/internal/db"
)

type TokenHandler struct {
	db  *db.Database
	jwt *auth.JWTService
}

func NewTokenHandler(database *db.Database, jwt *auth.JWTService) *TokenHandler {
	return &TokenHandler{db: database, jwt: jwt}
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	Audience  string `json:"audience"`
	ExpiresIn int64  `json:"expires_in"`
}

// Token exchanges client credentials for a bearer token scoped to the
// service's audience.
func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.db.GetServiceAccount(req.ClientID)
	if err != nil {
		jsonError(w, "invalid client credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckSecret(req.ClientSecret, account.Secret) {
		jsonError(w, "invalid client credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.GenerateToken(account.ClientID)
	if err != nil {
		jsonError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, tokenResponse{
		Token:     token,
		Audience:  h.jwt.Audience(),
		ExpiresIn: int64(h.jwt.TTL().Seconds()),
	}, http.StatusOK)
}
