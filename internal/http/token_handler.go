package http

import (
	"net/http"
)

type TokenIssuer interface {
	Issue(payload map[string]interface{}) (string, error)
}

type TokenHandler struct {
	issuer TokenIssuer
}

func NewTokenHandler(issuer TokenIssuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Issue signs the request body, typically {"email": ...}, into a bearer token.
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := decodeJSON(r, &payload); err != nil {
		respondDecodeError(w, err)
		return
	}

	token, err := h.issuer.Issue(payload)
	if err != nil {
		writeServiceError(w, r, "issue token", err)
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}
