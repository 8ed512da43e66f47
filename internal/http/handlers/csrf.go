package handlers

import (
	"net/http"

	"github.com/dropDatabas3/hellocms/internal/http/errors"
	"github.com/dropDatabas3/hellocms/internal/web/csrf"
)

// CSRFHandler emite tokens para el nonce del cliente.
type CSRFHandler struct {
	issuer     *csrf.Issuer
	headerName string
}

func NewCSRFHandler(issuer *csrf.Issuer, headerName string) *CSRFHandler {
	if headerName == "" {
		headerName = "X-CSRF-Token"
	}
	return &CSRFHandler{issuer: issuer, headerName: headerName}
}

// Token: GET /v1/csrf
// Requiere el middleware CSRF delante para tener nonce en el contexto.
func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	if h.issuer == nil {
		errors.WriteError(w, errors.ErrRouteNotFound.WithDetail("csrf deshabilitado"))
		return
	}
	nonce, ok := csrf.NonceFrom(r.Context())
	if !ok {
		errors.WriteError(w, csrf.ErrMissingToken)
		return
	}
	tok, err := h.issuer.Issue(nonce)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     tok,
		"header":    h.headerName,
		"expiresIn": int64(h.issuer.TTL().Seconds()),
	})
}
