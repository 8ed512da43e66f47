package handlers

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/http/errors"
)

// DeprecationsHandler lista el log de deprecaciones persistido.
type DeprecationsHandler struct {
	repo repository.DeprecationRepository
}

func NewDeprecationsHandler(repo repository.DeprecationRepository) *DeprecationsHandler {
	return &DeprecationsHandler{repo: repo}
}

// List: GET /v1/deprecations?limit=50
func (h *DeprecationsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			errors.WriteError(w, errors.ErrInvalidParameter.WithDetail("limit debe estar entre 1 y 500"))
			return
		}
		limit = n
	}
	recs, err := h.repo.List(r.Context(), limit)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return
	}
	if recs == nil {
		recs = []repository.DeprecationRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"deprecations": recs})
}
