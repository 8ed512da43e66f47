package handlers

import (
	"net/http"

	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/http/errors"
)

// FieldsHandler expone los fields de un field Matrix.
type FieldsHandler struct {
	svc *matrix.Service
}

func NewFieldsHandler(svc *matrix.Service) *FieldsHandler {
	return &FieldsHandler{svc: svc}
}

type blockFieldResponse struct {
	ID           int64  `json:"id"`
	Handle       string `json:"handle"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Context      string `json:"context"`
	ColumnPrefix string `json:"columnPrefix"`
	Column       string `json:"column"`
	Relational   bool   `json:"relational"`
}

// BlockFields: GET /v1/fields/{id}/block-fields
// Lista los fields de todos los block types del field, con su prefijo de columna.
func (h *FieldsHandler) BlockFields(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	fields, err := h.svc.FieldsForQuery(r.Context(), id)
	if err != nil {
		errors.WriteErrorCtx(w, r, err)
		return
	}
	out := make([]blockFieldResponse, 0, len(fields))
	for _, f := range fields {
		out = append(out, blockFieldResponse{
			ID:           f.ID,
			Handle:       f.Handle,
			Name:         f.Name,
			Type:         f.Type,
			Context:      f.Context.String(),
			ColumnPrefix: f.ColumnPrefix,
			Column:       f.Column(),
			Relational:   f.Relational(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"fieldId": id, "fields": out})
}
