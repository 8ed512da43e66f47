package handlers

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/hellocms/internal/http/errors"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/templating"
)

// TemplatesHandler expone la resolución de paths de templates de email.
type TemplatesHandler struct {
	renderer *templating.EmailRenderer
}

func NewTemplatesHandler(r *templating.EmailRenderer) *TemplatesHandler {
	return &TemplatesHandler{renderer: r}
}

// EmailPaths: GET /v1/templates/email/paths?source=/abs/path.twig
func (h *TemplatesHandler) EmailPaths(w http.ResponseWriter, r *http.Request) {
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source == "" {
		errors.WriteError(w, errors.ErrInvalidParameter.WithDetail("source es requerido"))
		return
	}
	rel, err := h.renderer.RelativePath(source)
	if err != nil {
		logger.From(r.Context()).Debug("template outside root", logger.Template(source), logger.Err(err))
		errors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"source":    source,
		"relative":  rel,
		"duplicate": h.renderer.DuplicatePath(rel),
	})
}
