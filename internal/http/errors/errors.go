// Package errors define los errores de la API HTTP y su serialización.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// errorResponse es el cuerpo JSON de un error.
type errorResponse struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Detail    string              `json:"detail,omitempty"`
	Fields    map[string][]string `json:"fields,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Detail:    appErr.Detail,
		Fields:    appErr.Fields,
		RequestID: w.Header().Get("X-Request-ID"),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteErrorCtx es WriteError pero loguea la causa de los 5xx con el logger del request.
func WriteErrorCtx(w http.ResponseWriter, r *http.Request, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("request failed",
			logger.Op("http.write_error"),
			logger.Status(appErr.HTTPStatus),
			logger.Err(err),
		)
	}
	WriteError(w, appErr)
}
