// Package handlers contiene los handlers HTTP del servicio.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hellocms/internal/http/errors"
)

const maxJSONBody = 64 << 10 // 64KB

// writeJSON: respuesta JSON estándar
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readStrictJSON decodifica el body rechazando campos desconocidos y datos extra.
func readStrictJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(ct, "application/json") {
		errors.WriteError(w, errors.ErrUnsupportedMediaType)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			errors.WriteError(w, errors.ErrBodyTooLarge)
		case stderrors.Is(err, io.EOF):
			errors.WriteError(w, errors.ErrInvalidJSON.WithDetail("body vacío"))
		default:
			errors.WriteError(w, errors.ErrInvalidJSON.WithDetail(err.Error()))
		}
		return false
	}

	// No debe haber datos extra
	if dec.More() {
		errors.WriteError(w, errors.ErrInvalidJSON.WithDetail("sobran datos en el body"))
		return false
	}
	return true
}

// idParam lee un id numérico positivo de la ruta.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		errors.WriteError(w, errors.ErrInvalidParameter.WithDetail(name+" debe ser un entero positivo"))
		return 0, false
	}
	return id, true
}
