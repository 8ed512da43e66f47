package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/templating"
	"github.com/dropDatabas3/hellocms/internal/validation"
	"github.com/dropDatabas3/hellocms/internal/web/csrf"
)

// AppError define la estructura estándar de errores de la API.
type AppError struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Detail     string              `json:"detail,omitempty"`
	Fields     map[string][]string `json:"fields,omitempty"`
	HTTPStatus int                 `json:"-"` // No se serializa, usado para el header
	Err        error               `json:"-"` // Causa original, solo para logs
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// FromError convierte un error de cualquier capa en un AppError.
// Los sentinels de dominio se mapean a su status; el resto es 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var verrs *validation.Errors
	if stderrors.As(err, &verrs) {
		e := ErrValidation.WithCause(err)
		e.Fields = verrs.Fields()
		return e
	}
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		return ErrNotFound.WithCause(err)
	case stderrors.Is(err, repository.ErrConflict):
		return ErrConflict.WithCause(err)
	case stderrors.Is(err, repository.ErrInvalidInput):
		return ErrBadRequest.WithCause(err).WithDetail(err.Error())
	case stderrors.Is(err, repository.ErrNoDatabase):
		return ErrServiceUnavailable.WithCause(err)
	case stderrors.Is(err, templating.ErrOutsideRoot):
		return ErrTemplateOutsideRoot.WithCause(err)
	case stderrors.Is(err, csrf.ErrMissingToken),
		stderrors.Is(err, csrf.ErrInvalidToken),
		stderrors.Is(err, csrf.ErrNonceMismatch):
		return ErrInvalidCSRFToken.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// WithDetail agrega detalles adicionales al error.
// Devuelve una COPIA del error para no mutar las variables globales base
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa)
// Devuelve una COPIA del error
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// =================================================================================

// ---------------------------------------------------------------------------------
// 400 Bad Request
// ---------------------------------------------------------------------------------

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "El cuerpo de la solicitud no es un JSON válido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidParameter = &AppError{
		Code:       "INVALID_PARAMETER",
		Message:    "Uno de los parámetros de la URL o Query String es inválido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "El cuerpo de la solicitud excede el tamaño máximo permitido.",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}

	ErrUnsupportedMediaType = &AppError{
		Code:       "UNSUPPORTED_MEDIA_TYPE",
		Message:    "Se requiere Content-Type: application/json.",
		HTTPStatus: http.StatusUnsupportedMediaType,
	}
)

// ---------------------------------------------------------------------------------
// 403 Forbidden
// ---------------------------------------------------------------------------------

var (
	ErrInvalidCSRFToken = &AppError{
		Code:       "INVALID_CSRF_TOKEN",
		Message:    "El token CSRF falta o no corresponde a este cliente.",
		HTTPStatus: http.StatusForbidden,
	}
)

// ---------------------------------------------------------------------------------
// 404 Not Found
// ---------------------------------------------------------------------------------

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no fue encontrado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "La ruta solicitada no existe.",
		HTTPStatus: http.StatusNotFound,
	}
)

// ---------------------------------------------------------------------------------
// 405 Method Not Allowed
// ---------------------------------------------------------------------------------

var (
	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// ---------------------------------------------------------------------------------
// 409 Conflict
// ---------------------------------------------------------------------------------

var (
	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "La solicitud entra en conflicto con el estado actual del servidor.",
		HTTPStatus: http.StatusConflict,
	}
)

// ---------------------------------------------------------------------------------
// 422 Unprocessable Entity
// ---------------------------------------------------------------------------------

var (
	ErrValidation = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Uno o más campos no son válidos.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	ErrTemplateOutsideRoot = &AppError{
		Code:       "TEMPLATE_OUTSIDE_ROOT",
		Message:    "El template no está dentro del directorio de templates de email.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
)

// ---------------------------------------------------------------------------------
// 429 Too Many Requests
// ---------------------------------------------------------------------------------

var (
	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Ha excedido el límite de solicitudes. Intente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// ---------------------------------------------------------------------------------
// 500+ Server Errors
// ---------------------------------------------------------------------------------

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno en el servidor.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "El servicio no está disponible temporalmente.",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
