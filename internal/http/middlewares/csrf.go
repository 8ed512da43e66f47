package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/hellocms/internal/http/errors"
	"github.com/dropDatabas3/hellocms/internal/observability/logger"
	"github.com/dropDatabas3/hellocms/internal/web/csrf"
)

// CSRFConfig configura el middleware CSRF.
type CSRFConfig struct {
	Issuer     *csrf.Issuer
	HeaderName string // Default: "X-CSRF-Token"
	CookieName string // Default: "CRAFT_CSRF_TOKEN"
	ParamName  string // Default: "CRAFT_CSRF_TOKEN"
}

// WithCSRF asegura que cada cliente tenga un nonce en cookie y exige, en
// métodos inseguros, un token firmado para ese nonce (header o form param).
// Sin Issuer el middleware no hace nada.
//
// Comportamiento:
//   - GET/HEAD/OPTIONS solo emiten la cookie si falta.
func WithCSRF(cfg CSRFConfig) Middleware {
	headerName := strings.TrimSpace(cfg.HeaderName)
	if headerName == "" {
		headerName = "X-CSRF-Token"
	}
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = "CRAFT_CSRF_TOKEN"
	}
	paramName := strings.TrimSpace(cfg.ParamName)
	if paramName == "" {
		paramName = cookieName
	}

	isUnsafe := func(m string) bool {
		switch strings.ToUpper(m) {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			return true
		default:
			return false
		}
	}

	return func(next http.Handler) http.Handler {
		if cfg.Issuer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := ""
			if ck, err := r.Cookie(cookieName); err == nil {
				nonce = strings.TrimSpace(ck.Value)
			}
			fresh := nonce == ""
			if fresh {
				n, err := csrf.NewNonce()
				if err != nil {
					errors.WriteErrorCtx(w, r, err)
					return
				}
				nonce = n
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    nonce,
					Path:     "/",
					HttpOnly: true,
					Secure:   isHTTPS(r),
					SameSite: http.SameSiteLaxMode,
				})
			}
			r = r.WithContext(csrf.WithNonce(r.Context(), nonce))

			if !isUnsafe(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(r.Header.Get(headerName))
			if token == "" && !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
				token = r.PostFormValue(paramName)
			}
			if fresh {
				token = ""
			}
			if err := cfg.Issuer.Validate(token, nonce); err != nil {
				logger.From(r.Context()).Warn("csrf check failed", logger.Op("csrf"), logger.Err(err))
				errors.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isHTTPS intenta detectar si el request llegó por HTTPS (directo o detrás de proxy).
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
