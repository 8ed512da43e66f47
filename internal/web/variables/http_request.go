// Package variables expone a los templates vistas de solo lectura sobre el
// estado del request.
package variables

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/hellocms/internal/deprecation"
	"github.com/dropDatabas3/hellocms/internal/web/request"
)

// Source es el request subyacente. *request.Request lo implementa.
type Source interface {
	Context() context.Context

	IsGet() bool
	IsPost() bool
	IsDelete() bool
	IsPut() bool
	IsAjax() bool
	IsSecureConnection() bool
	IsLivePreview() bool

	ScriptFilename() string
	ScriptURL() string
	PathInfo(withPage bool) string
	Segments() []string
	Segment(n int) (string, bool)
	PageNum() int
	URL() string
	SiteURL(path string) string
	UsesPathInfo() bool

	Param(name, def string) string
	QueryParam(name, def string) string
	BodyParam(name, def string) string
	Cookie(name string) *http.Cookie
	QueryString() string
	QueryStringWithoutPath() string

	ServerName() string
	ServerPort() int
	Port() int
	HostInfo(scheme string) string
	Referrer() string
	UserAgent() string
	UserIP() string
	UserHost() string
	IsMobileBrowser(detectTablets bool) bool
	ClientOS() string

	CSRFToken() string
}

var _ Source = (*request.Request)(nil)

// HTTPRequest es la fachada de request para templates. Todo delega en Source;
// los accesores deprecados avisan por deprecation.Logger y luego delegan en su reemplazo.
type HTTPRequest struct {
	src Source
	dep deprecation.Logger
}

// NewHTTPRequest crea la fachada. dep puede ser nil.
func NewHTTPRequest(src Source, dep deprecation.Logger) *HTTPRequest {
	return &HTTPRequest{src: src, dep: dep}
}

func (h *HTTPRequest) IsGet() bool         { return h.src.IsGet() }
func (h *HTTPRequest) IsPost() bool        { return h.src.IsPost() }
func (h *HTTPRequest) IsDelete() bool      { return h.src.IsDelete() }
func (h *HTTPRequest) IsPut() bool         { return h.src.IsPut() }
func (h *HTTPRequest) IsAjax() bool        { return h.src.IsAjax() }
func (h *HTTPRequest) IsSecure() bool      { return h.src.IsSecureConnection() }
func (h *HTTPRequest) IsLivePreview() bool { return h.src.IsLivePreview() }

// ScriptName devuelve el nombre del script de entrada.
func (h *HTTPRequest) ScriptName() string { return h.src.ScriptFilename() }

// Path devuelve el path del request sin segmento de paginación.
func (h *HTTPRequest) Path() string { return h.src.PathInfo(false) }

// URL devuelve la URL absoluta del sitio para el path actual.
func (h *HTTPRequest) URL() string { return h.src.SiteURL(h.src.PathInfo(false)) }

func (h *HTTPRequest) Segments() []string { return h.src.Segments() }

// Segment devuelve el segmento num (1-based, negativo desde el final) o "".
func (h *HTTPRequest) Segment(num int) string {
	s, _ := h.src.Segment(num)
	return s
}

func (h *HTTPRequest) FirstSegment() string { return h.Segment(1) }
func (h *HTTPRequest) LastSegment() string  { return h.Segment(-1) }

func (h *HTTPRequest) Param(name, def string) string      { return h.src.Param(name, def) }
func (h *HTTPRequest) QueryParam(name, def string) string { return h.src.QueryParam(name, def) }
func (h *HTTPRequest) BodyParam(name, def string) string  { return h.src.BodyParam(name, def) }
func (h *HTTPRequest) Cookie(name string) *http.Cookie    { return h.src.Cookie(name) }
func (h *HTTPRequest) ServerName() string                 { return h.src.ServerName() }

// URLFormat devuelve "pathinfo" o "querystring".
func (h *HTTPRequest) URLFormat() string {
	if h.src.UsesPathInfo() {
		return "pathinfo"
	}
	return "querystring"
}

func (h *HTTPRequest) IsMobileBrowser(detectTablets bool) bool {
	return h.src.IsMobileBrowser(detectTablets)
}

func (h *HTTPRequest) PageNum() int                   { return h.src.PageNum() }
func (h *HTTPRequest) HostInfo(scheme string) string  { return h.src.HostInfo(scheme) }
func (h *HTTPRequest) ScriptURL() string              { return h.src.ScriptURL() }
func (h *HTTPRequest) PathInfo() string               { return h.src.PathInfo(true) }
func (h *HTTPRequest) RequestURI() string             { return h.src.URL() }
func (h *HTTPRequest) ServerPort() int                { return h.src.ServerPort() }
func (h *HTTPRequest) URLReferrer() string            { return h.src.Referrer() }
func (h *HTTPRequest) UserAgent() string              { return h.src.UserAgent() }
func (h *HTTPRequest) UserIP() string                 { return h.src.UserIP() }
func (h *HTTPRequest) UserHost() string               { return h.src.UserHost() }
func (h *HTTPRequest) Port() int                      { return h.src.Port() }
func (h *HTTPRequest) CSRFToken() string              { return h.src.CSRFToken() }
func (h *HTTPRequest) QueryString() string            { return h.src.QueryString() }
func (h *HTTPRequest) QueryStringWithoutPath() string { return h.src.QueryStringWithoutPath() }

// ClientOS devuelve "Windows", "Mac", "Linux" u "Other".
func (h *HTTPRequest) ClientOS() string { return h.src.ClientOS() }

// =================================================================================
// DEPRECADOS
// =================================================================================

func (h *HTTPRequest) deprecated(key, message string) {
	if h.dep != nil {
		h.dep.Log(h.src.Context(), key, message)
	}
}

// Query devuelve un parámetro del query string.
//
// Deprecated: usar QueryParam.
func (h *HTTPRequest) Query(name, def string) string {
	h.deprecated("craft.request.getQuery()", "craft.request.getQuery() is deprecated. Use getQueryParam() instead.")
	return h.QueryParam(name, def)
}

// Post devuelve un parámetro del body.
//
// Deprecated: usar BodyParam.
func (h *HTTPRequest) Post(name, def string) string {
	h.deprecated("craft.request.getPost()", "craft.request.getPost() is deprecated. Use getBodyParam() instead.")
	return h.BodyParam(name, def)
}

// UserHostAddress devuelve la IP del cliente.
//
// Deprecated: usar UserIP.
func (h *HTTPRequest) UserHostAddress() string {
	h.deprecated("craft.request.getUserHostAddress()", "craft.request.getUserHostAddress() is deprecated. Use getUserIP() instead.")
	return h.UserIP()
}

// IPAddress devuelve la IP del cliente.
//
// Deprecated: usar UserIP.
func (h *HTTPRequest) IPAddress() string {
	h.deprecated("craft.request.getIpAddress()", "craft.request.getIpAddress() is deprecated. Use getUserIP() instead.")
	return h.UserIP()
}
