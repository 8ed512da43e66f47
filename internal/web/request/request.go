// Package request envuelve un *http.Request con los accesores que usan los
// templates: segmentos de path, paginación, parámetros, datos del cliente y
// token CSRF.
package request

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/mssola/useragent"

	"github.com/dropDatabas3/hellocms/internal/web/csrf"
)

// Options configura cómo se interpreta el request.
type Options struct {
	// BaseURL es la URL del sitio, sin slash final.
	BaseURL string
	// ScriptName es la ruta del script de entrada ("/index.php").
	ScriptName string
	// UsePathInfo: el path viene en la URL; si no, en el query param PathParam.
	UsePathInfo bool
	PathParam   string
	// PageTrigger: prefijo de segmento ("p" -> ".../p2") o, si empieza con
	// "?", nombre de query param ("?page" -> "?page=2").
	PageTrigger string
	// TrustForwarded habilita X-Forwarded-For / X-Forwarded-Proto.
	TrustForwarded bool
	// HostnameLookups habilita la resolución inversa de UserHost.
	HostnameLookups bool

	CSRF           *csrf.Issuer
	CSRFCookieName string
}

// Request es la vista de solo lectura de un request HTTP.
type Request struct {
	r    *http.Request
	opts Options

	once     sync.Once
	pathInfo string // sin segmento de página
	fullPath string // tal cual vino
	segments []string
	pageNum  int

	bodyOnce sync.Once
	body     map[string]string
	bodyErr  error

	uaOnce sync.Once
	ua     *useragent.UserAgent

	csrfOnce  sync.Once
	csrfToken string
}

// New crea la vista.
func New(r *http.Request, opts Options) *Request {
	if opts.PathParam == "" {
		opts.PathParam = "p"
	}
	if opts.PageTrigger == "" {
		opts.PageTrigger = "p"
	}
	if opts.CSRFCookieName == "" {
		opts.CSRFCookieName = "CRAFT_CSRF_TOKEN"
	}
	return &Request{r: r, opts: opts}
}

// HTTP devuelve el request subyacente.
func (q *Request) HTTP() *http.Request { return q.r }

// Context devuelve el contexto del request.
func (q *Request) Context() context.Context { return q.r.Context() }

// Options devuelve las opciones con defaults aplicados.
func (q *Request) Options() Options { return q.opts }

// =================================================================================
// MÉTODO / TIPO
// =================================================================================

func (q *Request) IsGet() bool    { return q.r.Method == http.MethodGet }
func (q *Request) IsPost() bool   { return q.r.Method == http.MethodPost }
func (q *Request) IsDelete() bool { return q.r.Method == http.MethodDelete }
func (q *Request) IsPut() bool    { return q.r.Method == http.MethodPut }

// IsAjax: el cliente mandó X-Requested-With: XMLHttpRequest.
func (q *Request) IsAjax() bool {
	return strings.EqualFold(q.r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// IsSecureConnection: TLS directo o, detrás de proxy confiable, X-Forwarded-Proto=https.
func (q *Request) IsSecureConnection() bool {
	if q.r.TLS != nil {
		return true
	}
	return q.opts.TrustForwarded && strings.EqualFold(q.r.Header.Get("X-Forwarded-Proto"), "https")
}

// IsLivePreview: request de preview del editor.
func (q *Request) IsLivePreview() bool {
	if q.r.URL.Query().Has("x-craft-live-preview") {
		return true
	}
	v := q.BodyParam("livePreview", "")
	return v != "" && v != "0" && !strings.EqualFold(v, "false")
}

// =================================================================================
// PATH
// =================================================================================

func (q *Request) parsePath() {
	q.once.Do(func() {
		var raw string
		if q.opts.UsePathInfo {
			raw = q.r.URL.Path
			if q.opts.ScriptName != "" {
				raw = strings.TrimPrefix(raw, q.opts.ScriptName)
			}
		} else {
			raw = q.r.URL.Query().Get(q.opts.PathParam)
		}
		q.fullPath = strings.Trim(raw, "/")

		var segs []string
		for _, s := range strings.Split(q.fullPath, "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}

		q.pageNum = 1
		if name, ok := strings.CutPrefix(q.opts.PageTrigger, "?"); ok {
			if n, err := strconv.Atoi(q.r.URL.Query().Get(name)); err == nil && n > 0 {
				q.pageNum = n
			}
		} else if len(segs) > 0 {
			last := segs[len(segs)-1]
			if rest, ok := strings.CutPrefix(last, q.opts.PageTrigger); ok {
				if n, err := strconv.Atoi(rest); err == nil && n > 0 {
					q.pageNum = n
					segs = segs[:len(segs)-1]
				}
			}
		}
		q.segments = segs
		q.pathInfo = strings.Join(segs, "/")
	})
}

// PathInfo devuelve el path del request sin slashes de borde. Con withPage
// incluye el segmento de paginación.
func (q *Request) PathInfo(withPage bool) string {
	q.parsePath()
	if withPage {
		return q.fullPath
	}
	return q.pathInfo
}

// Segments devuelve los segmentos del path, sin el de paginación.
func (q *Request) Segments() []string {
	q.parsePath()
	return append([]string(nil), q.segments...)
}

// Segment devuelve el segmento n (1-based); n negativo cuenta desde el final.
func (q *Request) Segment(n int) (string, bool) {
	q.parsePath()
	switch {
	case n > 0 && n <= len(q.segments):
		return q.segments[n-1], true
	case n < 0 && -n <= len(q.segments):
		return q.segments[len(q.segments)+n], true
	default:
		return "", false
	}
}

// PageNum devuelve la página pedida (1 si no hay trigger).
func (q *Request) PageNum() int {
	q.parsePath()
	return q.pageNum
}

// ScriptFilename devuelve el nombre del script de entrada ("index.php").
func (q *Request) ScriptFilename() string {
	if q.opts.ScriptName == "" {
		return ""
	}
	return path.Base(q.opts.ScriptName)
}

// ScriptURL devuelve la ruta del script de entrada.
func (q *Request) ScriptURL() string { return q.opts.ScriptName }

// URL devuelve el request URI (path + query).
func (q *Request) URL() string { return q.r.URL.RequestURI() }

// UsesPathInfo indica el formato de URLs del sitio.
func (q *Request) UsesPathInfo() bool { return q.opts.UsePathInfo }

// SiteURL arma una URL absoluta del sitio para path.
func (q *Request) SiteURL(p string) string {
	base := strings.TrimRight(q.opts.BaseURL, "/")
	if base == "" {
		base = q.HostInfo("")
	}
	p = strings.Trim(p, "/")
	if q.opts.UsePathInfo {
		if p == "" {
			return base + "/"
		}
		return base + "/" + p
	}
	script := q.opts.ScriptName
	if script == "" {
		script = "/"
	}
	if p == "" {
		return base + script
	}
	return base + script + "?" + url.Values{q.opts.PathParam: {p}}.Encode()
}

// =================================================================================
// PARÁMETROS
// =================================================================================

// Param busca name en el query string y luego en el body.
func (q *Request) Param(name, def string) string {
	if v, ok := q.queryValue(name); ok {
		return v
	}
	return q.BodyParam(name, def)
}

// QueryParam devuelve un parámetro del query string o def.
func (q *Request) QueryParam(name, def string) string {
	if v, ok := q.queryValue(name); ok {
		return v
	}
	return def
}

// QueryParams devuelve todos los parámetros del query string.
func (q *Request) QueryParams() url.Values { return q.r.URL.Query() }

func (q *Request) queryValue(name string) (string, bool) {
	vals, ok := q.r.URL.Query()[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// BodyParam devuelve un parámetro del body (form o JSON objeto plano) o def.
func (q *Request) BodyParam(name, def string) string {
	body, _ := q.BodyParams()
	if v, ok := body[name]; ok {
		return v
	}
	return def
}

// BodyParams parsea el body una sola vez.
func (q *Request) BodyParams() (map[string]string, error) {
	q.bodyOnce.Do(func() {
		q.body, q.bodyErr = parseBody(q.r)
	})
	return q.body, q.bodyErr
}

const maxBodyBytes = 10 << 20

func parseBody(r *http.Request) (map[string]string, error) {
	out := map[string]string{}
	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return out, nil
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		var raw map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
			return out, fmt.Errorf("request: json body: %w", err)
		}
		for k, v := range raw {
			switch t := v.(type) {
			case string:
				out[k] = t
			case nil:
			default:
				b, _ := json.Marshal(t)
				out[k] = string(b)
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return out, fmt.Errorf("request: multipart body: %w", err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return out, fmt.Errorf("request: form body: %w", err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	}
	return out, nil
}

// Cookie devuelve la cookie name o nil.
func (q *Request) Cookie(name string) *http.Cookie {
	c, err := q.r.Cookie(name)
	if err != nil {
		return nil
	}
	return c
}

// QueryString devuelve la parte del URL después de "?".
func (q *Request) QueryString() string { return q.r.URL.RawQuery }

// QueryStringWithoutPath devuelve el query string sin el parámetro de path.
func (q *Request) QueryStringWithoutPath() string {
	raw := q.r.URL.RawQuery
	if raw == "" {
		return ""
	}
	var keep []string
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, _, _ := strings.Cut(part, "=")
		if k, err := url.QueryUnescape(key); err == nil && k == q.opts.PathParam {
			continue
		}
		keep = append(keep, part)
	}
	return strings.Join(keep, "&")
}

// =================================================================================
// SERVIDOR / CLIENTE
// =================================================================================

func (q *Request) scheme() string {
	if q.IsSecureConnection() {
		return "https"
	}
	return "http"
}

// ServerName devuelve el host sin puerto.
func (q *Request) ServerName() string {
	host, _ := splitHostPort(q.r.Host)
	return host
}

// ServerPort devuelve el puerto del request (80/443 si no viene explícito).
func (q *Request) ServerPort() int {
	if _, p := splitHostPort(q.r.Host); p > 0 {
		return p
	}
	if q.IsSecureConnection() {
		return 443
	}
	return 80
}

// Port devuelve el puerto para requests no seguros.
func (q *Request) Port() int {
	if !q.IsSecureConnection() {
		return q.ServerPort()
	}
	return 80
}

// HostInfo devuelve "scheme://host[:port]" sin slash final. scheme vacío usa
// el del request; si difiere, se omite el puerto.
func (q *Request) HostInfo(scheme string) string {
	cur := q.scheme()
	if scheme == "" {
		scheme = cur
	}
	host, port := splitHostPort(q.r.Host)
	if scheme != cur || port == 0 || (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return scheme + "://" + host
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))
}

func splitHostPort(hostport string) (string, int) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return strings.Trim(hostport, "[]"), 0
	}
	p, _ := strconv.Atoi(portStr)
	return host, p
}

func (q *Request) Referrer() string  { return q.r.Referer() }
func (q *Request) UserAgent() string { return q.r.UserAgent() }

// UserIP devuelve la IP del cliente (primer X-Forwarded-For si es confiable).
func (q *Request) UserIP() string {
	if q.opts.TrustForwarded {
		if xff := q.r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(q.r.RemoteAddr)
	if err != nil {
		return q.r.RemoteAddr
	}
	return host
}

// UserHost devuelve el hostname del cliente si las búsquedas inversas están habilitadas.
func (q *Request) UserHost() string {
	if !q.opts.HostnameLookups {
		return ""
	}
	names, err := net.DefaultResolver.LookupAddr(q.r.Context(), q.UserIP())
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}

func (q *Request) userAgent() *useragent.UserAgent {
	q.uaOnce.Do(func() { q.ua = useragent.New(q.r.UserAgent()) })
	return q.ua
}

// IsMobileBrowser detecta navegadores móviles; con detectTablets incluye tablets.
func (q *Request) IsMobileBrowser(detectTablets bool) bool {
	raw := q.r.UserAgent()
	tablet := isTablet(raw)
	if tablet {
		return detectTablets
	}
	return q.userAgent().Mobile()
}

func isTablet(ua string) bool {
	l := strings.ToLower(ua)
	switch {
	case strings.Contains(l, "ipad"), strings.Contains(l, "tablet"), strings.Contains(l, "kindle"):
		return true
	case strings.Contains(l, "android") && !strings.Contains(l, "mobile"):
		return true
	}
	return false
}

// ClientOS devuelve "Linux", "Mac", "Windows" u "Other".
func (q *Request) ClientOS() string {
	name := strings.ToLower(q.userAgent().OS() + " " + q.r.UserAgent())
	switch {
	case strings.Contains(name, "linux"), strings.Contains(name, "android"):
		return "Linux"
	case strings.Contains(name, "mac"):
		return "Mac"
	case strings.Contains(name, "windows"), strings.Contains(name, "win32"):
		return "Windows"
	default:
		return "Other"
	}
}

// =================================================================================
// CSRF
// =================================================================================

// CSRFToken devuelve un token CSRF para el nonce del cliente. El nonce viene
// del contexto (middleware CSRF) o de la cookie. Sin issuer o sin nonce devuelve "".
func (q *Request) CSRFToken() string {
	q.csrfOnce.Do(func() {
		if q.opts.CSRF == nil {
			return
		}
		nonce, ok := csrf.NonceFrom(q.r.Context())
		if !ok {
			c := q.Cookie(q.opts.CSRFCookieName)
			if c == nil || c.Value == "" {
				return
			}
			nonce = c.Value
		}
		tok, err := q.opts.CSRF.Issue(nonce)
		if err == nil {
			q.csrfToken = tok
		}
	})
	return q.csrfToken
}
