package request

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellocms/internal/web/csrf"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	uaIPad    = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	uaWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	uaLinux   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	uaMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

func TestPath_PathInfoMode(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/index.php/news/2024/p3?x=1", nil)
	q := New(r, Options{UsePathInfo: true, ScriptName: "/index.php"})

	assert.Equal(t, "news/2024", q.PathInfo(false))
	assert.Equal(t, "news/2024/p3", q.PathInfo(true))
	assert.Equal(t, []string{"news", "2024"}, q.Segments())
	assert.Equal(t, 3, q.PageNum())

	first, ok := q.Segment(1)
	assert.True(t, ok)
	assert.Equal(t, "news", first)
	last, ok := q.Segment(-1)
	assert.True(t, ok)
	assert.Equal(t, "2024", last)
	_, ok = q.Segment(3)
	assert.False(t, ok)
	_, ok = q.Segment(0)
	assert.False(t, ok)
}

func TestPath_QueryStringMode(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/index.php?p=blog/hello&utm=x&page=2", nil)
	q := New(r, Options{ScriptName: "/index.php", PageTrigger: "?page"})

	assert.Equal(t, "blog/hello", q.PathInfo(false))
	assert.Equal(t, 2, q.PageNum())
	assert.Equal(t, "p=blog/hello&utm=x&page=2", q.QueryString())
	assert.Equal(t, "utm=x&page=2", q.QueryStringWithoutPath())
}

func TestPath_NoPageSegment(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products/pencil", nil)
	q := New(r, Options{UsePathInfo: true})
	assert.Equal(t, 1, q.PageNum())
	assert.Equal(t, []string{"products", "pencil"}, q.Segments())
}

func TestMethods(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		q := New(httptest.NewRequest(m, "/", nil), Options{})
		assert.Equal(t, m == http.MethodGet, q.IsGet(), m)
		assert.Equal(t, m == http.MethodPost, q.IsPost(), m)
		assert.Equal(t, m == http.MethodPut, q.IsPut(), m)
		assert.Equal(t, m == http.MethodDelete, q.IsDelete(), m)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	assert.True(t, New(r, Options{}).IsAjax())
}

func TestParams(t *testing.T) {
	form := url.Values{"title": {"hola"}, "dup": {"body"}}
	r := httptest.NewRequest(http.MethodPost, "/?dup=query&q=1", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	q := New(r, Options{})

	assert.Equal(t, "1", q.QueryParam("q", ""))
	assert.Equal(t, "def", q.QueryParam("missing", "def"))
	assert.Equal(t, "hola", q.BodyParam("title", ""))
	assert.Equal(t, "query", q.Param("dup", ""), "query wins over body")
	assert.Equal(t, "hola", q.Param("title", ""))
	assert.Equal(t, "x", q.Param("none", "x"))
}

func TestParams_JSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ana","n":3,"livePreview":true}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	q := New(r, Options{})

	assert.Equal(t, "ana", q.BodyParam("name", ""))
	assert.Equal(t, "3", q.BodyParam("n", ""))
	assert.True(t, q.IsLivePreview())
}

func TestServerInfo(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com:8080/x", nil)
	r.RemoteAddr = "10.0.0.5:4321"
	r.Header.Set("Referer", "http://ref.example/")
	r.Header.Set("User-Agent", uaLinux)
	q := New(r, Options{})

	assert.Equal(t, "example.com", q.ServerName())
	assert.Equal(t, 8080, q.ServerPort())
	assert.Equal(t, 8080, q.Port())
	assert.Equal(t, "http://example.com:8080", q.HostInfo(""))
	assert.Equal(t, "https://example.com", q.HostInfo("https"))
	assert.Equal(t, "10.0.0.5", q.UserIP())
	assert.Equal(t, "", q.UserHost())
	assert.Equal(t, "http://ref.example/", q.Referrer())
	assert.Equal(t, uaLinux, q.UserAgent())
	assert.False(t, q.IsSecureConnection())
}

func TestServerInfo_TLSAndForwarded(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "https://example.com/x", nil)
	r.TLS = &tls.ConnectionState{}
	q := New(r, Options{})
	assert.True(t, q.IsSecureConnection())
	assert.Equal(t, 443, q.ServerPort())
	assert.Equal(t, 80, q.Port())
	assert.Equal(t, "https://example.com", q.HostInfo(""))

	fwd := httptest.NewRequest(http.MethodGet, "/", nil)
	fwd.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	fwd.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "203.0.113.7", New(fwd, Options{TrustForwarded: true}).UserIP())
	assert.True(t, New(fwd, Options{TrustForwarded: true}).IsSecureConnection())
	assert.NotEqual(t, "203.0.113.7", New(fwd, Options{}).UserIP())
}

func TestUserAgentDetection(t *testing.T) {
	cases := []struct {
		ua             string
		mobile, tablet bool
		os             string
	}{
		{uaIPhone, true, true, "Mac"},
		{uaIPad, false, true, "Mac"},
		{uaWindows, false, false, "Windows"},
		{uaLinux, false, false, "Linux"},
		{uaMac, false, false, "Mac"},
		{"curl/8.0", false, false, "Other"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("User-Agent", tc.ua)
		q := New(r, Options{})
		assert.Equal(t, tc.mobile, q.IsMobileBrowser(false), tc.ua)
		assert.Equal(t, tc.tablet, q.IsMobileBrowser(true), tc.ua)
		assert.Equal(t, tc.os, q.ClientOS(), tc.ua)
	}
}

func TestScriptAndURLs(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/index.php?p=a/b&x=1", nil)
	q := New(r, Options{ScriptName: "/index.php", BaseURL: "https://site.test/"})

	assert.Equal(t, "index.php", q.ScriptFilename())
	assert.Equal(t, "/index.php", q.ScriptURL())
	assert.Equal(t, "/index.php?p=a/b&x=1", q.URL())
	assert.Equal(t, "https://site.test/index.php?p=a%2Fb", q.SiteURL("a/b"))

	pi := New(r, Options{UsePathInfo: true, BaseURL: "https://site.test"})
	assert.Equal(t, "https://site.test/a/b", pi.SiteURL("/a/b/"))
	assert.Equal(t, "https://site.test/", pi.SiteURL(""))
}

func TestCookieAndCSRF(t *testing.T) {
	iss, err := csrf.NewIssuer([]byte(strings.Repeat("k", 32)), time.Minute)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "CRAFT_CSRF_TOKEN", Value: "nonce-1"})
	q := New(r, Options{CSRF: iss})

	require.NotNil(t, q.Cookie("CRAFT_CSRF_TOKEN"))
	assert.Nil(t, q.Cookie("other"))

	tok := q.CSRFToken()
	require.NotEmpty(t, tok)
	assert.Equal(t, tok, q.CSRFToken(), "token is stable per request")
	assert.NoError(t, iss.Validate(tok, "nonce-1"))

	ctxReq := r.WithContext(csrf.WithNonce(r.Context(), "nonce-ctx"))
	tok2 := New(ctxReq, Options{CSRF: iss}).CSRFToken()
	assert.NoError(t, iss.Validate(tok2, "nonce-ctx"))

	assert.Empty(t, New(httptest.NewRequest(http.MethodGet, "/", nil), Options{CSRF: iss}).CSRFToken())
	assert.Empty(t, New(r, Options{}).CSRFToken())
}
