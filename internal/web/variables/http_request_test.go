package variables

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellocms/internal/web/request"
)

type logged struct{ key, message string }

type recordingDeprecator struct{ calls []logged }

func (r *recordingDeprecator) Log(_ context.Context, key, message string) {
	r.calls = append(r.calls, logged{key, message})
}

func newFacade(t *testing.T, target string, opts request.Options) (*HTTPRequest, *recordingDeprecator) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.RemoteAddr = "198.51.100.4:5555"
	dep := &recordingDeprecator{}
	return NewHTTPRequest(request.New(r, opts), dep), dep
}

func TestDelegation(t *testing.T) {
	h, dep := newFacade(t, "http://example.com/index.php/news/world/p2?utm=1", request.Options{
		UsePathInfo: true, ScriptName: "/index.php", BaseURL: "https://site.test",
	})

	assert.True(t, h.IsGet())
	assert.False(t, h.IsPost())
	assert.Equal(t, "news/world", h.Path())
	assert.Equal(t, "news/world/p2", h.PathInfo())
	assert.Equal(t, "https://site.test/news/world", h.URL())
	assert.Equal(t, []string{"news", "world"}, h.Segments())
	assert.Equal(t, "news", h.FirstSegment())
	assert.Equal(t, "world", h.LastSegment())
	assert.Equal(t, "", h.Segment(5))
	assert.Equal(t, 2, h.PageNum())
	assert.Equal(t, "pathinfo", h.URLFormat())
	assert.Equal(t, "index.php", h.ScriptName())
	assert.Equal(t, "/index.php", h.ScriptURL())
	assert.Equal(t, "/index.php/news/world/p2?utm=1", h.RequestURI())
	assert.Equal(t, "1", h.QueryParam("utm", ""))
	assert.Equal(t, "utm=1", h.QueryString())
	assert.Equal(t, "example.com", h.ServerName())
	assert.Equal(t, 80, h.ServerPort())
	assert.Equal(t, "198.51.100.4", h.UserIP())
	assert.Equal(t, "Other", h.ClientOS())
	assert.Empty(t, dep.calls, "non-deprecated accessors never log")
}

func TestURLFormat_QueryString(t *testing.T) {
	h, _ := newFacade(t, "/index.php?p=a/b", request.Options{ScriptName: "/index.php", BaseURL: "https://site.test"})
	assert.Equal(t, "querystring", h.URLFormat())
	assert.Equal(t, "https://site.test/index.php?p=a%2Fb", h.URL())
}

func TestDeprecatedAccessors(t *testing.T) {
	h, dep := newFacade(t, "/?q=search", request.Options{})

	assert.Equal(t, "search", h.Query("q", ""))
	assert.Equal(t, "fallback", h.Post("missing", "fallback"))
	assert.Equal(t, "198.51.100.4", h.UserHostAddress())
	assert.Equal(t, "198.51.100.4", h.IPAddress())

	require.Len(t, dep.calls, 4)
	assert.Equal(t, logged{"craft.request.getQuery()", "craft.request.getQuery() is deprecated. Use getQueryParam() instead."}, dep.calls[0])
	assert.Equal(t, logged{"craft.request.getPost()", "craft.request.getPost() is deprecated. Use getBodyParam() instead."}, dep.calls[1])
	assert.Equal(t, logged{"craft.request.getUserHostAddress()", "craft.request.getUserHostAddress() is deprecated. Use getUserIP() instead."}, dep.calls[2])
	assert.Equal(t, logged{"craft.request.getIpAddress()", "craft.request.getIpAddress() is deprecated. Use getUserIP() instead."}, dep.calls[3])
}

func TestDeprecatedAccessors_NilLogger(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?q=1", nil)
	h := NewHTTPRequest(request.New(r, request.Options{}), nil)
	assert.Equal(t, "1", h.Query("q", ""))
}
