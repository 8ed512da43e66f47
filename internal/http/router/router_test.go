package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellocms/internal/cache"
	"github.com/dropDatabas3/hellocms/internal/deprecation"
	"github.com/dropDatabas3/hellocms/internal/eagerload"
	"github.com/dropDatabas3/hellocms/internal/element"
	"github.com/dropDatabas3/hellocms/internal/element/matrix"
	"github.com/dropDatabas3/hellocms/internal/field"
	"github.com/dropDatabas3/hellocms/internal/http/handlers"
	"github.com/dropDatabas3/hellocms/internal/i18n"
	"github.com/dropDatabas3/hellocms/internal/store/memory"
	"github.com/dropDatabas3/hellocms/internal/templating"
	"github.com/dropDatabas3/hellocms/internal/web/csrf"
	"github.com/dropDatabas3/hellocms/internal/web/request"
)

type env struct {
	handler  http.Handler
	store    *memory.Store
	issuer   *csrf.Issuer
	root     string
	cacheDir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	st.PutField(&field.Field{ID: 1, Handle: "body", Type: field.TypeMatrix, Context: field.Global})
	st.PutBlockType(&matrix.BlockType{ID: 10, FieldID: 1, Handle: "text", SortOrder: 1})
	st.PutBlockType(&matrix.BlockType{ID: 11, FieldID: 1, Handle: "links", SortOrder: 2})
	st.PutField(&field.Field{ID: 20, Handle: "heading", Type: field.TypePlainText, Context: field.ForBlockType(10)})
	st.PutField(&field.Field{ID: 21, Handle: "related", Type: field.TypeEntries, Context: field.ForBlockType(11)})
	st.PutElement(&element.Record{ID: 100, Type: "Entry", Locales: element.LocalesFromIDs("en", "fr")})
	st.PutElement(&element.Record{ID: 200, Type: "Entry"})
	st.Relate(21, 2, 200, 1)

	require.NoError(t, st.Blocks().Save(ctx, &matrix.Block{ID: 1, UID: "u1", FieldID: 1, OwnerID: 100, TypeID: 10, Locale: "en",
		Content: map[string]any{"heading": "Hola"}}))
	require.NoError(t, st.Blocks().Save(ctx, &matrix.Block{ID: 2, UID: "u2", FieldID: 1, OwnerID: 100, TypeID: 11, Locale: "en", OwnerLocale: "fr"}))

	loc, err := i18n.New("en-US", nil)
	require.NoError(t, err)
	svc, err := matrix.NewService(matrix.Deps{
		BlockTypes: st.BlockTypes(),
		Blocks:     st.Blocks(),
		Fields:     st.Fields(),
		Elements:   st.Elements(),
		Maps:       eagerload.NewLoader(st.Fields(), st.Relations()),
		Locales:    loc,
	})
	require.NoError(t, err)

	base := t.TempDir()
	root := filepath.Join(base, "templates", "email") + string(filepath.Separator)
	cacheDir := filepath.Join(base, "cache") + string(filepath.Separator)
	require.NoError(t, os.MkdirAll(root, 0o755))

	issuer, err := csrf.NewIssuer([]byte(strings.Repeat("s", 32)), time.Hour)
	require.NoError(t, err)

	h := New(Deps{
		Matrix:       svc,
		Renderer:     templating.NewEmailRenderer(templating.StaticPaths{Templates: root, Cache: cacheDir}, nil),
		Deprecator:   deprecation.New(cache.NewMemory("t:", time.Minute), deprecation.WithRepository(st.Deprecations())),
		Deprecations: st.Deprecations(),
		Request:      request.Options{BaseURL: "https://site.test", CSRF: issuer},
		Checks: map[string]handlers.Check{
			"store": st.Ping,
		},
	})
	return &env{handler: h, store: st, issuer: issuer, root: root, cacheDir: cacheDir}
}

func (e *env) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func (e *env) get(t *testing.T, target string) (*httptest.ResponseRecorder, map[string]any) {
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestReadyz(t *testing.T) {
	e := newEnv(t)
	rec, body := e.get(t, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyz_Degraded(t *testing.T) {
	h := New(Deps{Checks: map[string]handlers.Check{
		"db": func(context.Context) error { return errors.New("down") },
	}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db":"unavailable"`)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBlock(t *testing.T) {
	e := newEnv(t)
	rec, body := e.get(t, "/v1/blocks/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text", body["type"])
	assert.Equal(t, "u1", body["uid"])
	assert.Equal(t, "Hola", body["content"].(map[string]any)["heading"])

	rec, body = e.get(t, "/v1/blocks/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	rec, _ = e.get(t, "/v1/blocks/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = e.get(t, "/v1/blocks/1?locale=not%20a%20locale")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["fields"], "locale")
}

func TestBlockLocales(t *testing.T) {
	e := newEnv(t)
	_, body := e.get(t, "/v1/blocks/1/locales")
	assert.Equal(t, []any{"en", "fr"}, body["locales"])

	_, body = e.get(t, "/v1/blocks/2/locales")
	assert.Equal(t, []any{"fr"}, body["locales"], "owner locale pins the block")
}

func TestBlockFields(t *testing.T) {
	e := newEnv(t)
	rec, body := e.get(t, "/v1/fields/1/block-fields")
	require.Equal(t, http.StatusOK, rec.Code)
	fields := body["fields"].([]any)
	require.Len(t, fields, 2)
	first := fields[0].(map[string]any)
	assert.Equal(t, "heading", first["handle"])
	assert.Equal(t, "field_text_heading", first["column"])
	second := fields[1].(map[string]any)
	assert.Equal(t, "field_links_", second["columnPrefix"])
	assert.Equal(t, true, second["relational"])
}

// csrfPost hace primero un GET para obtener cookie y token, y luego el POST.
func (e *env) csrfPost(t *testing.T, target string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec, tok := e.get(t, "/v1/csrf")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", tok["token"].(string))
	req.AddCookie(cookies[0])
	return e.do(t, req)
}

func TestEagerMap(t *testing.T) {
	e := newEnv(t)

	rec, body := e.csrfPost(t, "/v1/blocks/eager-map", map[string]any{"blockIds": []int64{2}, "handle": "links:related"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["applicable"])
	assert.Equal(t, "Entry", body["elementType"])
	assert.Equal(t, []any{float64(200)}, body["targets"])

	_, body = e.csrfPost(t, "/v1/blocks/eager-map", map[string]any{"blockIds": []int64{2}, "handle": "related"})
	assert.Equal(t, false, body["applicable"])
	assert.Equal(t, []any{}, body["map"])

	_, body = e.csrfPost(t, "/v1/blocks/eager-map", map[string]any{"blockIds": []int64{2}, "handle": "nope:related"})
	assert.Equal(t, false, body["applicable"])

	rec, body = e.csrfPost(t, "/v1/blocks/eager-map", map[string]any{"blockIds": []int64{}, "handle": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["fields"], "handle")
	assert.Contains(t, body["fields"], "blockIds")
}

func TestEagerMap_Hydrate(t *testing.T) {
	e := newEnv(t)

	rec, body := e.csrfPost(t, "/v1/blocks/eager-map", map[string]any{
		"blockIds": []int64{1, 2}, "handle": "links:related", "hydrate": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["applicable"])
	children, ok := body["children"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, []any{float64(200)}, children["2"])
	assert.Equal(t, []any{}, children["1"])

	_, body = e.csrfPost(t, "/v1/blocks/eager-map", map[string]any{
		"blockIds": []int64{2}, "handle": "nope:related", "hydrate": true,
	})
	assert.Equal(t, false, body["applicable"])
	assert.NotContains(t, body, "children")
}

func TestBlocksByOwner(t *testing.T) {
	e := newEnv(t)

	rec, body := e.get(t, "/v1/elements/100/blocks?field=1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	blocks := body["blocks"].([]any)
	require.Len(t, blocks, 2)

	first := blocks[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "text", first["type"])
	assert.Equal(t, []any{"en", "fr"}, first["locales"])
	assert.Equal(t, "matrixcontent_body", first["contentTable"])
	assert.Equal(t, "field_text_", first["columnPrefix"])

	second := blocks[1].(map[string]any)
	assert.Equal(t, "links", second["type"])
	assert.Equal(t, []any{"fr"}, second["locales"])

	rec, body = e.get(t, "/v1/elements/100/blocks")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["fields"], "field")

	rec, body = e.get(t, "/v1/elements/555/blocks?field=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["blocks"])
}

func TestEagerMap_RequiresCSRF(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/blocks/eager-map", strings.NewReader(`{"blockIds":[2],"handle":"links:related"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, body := e.do(t, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "INVALID_CSRF_TOKEN", body["code"])
}

func TestEmailPaths(t *testing.T) {
	e := newEnv(t)
	src := filepath.Join(e.root, "foo", "bar.twig")
	rec, body := e.get(t, "/v1/templates/email/paths?source="+src)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, filepath.Join("foo", "bar.twig"), body["relative"])
	assert.Equal(t, e.cacheDir+filepath.Join("foo", "bar.twig"), body["duplicate"])

	rec, body = e.get(t, "/v1/templates/email/paths?source=/etc/passwd")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "TEMPLATE_OUTSIDE_ROOT", body["code"])

	rec, _ = e.get(t, "/v1/templates/email/paths")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestSnapshot_LegacyLogsDeprecation(t *testing.T) {
	e := newEnv(t)
	rec, body := e.get(t, "/v1/request?legacy=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "querystring", body["urlFormat"])
	assert.Equal(t, "192.0.2.1", body["ipAddress"])
	assert.NotEmpty(t, body["csrfToken"])

	_, body = e.get(t, "/v1/deprecations")
	list := body["deprecations"].([]any)
	require.Len(t, list, 1)
	rec0 := list[0].(map[string]any)
	assert.Equal(t, "craft.request.getIpAddress()", rec0["key"])
	assert.Equal(t, "/v1/request", rec0["origin"])
}

func TestUnknownRoute(t *testing.T) {
	e := newEnv(t)
	rec, body := e.get(t, "/v2/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}
