package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestReadStrictJSON(t *testing.T) {
	cases := []struct {
		name   string
		ct     string
		body   string
		ok     bool
		status int
	}{
		{"ok", "application/json", `{"handle":"a:b"}`, true, 0},
		{"wrong content type", "text/plain", `{}`, false, http.StatusUnsupportedMediaType},
		{"empty body", "application/json", ``, false, http.StatusBadRequest},
		{"unknown field", "application/json", `{"nope":1}`, false, http.StatusBadRequest},
		{"trailing data", "application/json", `{"handle":"x"}{"handle":"y"}`, false, http.StatusBadRequest},
		{"too large", "application/json", `{"handle":"` + strings.Repeat("x", maxJSONBody) + `"}`, false, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.ct)
			rec := httptest.NewRecorder()
			var dst eagerMapRequest
			ok := readStrictJSON(rec, req, &dst)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.Equal(t, tc.status, rec.Code)
			}
		})
	}
}

func TestIDParam(t *testing.T) {
	r := chi.NewRouter()
	var got int64
	r.Get("/x/{id}", func(w http.ResponseWriter, r *http.Request) {
		if id, ok := idParam(w, r, "id"); ok {
			got = id
			w.WriteHeader(http.StatusNoContent)
		}
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x/42", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), got)

	for _, bad := range []string{"/x/0", "/x/-3", "/x/abc"} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, bad, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}
