package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellocms/internal/domain/repository"
	"github.com/dropDatabas3/hellocms/internal/templating"
	"github.com/dropDatabas3/hellocms/internal/validation"
	"github.com/dropDatabas3/hellocms/internal/web/csrf"
)

func TestFromError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("block 9: %w", repository.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{repository.ErrConflict, http.StatusConflict, "CONFLICT"},
		{repository.ErrInvalidInput, http.StatusBadRequest, "BAD_REQUEST"},
		{repository.ErrNoDatabase, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{templating.ErrOutsideRoot, http.StatusUnprocessableEntity, "TEMPLATE_OUTSIDE_ROOT"},
		{csrf.ErrNonceMismatch, http.StatusForbidden, "INVALID_CSRF_TOKEN"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{ErrInvalidJSON, http.StatusBadRequest, "INVALID_JSON"},
	}
	for _, tc := range cases {
		got := FromError(tc.err)
		assert.Equal(t, tc.status, got.HTTPStatus, tc.err.Error())
		assert.Equal(t, tc.code, got.Code, tc.err.Error())
	}
}

func TestFromError_DoesNotMutateBase(t *testing.T) {
	_ = FromError(repository.ErrNotFound)
	assert.Nil(t, ErrNotFound.Err)
}

func TestWriteError_ValidationFields(t *testing.T) {
	var verrs validation.Errors
	verrs.Add("locale", "Locale is invalid.")

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "rid-1")
	WriteError(rec, verrs.Err())

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Equal(t, []string{"Locale is invalid."}, body.Fields["locale"])
	assert.Equal(t, "rid-1", body.RequestID)
}
