package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_BuildsClassifiedError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := RegistryError("registry load failed").
		WithCause(cause).
		WithContext("path", "routes.yaml").
		Build()

	require.Equal(t, CategoryRegistry, err.Category())
	require.Equal(t, SeverityError, err.Severity())
	require.ErrorIs(t, err, cause)
	require.Equal(t, "[registry:error] registry load failed: disk full", err.Error())
	v, ok := err.Context().Get("path")
	require.True(t, ok)
	require.Equal(t, "routes.yaml", v)
}

func TestWithContext_DoesNotMutateOriginal(t *testing.T) {
	base := ValidationError("bad").Build()
	extended := base.WithContext("field", "path")

	_, ok := base.Context().Get("field")
	require.False(t, ok)
	_, ok = extended.Context().Get("field")
	require.True(t, ok)
}

func TestAsClassified_FindsWrapped(t *testing.T) {
	inner := NotFoundError("missing").Build()
	wrapped := fmt.Errorf("outer: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	require.Same(t, inner, got)
	require.True(t, HasCategory(wrapped, CategoryNotFound))
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestHTTPErrorAdapter_StatusCodes(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	cases := map[ErrorCategory]int{
		CategoryValidation: http.StatusBadRequest,
		CategoryConfig:     http.StatusBadRequest,
		CategoryNotFound:   http.StatusNotFound,
		CategoryRegistry:   http.StatusServiceUnavailable,
		CategoryGenerator:  http.StatusUnprocessableEntity,
		CategoryInternal:   http.StatusInternalServerError,
	}
	for cat, want := range cases {
		require.Equal(t, want, a.StatusCodeFor(NewError(cat, "x").Build()), "category %s", cat)
	}
	require.Equal(t, http.StatusInternalServerError, a.StatusCodeFor(stderrors.New("plain")))
	require.Equal(t, http.StatusOK, a.StatusCodeFor(nil))
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/versions/x/adjacent", nil)

	a.WriteErrorResponse(rec, req, ValidationError("path query parameter required").
		WithContext("parameter", "path").Build())

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "path query parameter required", body.Error)
	require.Equal(t, "validation", body.Code)
	require.Equal(t, "path", body.Details["parameter"])
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)
	require.Equal(t, 0, a.ExitCodeFor(nil))
	require.Equal(t, 1, a.ExitCodeFor(stderrors.New("plain")))
	require.Equal(t, 7, a.ExitCodeFor(ConfigError("bad config").Build()))
	require.Equal(t, 11, a.ExitCodeFor(GeneratorError("scan failed").Build()))
	require.Equal(t, "Error: scan failed", a.FormatError(GeneratorError("scan failed").Build()))
}
