package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/httpx"
	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSONSuccess(r, w, map[string]any{"value": 42})

	resp := testutil.Record(w)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, true, resp.Body["success"])
	assert.Nil(t, resp.Body["meta"])
}

func TestJSONSuccess_IncludesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(httpx.ContextWithRequestID(r.Context(), "req-123"))

	JSONSuccess(r, w, nil)

	resp := testutil.Record(w)
	meta := resp.Body["meta"].(map[string]interface{})
	assert.Equal(t, "req-123", meta["request_id"])
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	JSONError(r, w, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists", []ErrorDetail{
		{Field: "isbn", Message: "isbn must be unique"},
	})

	resp := testutil.Record(w)
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, false, resp.Body["success"])
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_ISBN", errBody["code"])
	details := errBody["details"].([]interface{})
	require.Len(t, details, 1)
}
