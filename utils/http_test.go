package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := WriteJSON(rec, http.StatusTeapot, map[string]string{"k": "v"})
		require.NoError(t, err)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"k":"v"}`, rec.Body.String())
	})

	t.Run("nil data writes no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteJSON(rec, http.StatusNoContent, nil))
		assert.Empty(t, rec.Body.String())
	})
}

func TestResponseHelpers(t *testing.T) {
	t.Run("WriteOK wraps data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteOK(rec, "hello"))

		var body SuccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello", body.Data)
	})

	t.Run("WriteBadRequest carries details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteBadRequest(rec, "bad input", map[string]interface{}{"field": "zoom"}))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", body.Error)
		assert.Equal(t, "zoom", body.Details["field"])
	})

	t.Run("WriteNotFound default message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteNotFound(rec, ""))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Resource not found", body.Message)
	})

	t.Run("WriteBadGateway", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteBadGateway(rec, "tile fetch failed"))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("WriteInternalServerError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, WriteInternalServerError(rec, ""))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
