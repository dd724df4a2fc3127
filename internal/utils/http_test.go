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
	type envelope struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}

	tests := []struct {
		name   string
		data   any
		status int
	}{
		{name: "map", data: map[string]string{"status": "success"}, status: http.StatusOK},
		{name: "error status", data: map[string]string{"status": "fail"}, status: http.StatusNotFound},
		{
			name:   "nested envelope",
			data:   envelope{Status: "success", Data: map[string]any{"tour": map[string]any{"name": "The Sea Explorer"}}},
			status: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)
			require.NoError(t, err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, ContentTypeJSON, w.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, w.Body.Len(), n)

			want, _ := json.Marshal(tt.data)
			assert.JSONEq(t, string(want), w.Body.String())
		})
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, ContentTypeJSON, w.Header().Get("Content-Type"))
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Content-Type", ContentTypeJSON)

	WriteNoContent(w, http.StatusNoContent)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.Empty(t, w.Header().Get("Content-Type"))
}
