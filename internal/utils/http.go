package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentTypeJSON is the media type of every JSON body the API writes.
const ContentTypeJSON = "application/json; charset=utf-8"

// WriteJSON encodes data and writes it with statusCode. Nothing is sent
// until encoding succeeds, so a failure still leaves room for a plain 500.
//
// Returns the number of body bytes written.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return 0, fmt.Errorf("error encoding response body: %w", err)
	}
	body = append(body, '\n')

	header := w.Header()
	header.Set("Content-Type", ContentTypeJSON)
	header.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	return w.Write(body)
}

// WriteNoContent writes statusCode with no body and no content headers.
func WriteNoContent(w http.ResponseWriter, statusCode int) {
	w.Header().Del("Content-Type")
	w.Header().Del("Content-Length")
	w.WriteHeader(statusCode)
}
