package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/models"
)

func writeSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeEnvelope(w, r, status, models.Envelope{Status: models.StatusSuccess, Data: data})
}

func writeList(w http.ResponseWriter, r *http.Request, results int, data any) {
	writeEnvelope(w, r, http.StatusOK, models.Envelope{Status: models.StatusSuccess, Results: &results, Data: data})
}

// writeToken answers with a session token in the body and in the
// Authorization header.
func writeToken(w http.ResponseWriter, r *http.Request, status int, user models.User, token models.Token) {
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	writeEnvelope(w, r, status, models.Envelope{
		Status: models.StatusSuccess,
		Token:  token.SignedString,
		Data:   map[string]any{"user": user},
	})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, envelope models.Envelope) {
	if _, err := utils.WriteJSON(w, envelope, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

// readBody reads the request body up to the configured size limit.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(h.limitBody(w, r))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return body, nil
}

// decodeJSON decodes a single JSON object into dst. Unknown fields are
// rejected.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(h.limitBody(w, r))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) io.Reader {
	if h.cfg.MaxBodyBytes <= 0 {
		return r.Body
	}
	return http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
}
