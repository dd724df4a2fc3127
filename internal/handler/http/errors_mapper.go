package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/MKhiriev/go-tours/internal/store"
	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/MKhiriev/go-tours/models"
)

// errorMapping binds an error to a status. An empty message means the
// text of the matched error is shown.
type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	{target: validators.ErrValidation, status: http.StatusBadRequest},
	{target: ErrInvalidJSON, status: http.StatusBadRequest},
	{target: service.ErrInvalidOrExpiredResetToken, status: http.StatusBadRequest},

	{target: service.ErrNotLoggedIn, status: http.StatusUnauthorized},
	{target: service.ErrTokenIsExpiredOrInvalid, status: http.StatusUnauthorized},
	{target: service.ErrUserNoLongerExists, status: http.StatusUnauthorized},
	{target: service.ErrPasswordChanged, status: http.StatusUnauthorized},
	{target: service.ErrIncorrectCredentials, status: http.StatusUnauthorized},
	{target: service.ErrIncorrectCurrentPassword, status: http.StatusUnauthorized},

	{target: service.ErrForbidden, status: http.StatusForbidden},
	{target: service.ErrNotFound, status: http.StatusNotFound},
	{target: store.ErrDuplicateKey, status: http.StatusConflict, message: duplicateKeyMessage},
	{target: ErrBodyTooLarge, status: http.StatusRequestEntityTooLarge},
	{target: ErrTooManyRequests, status: http.StatusTooManyRequests},

	// delivery failures keep their message but stay server errors
	{target: service.ErrNotification, status: http.StatusInternalServerError, message: service.ErrNotification.Error()},
}

// statusFromError returns the HTTP status of err and the message to show.
func statusFromError(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		err = ErrBodyTooLarge
	}

	var unmatched *routeNotFoundError
	if errors.As(err, &unmatched) {
		return http.StatusNotFound, unmatched.Error()
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.message != "" {
			return m.status, m.message
		}
		return m.status, clientMessage(err, m.target)
	}
	return http.StatusInternalServerError, genericErrorMessage
}

func clientMessage(err, target error) string {
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return target.Error()
}

// writeError is the single error boundary of the API. Client errors are
// answered with status "fail", server errors with "error" and a redacted
// message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status, message := statusFromError(err)
	envelope := models.Envelope{Status: models.StatusFail, Message: message}

	if status >= http.StatusInternalServerError {
		envelope.Status = models.StatusError
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		envelope.Data = map[string]any{"errors": verr.Fields}
	}

	if _, writeErr := utils.WriteJSON(w, envelope, status); writeErr != nil {
		log.Err(writeErr).Msg("error writing error response")
	}
}
