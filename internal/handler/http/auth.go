package http

import (
	"net/http"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := h.services.AuthService.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeToken(w, r, http.StatusCreated, user, token)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Int64("user_id", user.ID).Msg("user successfully logged in")
	writeToken(w, r, http.StatusOK, user, token)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.PasswordResetService.Start(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	writeEnvelope(w, r, http.StatusOK, models.Envelope{
		Status:  models.StatusSuccess,
		Message: "Token sent to email!",
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := h.services.PasswordResetService.Complete(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeToken(w, r, http.StatusOK, user, token)
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request, current models.User) {
	var req models.UpdatePasswordRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := h.services.AuthService.UpdatePassword(r.Context(), current.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeToken(w, r, http.StatusOK, user, token)
}
