package http

import (
	"net/http"

	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/models"
)

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request, current models.User) {
	user, err := h.services.UserService.Me(r.Context(), current.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request, current models.User) {
	body, err := h.readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.UpdateMe(r.Context(), current.ID, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request, current models.User) {
	if err := h.services.UserService.DeleteMe(r.Context(), current.ID); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteNoContent(w, http.StatusNoContent)
}
