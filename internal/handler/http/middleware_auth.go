// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-tours/internal/logger"
	"github.com/MKhiriev/go-tours/internal/service"
	"github.com/MKhiriev/go-tours/internal/utils"
	"github.com/MKhiriev/go-tours/models"
	"github.com/rs/zerolog"
)

// protect authenticates the bearer token of the request and stores the
// resolved user in the request context. Requests without a valid token for
// an active user are answered with 401.
func (h *Handler) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenString, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, service.ErrNotLoggedIn)
			return
		}

		user, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			writeError(w, r, err)
			return
		}

		log := logger.FromContext(ctx)
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", user.ID)
		})

		ctx = utils.WithIdentity(log.WithContext(ctx), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restrictTo lets a request through only when the authenticated user holds
// one of roles. It must run after protect.
func (h *Handler) restrictTo(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				writeError(w, r, service.ErrNotLoggedIn)
				return
			}

			if err := service.RequireRole(*user, roles...); err != nil {
				writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// identityHandlerFunc is a handler that receives the authenticated user as
// an argument.
type identityHandlerFunc func(w http.ResponseWriter, r *http.Request, user models.User)

// withIdentity adapts fn to an http.HandlerFunc. It must run after protect.
func withIdentity(fn identityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := utils.GetIdentityFromContext(r.Context())
		if !ok {
			writeError(w, r, service.ErrNotLoggedIn)
			return
		}
		fn(w, r, *user)
	}
}
