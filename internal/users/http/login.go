package http

import (
	"net/http"

	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/pkg/httpx"
	"github.com/aussiebroadwan/users/pkg/usersdk"
)

// LoginHandler exchanges email and password for an access token.
type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /users/login
//
//	@Summary		Login
//	@Description	Verifies credentials and issues an HS256 access token.
//	@Description	Five consecutive failures lock the account for five minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	usersdk.LoginResponse
//	@Failure		400		{object}	usersdk.ErrorResponse	"validation_error"
//	@Failure		401		{object}	usersdk.ErrorResponse	"invalid_credentials"
//	@Failure		423		{object}	usersdk.ErrorResponse	"account_locked with unlock_at"
//	@Failure		429		{object}	usersdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		500		{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/users/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req usersdk.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, usersdk.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt.UTC(),
		User:      toUser(res.User),
	})
}
