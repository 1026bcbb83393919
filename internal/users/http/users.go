package http

import (
	"net/http"

	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/pkg/httpx"
	"github.com/aussiebroadwan/users/pkg/usersdk"
)

// UsersHandler serves the user CRUD endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

// createUserBody mirrors usersdk.CreateUserRequest. Profile fields are
// decoded into domain.ProfilePatch so quantity arrives as a number that
// can be range-checked.
type createUserBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`

	domain.ProfilePatch
}

type updateUserBody struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`

	domain.ProfilePatch
}

// HandleList handles GET /users
//
//	@Summary		List Users
//	@Description	Returns every user, oldest first. Password hashes are never included.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		usersdk.User
//	@Failure		500	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]usersdk.User, len(users))
	for i, u := range users {
		out[i] = toUser(u)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /users
//
//	@Summary		Create User
//	@Description	Registers a user. The password is stored as a bcrypt hash and seeds the password history.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		usersdk.CreateUserRequest	true	"User to create"
//	@Success		201		{object}	usersdk.User
//	@Failure		400		{object}	usersdk.ErrorResponse	"validation_error with fields"
//	@Failure		409		{object}	usersdk.ErrorResponse	"email_taken"
//	@Failure		500		{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.UserService.CreateUser(r.Context(), service.CreateUserInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     domain.Role(body.Role),
		Profile:  body.ProfilePatch,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUser(u))
}

// HandleGet handles GET /users/{id}
//
//	@Summary		Get User
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string	true	"User ID (ULID)"
//	@Success		200	{object}	usersdk.User
//	@Failure		404	{object}	usersdk.ErrorResponse	"not_found"
//	@Failure		500	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleUpdate handles PUT /users/{id}
//
//	@Summary		Update User
//	@Description	Partial update: fields absent from the body are left unchanged.
//	@Description	A new password must not match any of the last three.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID (ULID)"
//	@Param			request	body		usersdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	usersdk.User
//	@Failure		400		{object}	usersdk.ErrorResponse	"validation_error or password_reused"
//	@Failure		404		{object}	usersdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	usersdk.ErrorResponse	"email_taken"
//	@Failure		500		{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var body updateUserBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	in := service.UpdateUserInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Profile:  body.ProfilePatch,
	}
	if body.Role != nil {
		role := domain.Role(*body.Role)
		in.Role = &role
	}

	u, err := h.UserService.UpdateUser(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleDelete handles DELETE /users/{id}
//
//	@Summary		Delete User
//	@Description	Removes the user and returns the deleted record.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string	true	"User ID (ULID)"
//	@Success		200	{object}	usersdk.User
//	@Failure		404	{object}	usersdk.ErrorResponse	"not_found"
//	@Failure		500	{object}	usersdk.ErrorResponse	"error, error_description"
//	@Router			/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandleMe handles GET /users/me
//
//	@Summary		Current User
//	@Description	Returns the user the bearer token was issued to.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string	true	"Bearer access token"
//	@Success		200				{object}	usersdk.User
//	@Failure		401				{object}	usersdk.ErrorResponse	"invalid_token"
//	@Failure		404				{object}	usersdk.ErrorResponse	"not_found"
//	@Router			/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, usersdk.ErrorCodeInvalidToken, "missing bearer token")
		return
	}

	u, err := h.UserService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// toUser is the only path from a stored user to a response body. The hash
// and history stay behind.
func toUser(u domain.User) usersdk.User {
	out := usersdk.User{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Role:                string(u.Role),
		FailedLoginAttempts: u.FailedLoginAttempts,
		CreatedAt:           u.CreatedAt.UTC(),
		UpdatedAt:           u.UpdatedAt.UTC(),
		Profile:             usersdk.Profile(u.Profile),
	}
	if u.LastFailedAttemptAt != nil {
		t := u.LastFailedAttemptAt.UTC()
		out.LastFailedAttemptAt = &t
	}
	if n := len(u.PasswordHistory); n > 0 {
		t := u.PasswordHistory[n-1].ChangedAt.UTC()
		out.PasswordChangedAt = &t
	}
	return out
}
