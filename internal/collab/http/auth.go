package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/aussiebroadwan/collab/pkg/httpx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
)

type AuthHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Create an account. The email is optional but required to receive and redeem invitations.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.RegisterRequest	true	"login, password, email"
//	@Success		201		{object}	collabsdk.UserResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Failure		409		{object}	collabsdk.ErrorResponse	"login_taken, email_taken"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req collabsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	u, err := h.UserService.Register(r.Context(), req.Login, req.Password, req.Email)
	if err != nil {
		writeServiceError(w, r, err, "register user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Exchange a login and password for a bearer access token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		collabsdk.LoginRequest	true	"login, password"
//	@Success		200		{object}	collabsdk.TokenResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	collabsdk.ErrorResponse	"invalid_credentials"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req collabsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Login == "" || req.Password == "" {
		badRequest(w, "login and password are required")
		return
	}

	u, err := h.UserService.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "authenticate")
		return
	}

	tok, err := h.TokenService.IssueAccessToken(u)
	if err != nil {
		writeServiceError(w, r, err, "issue access token")
		return
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusOK, collabsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(tok.ExpiresAt).Seconds()),
	})
}

// HandleMe godoc
//
//	@Summary		Current user
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	collabsdk.UserResponse
//	@Failure		401	{object}	collabsdk.ErrorResponse	"unauthorized"
//	@Router			/v1/users/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(currentUser(r)))
}
