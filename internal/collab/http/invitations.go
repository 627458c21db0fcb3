package http

import (
	"net/http"

	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/aussiebroadwan/collab/pkg/httpx"
)

type InvitationsHandler struct {
	InviteService *service.InviteService
}

// HandleShare godoc
//
//	@Summary		Share project
//	@Description	Owner only. Issues a single-use invitation bound to an email address and emails the join link.
//	@Description	The link is also returned so it can be passed on by other means.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Project ID"
//	@Param			request	body		collabsdk.ShareRequest	true	"email"
//	@Success		201		{object}	collabsdk.ShareResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id}/share [post].
func (h *InvitationsHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	var req collabsdk.ShareRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	inv, err := h.InviteService.CreateInvite(r.Context(), r.PathValue("id"), req.Email, currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "create invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, collabsdk.ShareResponse{
		Token:     inv.Token,
		JoinLink:  inv.JoinLink,
		ExpiresAt: inv.ExpiresAt,
	})
}

// HandleJoin godoc
//
//	@Summary		Join project
//	@Description	Redeem an invitation. The caller's email must match the one the invitation was sent to.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		collabsdk.JoinRequest	true	"token, project_id"
//	@Success		200		{object}	collabsdk.JoinResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invite_already_used, invite_expired, already_member"
//	@Failure		403		{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/join [post].
func (h *InvitationsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req collabsdk.JoinRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Token == "" || req.ProjectID == "" {
		badRequest(w, "token and project_id are required")
		return
	}

	projectID, err := h.InviteService.RedeemInvite(r.Context(), req.Token, req.ProjectID, currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "redeem invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, collabsdk.JoinResponse{ProjectID: projectID})
}

// HandleListPending godoc
//
//	@Summary		Pending invitations
//	@Description	Unredeemed, unexpired invitations addressed to the caller's email, newest first.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	collabsdk.InvitationResponse
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.InviteService.ListPending(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "list invitations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(pending, toInvitationResponse))
}
