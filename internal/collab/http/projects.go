package http

import (
	"net/http"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
	"github.com/aussiebroadwan/collab/pkg/httpx"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

// HandleCreate godoc
//
//	@Summary		Create project
//	@Description	Create a project. The caller becomes its owner.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		collabsdk.CreateProjectRequest	true	"name, description"
//	@Success		201		{object}	collabsdk.ProjectResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Router			/v1/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req collabsdk.CreateProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	p, err := h.ProjectService.CreateProject(r.Context(), currentUser(r), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err, "create project")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(p, domain.RoleOwner))
}

// HandleList godoc
//
//	@Summary		List projects
//	@Description	Projects the caller is a member of, newest first, with the caller's role.
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	collabsdk.ProjectResponse
//	@Router			/v1/projects [get].
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ProjectService.ListProjects(r.Context(), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "list projects")
		return
	}

	out := make([]collabsdk.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p.Project, p.Role))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Get project
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	collabsdk.ProjectResponse
//	@Failure		403	{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id} [get].
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProjectService.GetProject(r.Context(), r.PathValue("id"), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "get project")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p.Project, p.Role))
}

// HandleUpdate godoc
//
//	@Summary		Update project
//	@Description	Partial update of name and description. Any member may call it.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Project ID"
//	@Param			request	body		collabsdk.UpdateProjectRequest	true	"name, description"
//	@Success		200		{object}	collabsdk.ProjectResponse
//	@Failure		400		{object}	collabsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id} [patch].
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req collabsdk.UpdateProjectRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	actor := currentUser(r)
	p, err := h.ProjectService.UpdateProject(r.Context(), r.PathValue("id"), actor, service.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err, "update project")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p, ""))
}

// HandleDelete godoc
//
//	@Summary		Delete project
//	@Description	Owner only. Removes memberships, invitations and documents with it.
//	@Tags			Projects
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Project ID"
//	@Success		204
//	@Failure		403	{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id} [delete].
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProjectService.DeleteProject(r.Context(), r.PathValue("id"), currentUser(r)); err != nil {
		writeServiceError(w, r, err, "delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMembers godoc
//
//	@Summary		List members
//	@Tags			Members
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Project ID"
//	@Success		200	{array}	collabsdk.MemberResponse
//	@Failure		403	{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	collabsdk.ErrorResponse	"not_found"
//	@Router			/v1/projects/{id}/members [get].
func (h *ProjectsHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.ProjectService.ListMembers(r.Context(), r.PathValue("id"), currentUser(r))
	if err != nil {
		writeServiceError(w, r, err, "list members")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapSlice(members, toMemberResponse))
}

// HandleAddMember godoc
//
//	@Summary		Add member
//	@Description	Owner only. Grants an existing account participant access without an invitation.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Project ID"
//	@Param			request	body		collabsdk.AddMemberRequest	true	"login"
//	@Success		201		{object}	collabsdk.MemberResponse
//	@Failure		403		{object}	collabsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	collabsdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	collabsdk.ErrorResponse	"duplicate_membership"
//	@Router			/v1/projects/{id}/members [post].
func (h *ProjectsHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	var req collabsdk.AddMemberRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	m, err := h.ProjectService.InviteUser(r.Context(), r.PathValue("id"), currentUser(r), req.Login)
	if err != nil {
		writeServiceError(w, r, err, "add member")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, collabsdk.MemberResponse{
		UserID:    m.UserID,
		Login:     req.Login,
		Role:      m.Role.String(),
		GrantedAt: m.GrantedAt,
	})
}
