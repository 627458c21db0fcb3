package http

import (
	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/pkg/collabsdk"
)

func toUserResponse(u domain.User) collabsdk.UserResponse {
	return collabsdk.UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toProjectResponse(p domain.Project, role domain.Role) collabsdk.ProjectResponse {
	return collabsdk.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Role:        role.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toMemberResponse(m domain.Member) collabsdk.MemberResponse {
	return collabsdk.MemberResponse{
		UserID:    m.UserID,
		Login:     m.Login,
		Email:     m.Email,
		Role:      m.Role.String(),
		GrantedAt: m.GrantedAt,
	}
}

func toInvitationResponse(p domain.PendingInvite) collabsdk.InvitationResponse {
	return collabsdk.InvitationResponse{
		Token:       p.Token,
		ProjectID:   p.ProjectID,
		ProjectName: p.ProjectName,
		InvitedBy:   p.InvitedBy,
		CreatedAt:   p.CreatedAt,
		ExpiresAt:   p.ExpiresAt,
	}
}

func toDocumentResponse(d domain.Document) collabsdk.DocumentResponse {
	return collabsdk.DocumentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
