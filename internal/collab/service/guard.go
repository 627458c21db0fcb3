package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/aussiebroadwan/collab/pkg/tracex"
	"go.opentelemetry.io/otel/attribute"
)

// Guard answers "may this user act on this project". It reads the store on
// every call; there is no cache to go stale.
type Guard struct {
	Store store.Store
}

// RequireRole returns the caller's membership on projectID. With no roles
// listed any membership passes; otherwise the membership's role must be one
// of roles exactly. There is no superuser bypass.
func (g *Guard) RequireRole(ctx context.Context, projectID string, user domain.User, roles ...domain.Role) (domain.Membership, error) {
	_, m, err := g.authorize(ctx, projectID, user, roles...)
	return m, err
}

// authorize is RequireRole that also hands back the project row.
func (g *Guard) authorize(ctx context.Context, projectID string, user domain.User, roles ...domain.Role) (domain.Project, domain.Membership, error) {
	ctx, span := tracex.Start(ctx, "Guard.RequireRole")
	defer span.End()
	span.SetAttributes(
		attribute.String("project.id", projectID),
		attribute.String("user.id", user.ID),
	)

	log := slogx.FromContext(ctx)

	project, err := g.Store.Projects().GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Project{}, domain.Membership{}, ErrProjectNotFound
		}
		log.Error("failed to fetch project", slog.String("project_id", projectID), slog.Any("error", err))
		return domain.Project{}, domain.Membership{}, tracex.RecordError(span, err)
	}

	m, err := g.Store.Memberships().GetMembership(ctx, projectID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("project access denied: not a member", slog.String("project_id", projectID))
			return domain.Project{}, domain.Membership{}, forbidden("no access to this project")
		}
		log.Error("failed to fetch membership", slog.String("project_id", projectID), slog.Any("error", err))
		return domain.Project{}, domain.Membership{}, tracex.RecordError(span, err)
	}

	if len(roles) > 0 && !slices.Contains(roles, m.Role) {
		log.Warn("project access denied: insufficient role",
			slog.String("project_id", projectID),
			slog.String("role", m.Role.String()),
		)
		return domain.Project{}, domain.Membership{}, forbidden("insufficient role")
	}

	span.SetAttributes(attribute.String("membership.role", m.Role.String()))
	return project, m, nil
}
