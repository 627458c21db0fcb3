package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite/gen"
)

type invitesRepo struct {
	q *gen.Queries
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.InviteToken) error {
	return mapConstraint(r.q.CreateInvite(ctx, gen.CreateInviteParams{
		ID:        inv.ID,
		Token:     inv.Token,
		ProjectID: inv.ProjectID,
		Email:     inv.Email,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt.UTC(),
		ExpiresAt: inv.ExpiresAt.UTC(),
	}))
}

func (r *invitesRepo) GetInviteByToken(ctx context.Context, token, projectID string) (domain.InviteToken, error) {
	row, err := r.q.GetInviteByToken(ctx, gen.GetInviteByTokenParams{
		Token:     token,
		ProjectID: projectID,
	})
	if err != nil {
		return domain.InviteToken{}, mapNotFound(err)
	}
	return mapInvite(row), nil
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, id, userID string, at time.Time) error {
	return requireRow(r.q.MarkInviteUsed(ctx, gen.MarkInviteUsedParams{
		UsedAt: sql.NullTime{Time: at.UTC(), Valid: true},
		UsedBy: mapStringNull(userID),
		ID:     id,
	}))
}

func (r *invitesRepo) ListPendingForEmail(ctx context.Context, email string, now time.Time) ([]domain.PendingInvite, error) {
	rows, err := r.q.ListPendingInvitesForEmail(ctx, gen.ListPendingInvitesForEmailParams{
		Email:     email,
		ExpiresAt: now.UTC(),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.PendingInvite, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PendingInvite{
			Token:       row.Token,
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			InvitedBy:   row.InvitedBy,
			CreatedAt:   row.CreatedAt.UTC(),
			ExpiresAt:   row.ExpiresAt.UTC(),
		})
	}
	return out, nil
}

func (r *invitesRepo) DeleteStaleInvites(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteStaleInvites(ctx, cutoff.UTC())
}

func mapInvite(row gen.InviteToken) domain.InviteToken {
	return domain.InviteToken{
		ID:        row.ID,
		Token:     row.Token,
		ProjectID: row.ProjectID,
		Email:     row.Email,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
		UsedAt:    mapNullTimePtr(row.UsedAt),
		UsedBy:    mapNullString(row.UsedBy),
	}
}
