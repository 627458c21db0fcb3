package sqlite

import (
	"context"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite/gen"
)

type membershipsRepo struct {
	q *gen.Queries
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	return mapConstraint(r.q.CreateMembership(ctx, gen.CreateMembershipParams{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role.String(),
		GrantedAt: m.GrantedAt.UTC(),
	}))
}

func (r *membershipsRepo) GetMembership(ctx context.Context, projectID, userID string) (domain.Membership, error) {
	row, err := r.q.GetMembership(ctx, gen.GetMembershipParams{
		ProjectID: projectID,
		UserID:    userID,
	})
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return mapMembership(row), nil
}

func (r *membershipsRepo) ListMembers(ctx context.Context, projectID string) ([]domain.Member, error) {
	rows, err := r.q.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Member{
			Membership: mapMembership(gen.Membership{
				ID:        row.ID,
				ProjectID: row.ProjectID,
				UserID:    row.UserID,
				Role:      row.Role,
				GrantedAt: row.GrantedAt,
			}),
			Login: row.Login,
			Email: mapNullString(row.Email),
		})
	}
	return out, nil
}

func mapMembership(row gen.Membership) domain.Membership {
	return domain.Membership{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		UserID:    row.UserID,
		Role:      domain.Role(row.Role),
		GrantedAt: row.GrantedAt.UTC(),
	}
}
