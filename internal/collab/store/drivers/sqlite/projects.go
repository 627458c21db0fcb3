package sqlite

import (
	"context"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite/gen"
)

type projectsRepo struct {
	q *gen.Queries
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	return mapConstraint(r.q.CreateProject(ctx, gen.CreateProjectParams{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}))
}

func (r *projectsRepo) GetProject(ctx context.Context, id string) (domain.Project, error) {
	row, err := r.q.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return mapProject(row), nil
}

func (r *projectsRepo) ListProjectsForUser(ctx context.Context, userID string) ([]domain.ProjectWithRole, error) {
	rows, err := r.q.ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProjectWithRole, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ProjectWithRole{
			Project: mapProject(gen.Project{
				ID:          row.ID,
				Name:        row.Name,
				Description: row.Description,
				OwnerID:     row.OwnerID,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			}),
			Role: domain.Role(row.Role),
		})
	}
	return out, nil
}

func (r *projectsRepo) UpdateProject(ctx context.Context, p domain.Project) error {
	return requireRow(r.q.UpdateProject(ctx, gen.UpdateProjectParams{
		Name:        p.Name,
		Description: p.Description,
		UpdatedAt:   p.UpdatedAt.UTC(),
		ID:          p.ID,
	}))
}

func (r *projectsRepo) DeleteProject(ctx context.Context, id string) error {
	return requireRow(r.q.DeleteProject(ctx, id))
}

func mapProject(row gen.Project) domain.Project {
	return domain.Project{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		OwnerID:     row.OwnerID,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
