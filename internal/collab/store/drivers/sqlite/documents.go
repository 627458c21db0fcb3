package sqlite

import (
	"context"

	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite/gen"
)

type documentsRepo struct {
	q *gen.Queries
}

func (r *documentsRepo) CreateDocument(ctx context.Context, d domain.Document) error {
	return mapConstraint(r.q.CreateDocument(ctx, gen.CreateDocumentParams{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Filename:    d.Filename,
		BlobKey:     d.BlobKey,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt.UTC(),
	}))
}

func (r *documentsRepo) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	row, err := r.q.GetDocument(ctx, id)
	if err != nil {
		return domain.Document{}, mapNotFound(err)
	}
	return mapDocument(row), nil
}

func (r *documentsRepo) ListDocuments(ctx context.Context, projectID string) ([]domain.Document, error) {
	rows, err := r.q.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapDocument(row))
	}
	return out, nil
}

func (r *documentsRepo) UpdateDocument(ctx context.Context, d domain.Document) error {
	n, err := r.q.UpdateDocument(ctx, gen.UpdateDocumentParams{
		Filename:    d.Filename,
		BlobKey:     d.BlobKey,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt.UTC(),
		ID:          d.ID,
	})
	return requireRow(n, mapConstraint(err))
}

func (r *documentsRepo) DeleteDocument(ctx context.Context, id string) error {
	return requireRow(r.q.DeleteDocument(ctx, id))
}

func mapDocument(row gen.Document) domain.Document {
	return domain.Document{
		ID:          row.ID,
		ProjectID:   row.ProjectID,
		Filename:    row.Filename,
		BlobKey:     row.BlobKey,
		ContentType: row.ContentType,
		Size:        row.Size,
		UploadedBy:  row.UploadedBy,
		UploadedAt:  row.UploadedAt.UTC(),
	}
}
