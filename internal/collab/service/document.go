package service

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/blob"
	"github.com/aussiebroadwan/collab/internal/collab/domain"
	"github.com/aussiebroadwan/collab/internal/collab/store"
	"github.com/aussiebroadwan/collab/pkg/idx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/google/uuid"
)

const maxFilenameLen = 255

// Upload is one file as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DocumentService struct {
	Store store.Store
	Guard *Guard
	Blobs blob.Store
	Now   func() time.Time
}

func (s *DocumentService) ListDocuments(ctx context.Context, projectID string, actor domain.User) ([]domain.Document, error) {
	if _, err := s.Guard.RequireRole(ctx, projectID, actor); err != nil {
		return nil, err
	}

	docs, err := s.Store.Documents().ListDocuments(ctx, projectID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list documents", slog.Any("error", err))
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// UploadDocuments stores every blob first and then inserts all rows in one
// transaction. If anything fails, blobs written so far are removed.
func (s *DocumentService) UploadDocuments(ctx context.Context, projectID string, actor domain.User, files []Upload) ([]domain.Document, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Guard.RequireRole(ctx, projectID, actor); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, invalid("no files")
	}

	now := clock(s.Now)
	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		name, err := cleanFilename(f.Filename)
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{
			ID:          idx.NewAt(now).String(),
			ProjectID:   projectID,
			Filename:    name,
			BlobKey:     newBlobKey(projectID, name),
			ContentType: contentType(name, f.ContentType),
			Size:        int64(len(f.Data)),
			UploadedBy:  actor.ID,
			UploadedAt:  now,
		})
	}

	written := make([]string, 0, len(docs))
	cleanup := func() {
		for _, key := range written {
			if err := s.Blobs.Delete(ctx, key); err != nil {
				log.Warn("failed to remove orphaned blob", slog.String("blob_key", key), slog.Any("error", err))
			}
		}
	}

	for i, d := range docs {
		if err := s.Blobs.Put(ctx, d.BlobKey, files[i].Data); err != nil {
			log.Error("failed to store blob", slog.String("blob_key", d.BlobKey), slog.Any("error", err))
			cleanup()
			return nil, err
		}
		written = append(written, d.BlobKey)
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, d := range docs {
			if err := tx.Documents().CreateDocument(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to record documents", slog.Any("error", err))
		cleanup()
		return nil, err
	}

	log.Info("documents uploaded", slog.String("project_id", projectID), slog.Int("count", len(docs)))
	return docs, nil
}

// DownloadDocument returns the document row and its contents.
func (s *DocumentService) DownloadDocument(ctx context.Context, documentID string, actor domain.User) (domain.Document, []byte, error) {
	doc, err := s.authorizeDocument(ctx, documentID, actor)
	if err != nil {
		return domain.Document{}, nil, err
	}

	data, err := s.Blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			slogx.FromContext(ctx).Error("document blob missing", slog.String("document_id", doc.ID))
		}
		return domain.Document{}, nil, err
	}
	return doc, data, nil
}

// ReplaceDocument swaps the file behind documentID. The new blob gets a new
// key; the old one is removed once the row points away from it.
func (s *DocumentService) ReplaceDocument(ctx context.Context, documentID string, actor domain.User, f Upload) (domain.Document, error) {
	log := slogx.FromContext(ctx)

	doc, err := s.authorizeDocument(ctx, documentID, actor)
	if err != nil {
		return domain.Document{}, err
	}

	name, err := cleanFilename(f.Filename)
	if err != nil {
		return domain.Document{}, err
	}

	oldKey := doc.BlobKey
	doc.Filename = name
	doc.BlobKey = newBlobKey(doc.ProjectID, name)
	doc.ContentType = contentType(name, f.ContentType)
	doc.Size = int64(len(f.Data))
	doc.UploadedBy = actor.ID
	doc.UploadedAt = clock(s.Now)

	if err := s.Blobs.Put(ctx, doc.BlobKey, f.Data); err != nil {
		log.Error("failed to store blob", slog.String("blob_key", doc.BlobKey), slog.Any("error", err))
		return domain.Document{}, err
	}

	if err := s.Store.Documents().UpdateDocument(ctx, doc); err != nil {
		if delErr := s.Blobs.Delete(ctx, doc.BlobKey); delErr != nil {
			log.Warn("failed to remove orphaned blob", slog.String("blob_key", doc.BlobKey), slog.Any("error", delErr))
		}
		if errors.Is(err, store.ErrNotFound) {
			return domain.Document{}, ErrDocumentNotFound
		}
		log.Error("failed to update document", slog.Any("error", err))
		return domain.Document{}, err
	}

	if err := s.Blobs.Delete(ctx, oldKey); err != nil {
		log.Warn("failed to remove replaced blob", slog.String("blob_key", oldKey), slog.Any("error", err))
	}

	log.Info("document replaced", slog.String("document_id", doc.ID))
	return doc, nil
}

func (s *DocumentService) DeleteDocument(ctx context.Context, documentID string, actor domain.User) error {
	log := slogx.FromContext(ctx)

	doc, err := s.authorizeDocument(ctx, documentID, actor)
	if err != nil {
		return err
	}

	if err := s.Store.Documents().DeleteDocument(ctx, doc.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		log.Error("failed to delete document", slog.Any("error", err))
		return err
	}

	if err := s.Blobs.Delete(ctx, doc.BlobKey); err != nil {
		log.Warn("failed to delete blob", slog.String("blob_key", doc.BlobKey), slog.Any("error", err))
	}

	log.Info("document deleted", slog.String("document_id", doc.ID))
	return nil
}

// authorizeDocument resolves the document's project and runs the guard on it.
func (s *DocumentService) authorizeDocument(ctx context.Context, documentID string, actor domain.User) (domain.Document, error) {
	doc, err := s.Store.Documents().GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Document{}, ErrDocumentNotFound
		}
		slogx.FromContext(ctx).Error("failed to fetch document", slog.Any("error", err))
		return domain.Document{}, err
	}

	if _, err := s.Guard.RequireRole(ctx, doc.ProjectID, actor); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// cleanFilename drops any directory part the client sent along.
func cleanFilename(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" {
		return "", invalid("filename is required")
	}
	if len(name) > maxFilenameLen {
		return "", invalid("filename is too long")
	}
	return name, nil
}

func newBlobKey(projectID, filename string) string {
	return projectBlobPrefix(projectID) + uuid.NewString() + "-" + filename
}

func contentType(filename, declared string) string {
	if declared != "" {
		return declared
	}
	if ct := mime.TypeByExtension(path.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
