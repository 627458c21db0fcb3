package domain

import "time"

type Document struct {
	ID          string
	ProjectID   string
	Filename    string
	BlobKey     string
	ContentType string
	Size        int64
	UploadedBy  string
	UploadedAt  time.Time
}
