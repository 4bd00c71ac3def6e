// Package storage stores uploaded statement files before processing.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo describes a stored upload.
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storage is a per-owner file store.
type Storage interface {
	Upload(ctx context.Context, owner uuid.UUID, filename, contentType string, r io.Reader) (*FileInfo, error)
	GetReader(ctx context.Context, owner, fileID uuid.UUID) (io.ReadCloser, error)
	GetInfo(ctx context.Context, owner, fileID uuid.UUID) (*FileInfo, error)
	Delete(ctx context.Context, owner, fileID uuid.UUID) error
}
