package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage keeps uploads on the local filesystem under
// <base>/<owner>/<fileID>/<name>, with a JSON metadata sidecar next to
// each file.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Upload(_ context.Context, owner uuid.UUID, filename, contentType string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()
	name := sanitizeFilename(filename)
	dir := filepath.Join(s.basePath, owner.String(), fileID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	info := &FileInfo{
		ID:          fileID,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Path:        path,
		CreatedAt:   time.Now(),
	}
	if err := s.writeMeta(dir, info); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return info, nil
}

func (s *LocalStorage) GetReader(ctx context.Context, owner, fileID uuid.UUID) (io.ReadCloser, error) {
	info, err := s.GetInfo(ctx, owner, fileID)
	if err != nil {
		return nil, err
	}
	return os.Open(info.Path)
}

func (s *LocalStorage) GetInfo(_ context.Context, owner, fileID uuid.UUID) (*FileInfo, error) {
	dir := filepath.Join(s.basePath, owner.String(), fileID.String())
	data, err := os.ReadFile(filepath.Join(dir, metaFilename))
	if err != nil {
		return nil, fmt.Errorf("upload not found: %w", err)
	}
	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("corrupt upload metadata: %w", err)
	}
	return &info, nil
}

func (s *LocalStorage) Delete(_ context.Context, owner, fileID uuid.UUID) error {
	dir := filepath.Join(s.basePath, owner.String(), fileID.String())
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("upload not found: %w", err)
	}
	return os.RemoveAll(dir)
}

const metaFilename = ".meta"

func (s *LocalStorage) writeMeta(dir string, info *FileInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaFilename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// sanitizeFilename strips path separators and hidden-file prefixes so an
// upload name can never escape its directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimPrefix(name, ".")
	if name == "" || name == ".." {
		name = "upload"
	}
	return name
}
