package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	owner := uuid.New()

	info, err := store.Upload(ctx, owner, "january.csv", "text/csv", strings.NewReader("Date,Description,Amount\n"))
	require.NoError(t, err)
	assert.Equal(t, "january.csv", info.Name)
	assert.Equal(t, int64(24), info.Size)

	got, err := store.GetInfo(ctx, owner, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
	assert.Equal(t, "text/csv", got.ContentType)

	r, err := store.GetReader(ctx, owner, info.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "Date,Description,Amount\n", string(data))

	require.NoError(t, store.Delete(ctx, owner, info.ID))
	_, err = store.GetInfo(ctx, owner, info.ID)
	assert.Error(t, err)
}

func TestLocalStorageIsolatesOwners(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Upload(ctx, uuid.New(), "shared.csv", "text/csv", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = store.GetInfo(ctx, uuid.New(), info.ID)
	assert.Error(t, err, "another owner cannot read the upload")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"january.csv", "january.csv"},
		{"../../etc/passwd", "passwd"},
		{".hidden", "hidden"},
		{"", "upload"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
