package statement

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, newTestDispatcher(t), logger), repo
}

func TestServiceProcess(t *testing.T) {
	service, repo := newTestService(t)
	owner := uuid.New()
	path := writeTempFile(t, "january.csv",
		"Date,Description,Amount\n"+
			"01/15/2024,Walmart Grocery Shopping,-45.20\n"+
			"01/16/2024,Salary Deposit,2500.00\n")

	st, err := service.Process(context.Background(), owner, Upload{
		Path:             path,
		Filename:         "stored-january.csv",
		OriginalFilename: "january.csv",
	}, ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, st.Status)
	assert.Equal(t, 2, st.TransactionCount)
	assert.Empty(t, st.Error)

	stored, err := repo.GetStatement(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, stored.Status)

	txs, err := service.Transactions(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestServiceProcessUnsupportedFormatStaysPending(t *testing.T) {
	service, repo := newTestService(t)
	owner := uuid.New()
	path := writeTempFile(t, "notes.txt", "not a statement")

	st, err := service.Process(context.Background(), owner, Upload{
		Path:             path,
		Filename:         "stored-notes.txt",
		OriginalFilename: "notes.txt",
	}, ParseOptions{})

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	require.NotNil(t, st)
	assert.Equal(t, StatusPending, st.Status)

	stored, err := repo.GetStatement(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status, "unsupported uploads never enter processing")
}

func TestServiceProcessMissingFileFails(t *testing.T) {
	service, repo := newTestService(t)
	owner := uuid.New()

	st, err := service.Process(context.Background(), owner, Upload{
		Path:             "/nonexistent/statement.csv",
		Filename:         "stored.csv",
		OriginalFilename: "statement.csv",
	}, ParseOptions{})
	require.ErrorIs(t, err, ErrFileNotFound)
	require.NotNil(t, st)
	assert.Equal(t, StatusFailed, st.Status)
	assert.NotEmpty(t, st.Error)

	stored, err := repo.GetStatement(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
}

func TestServiceProcessDuplicateFilename(t *testing.T) {
	service, _ := newTestService(t)
	owner := uuid.New()
	path := writeTempFile(t, "january.csv",
		"Date,Description,Amount\n01/15/2024,Coffee,-4.50\n")

	upload := Upload{Path: path, Filename: "stored.csv", OriginalFilename: "january.csv"}
	_, err := service.Process(context.Background(), owner, upload, ParseOptions{})
	require.NoError(t, err)

	_, err = service.Process(context.Background(), owner, upload, ParseOptions{})
	assert.ErrorIs(t, err, ErrDuplicateStatement)

	// A different owner may reuse the name.
	_, err = service.Process(context.Background(), uuid.New(), upload, ParseOptions{})
	assert.NoError(t, err)
}

func TestServiceStatusUnknownStatement(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Status(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStatementNotFound)
}
