package repository_test

import (
	"context"
	"testing"
	"time"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return &config.Database{DB: sqlxDB}, mock
}

func fileColumns() []string {
	return []string{
		"uuid", "owner_uuid", "owner_role", "filename_original", "mime_detected",
		"size_bytes", "sha256", "storage_path", "created_at", "deleted_at",
	}
}

func TestFileRepository_Create(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewFileRepository(database)

	record := &model.FileRecord{
		UUID:             "file-123",
		OwnerUUID:        "user-1",
		OwnerRole:        model.RoleOperation,
		FilenameOriginal: "report.pdf",
		MimeDetected:     "application/pdf",
		SizeBytes:        1024,
		Sha256:           "abc123",
		StoragePath:      "users/user-1/files/report-abc12345",
	}

	dbMock.ExpectExec("INSERT INTO files").
		WithArgs(record.UUID, record.OwnerUUID, record.OwnerRole, record.FilenameOriginal,
			record.MimeDetected, record.SizeBytes, record.Sha256, record.StoragePath).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), database, record)

	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestFileRepository_GetByUUID(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewFileRepository(database)

	t.Run("found", func(t *testing.T) {
		createdAt := time.Now()
		rows := sqlmock.NewRows(fileColumns()).AddRow(
			"file-123", "user-1", "operation", "report.pdf", "application/pdf",
			int64(1024), "abc123", "users/user-1/files/report-abc12345", createdAt, nil,
		)

		dbMock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs("file-123").
			WillReturnRows(rows)

		record, err := repo.GetByUUID(context.Background(), database, "file-123")

		require.NoError(t, err)
		assert.Equal(t, "file-123", record.UUID)
		assert.Equal(t, model.RoleOperation, record.OwnerRole)
		assert.Equal(t, "application/pdf", record.MimeDetected)
		assert.Nil(t, record.DeletedAt)
	})

	t.Run("not found", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(fileColumns()))

		record, err := repo.GetByUUID(context.Background(), database, "ghost")

		assert.ErrorIs(t, err, repository.ErrFileNotFound)
		assert.Nil(t, record)
	})
}

func TestFileRepository_ListFiles(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewFileRepository(database)

	t.Run("first page", func(t *testing.T) {
		rows := sqlmock.NewRows(fileColumns()).
			AddRow("file-1", "user-1", "operation", "a.pdf", "application/pdf",
				int64(10), "h1", "p1", time.Now(), nil).
			AddRow("file-2", "user-1", "operation", "b.pdf", "application/pdf",
				int64(20), "h2", "p2", time.Now().Add(-time.Minute), nil)

		dbMock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs(2).
			WillReturnRows(rows)

		records, err := repo.ListFiles(context.Background(), database, "", 2)

		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "file-1", records[0].UUID)
	})

	t.Run("after cursor", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT (.+) FROM files").
			WithArgs("2025-08-23T12:34:56Z", 2).
			WillReturnRows(sqlmock.NewRows(fileColumns()))

		records, err := repo.ListFiles(context.Background(), database, "2025-08-23T12:34:56Z", 2)

		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestFileRepository_Delete(t *testing.T) {
	database, dbMock := newMockDatabase(t)
	repo := repository.NewFileRepository(database)

	t.Run("owner deletes", func(t *testing.T) {
		dbMock.ExpectQuery("UPDATE files").
			WithArgs("file-123", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow("users/user-1/files/report-abc12345"))

		storagePath, err := repo.Delete(context.Background(), database, "file-123", "user-1")

		require.NoError(t, err)
		assert.Equal(t, "users/user-1/files/report-abc12345", storagePath)
	})

	t.Run("not owner", func(t *testing.T) {
		dbMock.ExpectQuery("UPDATE files").
			WithArgs("file-123", "stranger").
			WillReturnRows(sqlmock.NewRows([]string{"storage_path"}))

		storagePath, err := repo.Delete(context.Background(), database, "file-123", "stranger")

		assert.ErrorIs(t, err, repository.ErrFileNotFound)
		assert.Empty(t, storagePath)
	})
}
