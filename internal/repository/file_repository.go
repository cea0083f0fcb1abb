package repository

import (
	"context"
	"database/sql"
	"errors"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/util"

	"github.com/jmoiron/sqlx"
)

// ErrFileNotFound : запись файла отсутствует или помечена удалённой
var ErrFileNotFound = errors.New("файл не найден")

type FileRepository struct {
	*config.Database
}

func NewFileRepository(database *config.Database) *FileRepository {
	return &FileRepository{database}
}

// Create : сохраняем метаданные нового файла.
// Запись создаётся один раз при загрузке и дальше не изменяется.
func (r *FileRepository) Create(ctx context.Context, exec sqlx.ExtContext, record *model.FileRecord) error {
	query := `
		INSERT INTO files (uuid, owner_uuid, owner_role, filename_original, mime_detected, size_bytes, sha256, storage_path)
    	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		record.UUID,
		record.OwnerUUID,
		record.OwnerRole,
		record.FilenameOriginal,
		record.MimeDetected,
		record.SizeBytes,
		record.Sha256,
		record.StoragePath)

	return err
}

// GetByUUID : возвращаем живую запись файла по UUID
func (r *FileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.FileRecord, error) {
	query := `
		SELECT uuid, owner_uuid, owner_role, filename_original, mime_detected,
		       size_bytes, sha256, storage_path, created_at, deleted_at
		FROM files
		WHERE uuid = $1 AND deleted_at IS NULL
	`

	var record model.FileRecord
	err := sqlx.GetContext(ctx, exec, &record, query, fileUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, util.LogError("[FileRepo] ошибка выборки файла", err)
	}

	return &record, nil
}

// ListFiles : список доступных файлов (cursor-based pagination)
// cursor хранит created_at последней записи предыдущей выборки
func (r *FileRepository) ListFiles(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]model.FileRecord, error) {
	queryFirst := `
		SELECT uuid, owner_uuid, owner_role, filename_original, mime_detected,
			   size_bytes, sha256, storage_path, created_at, deleted_at
		FROM files
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1
	`
	queryAfter := `
		SELECT uuid, owner_uuid, owner_role, filename_original, mime_detected,
			   size_bytes, sha256, storage_path, created_at, deleted_at
		FROM files
		WHERE deleted_at IS NULL AND created_at < $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	records := []model.FileRecord{}
	var rows *sqlx.Rows
	var err error

	if cursor == "" {
		rows, err = exec.QueryxContext(ctx, queryFirst, limit)
	} else {
		rows, err = exec.QueryxContext(ctx, queryAfter, cursor, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record model.FileRecord
		if err := rows.StructScan(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Delete : только владелец может удалить файл (soft delete)
func (r *FileRepository) Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (string, error) {
	query := `
		UPDATE files
		SET deleted_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND deleted_at IS NULL
		RETURNING storage_path
	`

	var storagePath string
	err := sqlx.GetContext(ctx, exec, &storagePath, query, fileUUID, ownerUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrFileNotFound
		}
		return "", err
	}

	return storagePath, nil
}

func (r *FileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	return tx, func() error { return tx.Rollback() }, func() error { return tx.Commit() }, nil
}
