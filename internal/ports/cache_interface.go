package ports

import (
	"context"

	"secure-file-exchange/internal/model"
)

// CacheRepository : Redis слой
type CacheRepository interface {
	SetFile(ctx context.Context, record *model.FileRecord) error
	GetFile(ctx context.Context, uuid string) (*model.FileRecord, error)
	DeleteFile(ctx context.Context, uuid string) error
}
