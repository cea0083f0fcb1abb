package ports

import (
	"context"

	"secure-file-exchange/internal/model"

	"github.com/jmoiron/sqlx"
)

// FileRepository : SQL слой метаданных файлов
type FileRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, record *model.FileRecord) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.FileRecord, error)
	ListFiles(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]model.FileRecord, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type FileService interface {
	UploadFile(ctx context.Context, declaredName string, data []byte) (*model.FileRecord, error)
	GetFile(ctx context.Context, fileUUID string) (*model.FileRecord, error)
	ListFiles(ctx context.Context, cursor string, limit int) ([]model.FileRecord, string, error)
	DeleteFile(ctx context.Context, fileUUID string) (map[string]bool, error)
}

// FileTypeDetector : определение MIME-типа по содержимому файла
type FileTypeDetector interface {
	Classify(data []byte) (string, error)
}
