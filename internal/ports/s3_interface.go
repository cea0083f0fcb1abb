package ports

import "context"

// S3Storage : файловое хранилище.
// После успешного PutObject объект считается durable: чтение по тому же
// ключу обязано видеть записанные байты (read-after-write).
type S3Storage interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
}
