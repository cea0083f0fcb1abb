package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/repository"
	"secure-file-exchange/internal/security"
	srv "secure-file-exchange/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFileRepository
type MockFileRepository struct{ mock.Mock }

func (m *MockFileRepository) Create(ctx context.Context, exec sqlx.ExtContext, record *model.FileRecord) error {
	args := m.Called(ctx, exec, record)
	return args.Error(0)
}

func (m *MockFileRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, fileUUID string) (*model.FileRecord, error) {
	args := m.Called(ctx, exec, fileUUID)
	if record, ok := args.Get(0).(*model.FileRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileRepository) ListFiles(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]model.FileRecord, error) {
	args := m.Called(ctx, exec, cursor, limit)
	if records, ok := args.Get(0).([]model.FileRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, exec sqlx.ExtContext, fileUUID string, ownerUUID string) (string, error) {
	args := m.Called(ctx, exec, fileUUID, ownerUUID)
	return args.String(0), args.Error(1)
}

func (m *MockFileRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	var exec sqlx.ExtContext
	if e, ok := args.Get(0).(sqlx.ExtContext); ok {
		exec = e
	}
	noop := func() error { return nil }
	return exec, noop, noop, args.Error(1)
}

// MockCacheRepository
type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetFile(ctx context.Context, record *model.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCacheRepository) GetFile(ctx context.Context, uuid string) (*model.FileRecord, error) {
	args := m.Called(ctx, uuid)
	if record, ok := args.Get(0).(*model.FileRecord); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteFile(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

// MockS3Storage
type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockS3Storage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockTokenCodec
type MockTokenCodec struct{ mock.Mock }

func (m *MockTokenCodec) Issue(fileUUID string, validity time.Duration) (string, time.Time, error) {
	args := m.Called(fileUUID, validity)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenCodec) Redeem(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) TokenTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockAccessPolicy
type MockAccessPolicy struct{ mock.Mock }

func (m *MockAccessPolicy) AuthorizeIssue(claims *security.Claims, record *model.FileRecord) bool {
	args := m.Called(claims, record)
	return args.Bool(0)
}

func (m *MockAccessPolicy) AuthorizeRedeem(fileUUID string) bool {
	args := m.Called(fileUUID)
	return args.Bool(0)
}

func newTestDownloadService() (*srv.DownloadService, *MockFileRepository, *MockCacheRepository, *MockS3Storage, *MockTokenCodec, *MockAccessPolicy) {
	fileRepo := new(MockFileRepository)
	cacheRepo := new(MockCacheRepository)
	storage := new(MockS3Storage)
	codec := new(MockTokenCodec)
	policy := new(MockAccessPolicy)
	service := srv.NewDownloadService(fileRepo, cacheRepo, storage, codec, policy, "https://files.example.com")
	return service, fileRepo, cacheRepo, storage, codec, policy
}

func authorizedCtx(userUUID string) context.Context {
	ctx := context.WithValue(context.Background(), "db", &config.Database{})
	return context.WithValue(ctx, security.UserContextKey, &security.Claims{
		UserUUID: userUUID,
		Role:     model.RoleClient,
	})
}

func TestDownloadService_IssueDownload(t *testing.T) {
	record := &model.FileRecord{
		UUID:        "file-123",
		OwnerUUID:   "owner-1",
		StoragePath: "users/owner-1/files/report-abc12345",
	}
	expiresAt := time.Now().Add(time.Minute)

	t.Run("success", func(t *testing.T) {
		service, _, cacheRepo, _, codec, policy := newTestDownloadService()

		cacheRepo.On("GetFile", mock.Anything, "file-123").Return(record, nil)
		policy.On("AuthorizeIssue", mock.Anything, record).Return(true)
		codec.On("Issue", "file-123", time.Duration(0)).Return("signed-token", expiresAt, nil)

		grant, err := service.IssueDownload(authorizedCtx("user-1"), "file-123")

		require.NoError(t, err)
		assert.Equal(t, "https://files.example.com/secure-download/signed-token", grant.URL)
		assert.Equal(t, expiresAt, grant.ExpiresAt)
		codec.AssertExpectations(t)
	})

	t.Run("not authorized", func(t *testing.T) {
		service, _, _, _, _, _ := newTestDownloadService()

		grant, err := service.IssueDownload(context.Background(), "file-123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "не авторизован")
		assert.Nil(t, grant)
	})

	t.Run("denied by policy", func(t *testing.T) {
		service, _, cacheRepo, _, codec, policy := newTestDownloadService()

		cacheRepo.On("GetFile", mock.Anything, "file-123").Return(record, nil)
		policy.On("AuthorizeIssue", mock.Anything, record).Return(false)

		grant, err := service.IssueDownload(authorizedCtx("user-1"), "file-123")

		assert.ErrorIs(t, err, srv.ErrDownloadDenied)
		assert.Nil(t, grant)
		codec.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("file not found", func(t *testing.T) {
		service, fileRepo, cacheRepo, _, _, _ := newTestDownloadService()

		cacheRepo.On("GetFile", mock.Anything, "ghost").Return(nil, nil)
		fileRepo.On("GetByUUID", mock.Anything, mock.Anything, "ghost").Return(nil, repository.ErrFileNotFound)

		grant, err := service.IssueDownload(authorizedCtx("user-1"), "ghost")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "файл не найден")
		assert.Nil(t, grant)
	})
}

func TestDownloadService_RedeemDownload(t *testing.T) {
	record := &model.FileRecord{
		UUID:             "file-123",
		FilenameOriginal: "report.pdf",
		MimeDetected:     "application/pdf",
		StoragePath:      "users/owner-1/files/report-abc12345",
	}

	t.Run("success", func(t *testing.T) {
		service, _, cacheRepo, storage, codec, policy := newTestDownloadService()

		codec.On("Redeem", "valid-token").Return("file-123", nil)
		policy.On("AuthorizeRedeem", "file-123").Return(true)
		cacheRepo.On("GetFile", mock.Anything, "file-123").Return(record, nil)
		storage.On("GetObject", mock.Anything, record.StoragePath).Return([]byte("%PDF-1.4 data"), nil)

		content, err := service.RedeemDownload(context.Background(), "valid-token")

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 data"), content.Data)
		assert.Equal(t, "application/pdf", content.MimeDetected)
		assert.Equal(t, "report.pdf", content.Filename)
		assert.Equal(t, int64(len("%PDF-1.4 data")), content.SizeBytes)
	})

	// наружу и истёкший, и поддельный токен выглядят одинаково
	t.Run("expired token collapses to denial", func(t *testing.T) {
		service, _, _, storage, codec, _ := newTestDownloadService()

		codec.On("Redeem", "expired-token").Return("", security.ErrTokenExpired)

		content, err := service.RedeemDownload(context.Background(), "expired-token")

		assert.ErrorIs(t, err, srv.ErrDownloadDenied)
		assert.Nil(t, content)
		storage.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
	})

	t.Run("invalid token collapses to denial", func(t *testing.T) {
		service, _, _, storage, codec, _ := newTestDownloadService()

		codec.On("Redeem", "tampered-token").Return("", security.ErrTokenInvalid)

		content, err := service.RedeemDownload(context.Background(), "tampered-token")

		assert.ErrorIs(t, err, srv.ErrDownloadDenied)
		assert.Nil(t, content)
		storage.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
	})

	t.Run("denied by policy", func(t *testing.T) {
		service, _, _, _, codec, policy := newTestDownloadService()

		codec.On("Redeem", "valid-token").Return("file-123", nil)
		policy.On("AuthorizeRedeem", "file-123").Return(false)

		content, err := service.RedeemDownload(context.Background(), "valid-token")

		assert.ErrorIs(t, err, srv.ErrDownloadDenied)
		assert.Nil(t, content)
	})

	// запись удалили после выдачи токена
	t.Run("record gone after issue", func(t *testing.T) {
		service, fileRepo, cacheRepo, _, codec, policy := newTestDownloadService()

		codec.On("Redeem", "valid-token").Return("file-123", nil)
		policy.On("AuthorizeRedeem", "file-123").Return(true)
		cacheRepo.On("GetFile", mock.Anything, "file-123").Return(nil, nil)
		fileRepo.On("GetByUUID", mock.Anything, mock.Anything, "file-123").Return(nil, repository.ErrFileNotFound)

		ctx := context.WithValue(context.Background(), "db", &config.Database{})
		content, err := service.RedeemDownload(ctx, "valid-token")

		assert.ErrorIs(t, err, srv.ErrFileGone)
		assert.Nil(t, content)
	})

	// запись есть, объекта в хранилище нет: аномалия целостности
	t.Run("object missing in storage", func(t *testing.T) {
		service, _, cacheRepo, storage, codec, policy := newTestDownloadService()

		codec.On("Redeem", "valid-token").Return("file-123", nil)
		policy.On("AuthorizeRedeem", "file-123").Return(true)
		cacheRepo.On("GetFile", mock.Anything, "file-123").Return(record, nil)
		storage.On("GetObject", mock.Anything, record.StoragePath).Return(nil, srv.ErrObjectNotFound)

		content, err := service.RedeemDownload(context.Background(), "valid-token")

		assert.ErrorIs(t, err, srv.ErrFileGone)
		assert.Nil(t, content)
	})

	t.Run("storage error is not gone", func(t *testing.T) {
		service, _, cacheRepo, storage, codec, policy := newTestDownloadService()

		codec.On("Redeem", "valid-token").Return("file-123", nil)
		policy.On("AuthorizeRedeem", "file-123").Return(true)
		cacheRepo.On("GetFile", mock.Anything, "file-123").Return(record, nil)
		storage.On("GetObject", mock.Anything, record.StoragePath).Return(nil, errors.New("connection refused"))

		content, err := service.RedeemDownload(context.Background(), "valid-token")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, srv.ErrFileGone)
		assert.NotErrorIs(t, err, srv.ErrDownloadDenied)
		assert.Nil(t, content)
	})
}
