package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/filetype"
	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/ports"
	"secure-file-exchange/internal/security"
	"secure-file-exchange/internal/util"

	"github.com/google/uuid"
)

type FileService struct {
	fileRepository   ports.FileRepository
	cacheRepository  ports.CacheRepository
	storageInterface ports.S3Storage
	detector         ports.FileTypeDetector
	maxSizeBytes     int64
}

func NewFileService(
	fileRepository ports.FileRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	detector ports.FileTypeDetector,
	maxSizeBytes int64,
) *FileService {
	return &FileService{
		fileRepository:   fileRepository,
		cacheRepository:  cacheRepository,
		storageInterface: storageInterface,
		detector:         detector,
		maxSizeBytes:     maxSizeBytes,
	}
}

// UploadFile : проверяет содержимое файла и сохраняет его.
// Порядок жёсткий: сначала детектор типа, потом хранилище, потом БД.
// Отклонённый файл не оставляет ни записи в БД, ни объекта в S3.
func (s *FileService) UploadFile(ctx context.Context, declaredName string, data []byte) (*model.FileRecord, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("[FileService] пользователь не авторизован")
	}

	if claims.IsAdmin == false && claims.Role != model.RoleOperation {
		return nil, fmt.Errorf("[FileService] доступ запрещён: загрузка доступна только операционным пользователям")
	}

	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return nil, fmt.Errorf("[FileService] файл превышает максимальный размер")
	}

	// Тип определяется по байтам, заявленное имя файла только справочное.
	// В ошибке определённый тип не сообщается, чтобы не давать оракул для
	// подбора сигнатур.
	mimeDetected, err := s.detector.Classify(data)
	if err != nil {
		if errors.Is(err, filetype.ErrUnsupportedType) {
			log.Printf("[FileService] загрузка %q отклонена: тип содержимого не входит в allow-list", declaredName)
			return nil, fmt.Errorf("[FileService] %w", filetype.ErrUnsupportedType)
		}
		return nil, util.LogError("[FileService] ошибка определения типа файла", err)
	}

	hash := sha256.Sum256(data)

	record := &model.FileRecord{
		UUID:             uuid.New().String(),
		OwnerUUID:        claims.UserUUID,
		OwnerRole:        claims.Role,
		FilenameOriginal: declaredName,
		MimeDetected:     mimeDetected,
		SizeBytes:        int64(len(data)),
		Sha256:           hex.EncodeToString(hash[:]),
		CreatedAt:        time.Now(),
	}
	record.StoragePath = buildStoragePath(claims.UserUUID, declaredName, record.UUID)

	if err := s.storageInterface.PutObject(ctx, record.StoragePath, data, mimeDetected); err != nil {
		return nil, util.LogError("[FileService] не удалось записать файл в хранилище", err)
	}

	if err := s.fileRepository.Create(ctx, db, record); err != nil {
		// запись метаданных не удалась, убираем объект, чтобы не оставлять сирот
		if delErr := s.storageInterface.DeleteObject(ctx, record.StoragePath); delErr != nil {
			log.Printf("[FileService] не удалось удалить объект после ошибки БД: %v", delErr)
		}
		return nil, util.LogError("[FileService] не удалось сохранить запись файла в БД", err)
	}

	if err := s.cacheRepository.SetFile(ctx, record); err != nil {
		log.Printf("[FileService] ошибка кэширования записи файла: %v", err)
	}

	log.Printf("[FileService] файл %s успешно загружен (%s, %d байт)", record.UUID, mimeDetected, record.SizeBytes)

	return record, nil
}

// buildStoragePath : непрозрачный ключ хранилища.
// Расширение заявленного имени в ключ не попадает.
func buildStoragePath(ownerUUID string, declaredName string, fileUUID string) string {
	name := declaredName
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return fmt.Sprintf("users/%s/files/%s-%s", ownerUUID, url.PathEscape(name), fileUUID[:8])
}

// GetFile : возвращает запись файла для авторизованного пользователя
func (s *FileService) GetFile(ctx context.Context, fileUUID string) (*model.FileRecord, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("[FileService] пользователь не авторизован")
	}

	record, err := getFileRecord(ctx, s.cacheRepository, s.fileRepository, fileUUID)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListFiles : список доступных файлов (обе роли видят живые записи)
func (s *FileService) ListFiles(ctx context.Context, cursor string, limit int) ([]model.FileRecord, string, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, "", fmt.Errorf("[FileService] database connection не найден в context")
	}

	records, err := s.fileRepository.ListFiles(ctx, db, cursor, limit)
	if err != nil {
		return nil, "", util.LogError("[FileService] не удалось получить список файлов", err)
	}

	var nextCursor string
	if len(records) == limit {
		nextCursor = records[len(records)-1].CreatedAt.Format("2006-01-02T15:04:05.999999Z07:00")
	}

	return records, nextCursor, nil
}

// DeleteFile помечает файл удалённым, инвалидирует кэш и удаляет объект из S3
func (s *FileService) DeleteFile(ctx context.Context, fileUUID string) (map[string]bool, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("[FileService] пользователь не авторизован")
	}

	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[FileService] ошибка начала транзакции", err)
	}
	defer rollback()

	storagePath, err := s.fileRepository.Delete(ctx, exec, fileUUID, claims.UserUUID)
	if err != nil {
		return nil, util.LogError("[FileService] файл не найден или вы не являетесь владельцем", err)
	}

	if err := commit(); err != nil {
		return nil, fmt.Errorf("[FileService] ошибка коммита транзакции: %w", err)
	}

	if err := s.cacheRepository.DeleteFile(ctx, fileUUID); err != nil {
		log.Printf("[FileService] ошибка удаления из кэша: %v", err)
	}

	if err := s.storageInterface.DeleteObject(ctx, storagePath); err != nil {
		return nil, util.LogError("[FileService] ошибка удаления файла из S3", err)
	}

	log.Printf("[FileService] файл %s успешно удален", fileUUID)

	return map[string]bool{fileUUID: true}, nil
}

// getFileRecord : запись файла из кэша или БД (с заполнением кэша)
func getFileRecord(ctx context.Context, cache ports.CacheRepository, repo ports.FileRepository, fileUUID string) (*model.FileRecord, error) {
	record, err := cache.GetFile(ctx, fileUUID)
	if err != nil {
		log.Printf("[FileService] ошибка чтения кэша: %v", err)
	}
	if record != nil {
		return record, nil
	}

	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[FileService] database connection не найден в context")
	}

	record, err = repo.GetByUUID(ctx, db, fileUUID)
	if err != nil {
		return nil, err
	}

	if err := cache.SetFile(ctx, record); err != nil {
		log.Printf("[FileService] ошибка кэширования записи файла: %v", err)
	}

	return record, nil
}
