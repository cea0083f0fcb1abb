package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/ports"
	"secure-file-exchange/internal/repository"
	"secure-file-exchange/internal/security"
	"secure-file-exchange/internal/util"
)

// Наружу уходят только эти две ошибки. Причина отказа (невалидная подпись,
// истёкший токен, несуществующий файл) фиксируется в логах и клиенту
// не сообщается.
var (
	ErrDownloadDenied = errors.New("доступ запрещён")
	ErrFileGone       = errors.New("файл недоступен")
)

type DownloadService struct {
	fileRepository   ports.FileRepository
	cacheRepository  ports.CacheRepository
	storageInterface ports.S3Storage
	tokenCodec       ports.DownloadTokenCodec
	accessPolicy     ports.DownloadAccessPolicy
	publicBaseURL    string
}

func NewDownloadService(
	fileRepository ports.FileRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	tokenCodec ports.DownloadTokenCodec,
	accessPolicy ports.DownloadAccessPolicy,
	publicBaseURL string,
) *DownloadService {
	return &DownloadService{
		fileRepository:   fileRepository,
		cacheRepository:  cacheRepository,
		storageInterface: storageInterface,
		tokenCodec:       tokenCodec,
		accessPolicy:     accessPolicy,
		publicBaseURL:    publicBaseURL,
	}
}

// IssueDownload : выдаёт ссылку на скачивание файла с ограниченным сроком
// действия. Ссылка содержит подписанный токен и работает без авторизации
// до истечения срока.
func (s *DownloadService) IssueDownload(ctx context.Context, fileUUID string) (*model.DownloadGrant, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims == nil {
		return nil, fmt.Errorf("[DownloadService] пользователь не авторизован")
	}

	record, err := getFileRecord(ctx, s.cacheRepository, s.fileRepository, fileUUID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, fmt.Errorf("[DownloadService] файл не найден")
		}
		return nil, util.LogError("[DownloadService] ошибка получения записи файла", err)
	}

	if !s.accessPolicy.AuthorizeIssue(claims, record) {
		log.Printf("[DownloadService] выдача токена для файла %s отклонена политикой доступа", fileUUID)
		return nil, ErrDownloadDenied
	}

	token, expiresAt, err := s.tokenCodec.Issue(record.UUID, 0)
	if err != nil {
		return nil, util.LogError("[DownloadService] ошибка выпуска токена скачивания", err)
	}

	grant := &model.DownloadGrant{
		URL:       fmt.Sprintf("%s/secure-download/%s", strings.TrimRight(s.publicBaseURL, "/"), token),
		ExpiresAt: expiresAt,
	}

	log.Printf("[DownloadService] выдан токен скачивания для файла %s, истекает %s", fileUUID, expiresAt.Format("2006-01-02T15:04:05Z07:00"))

	return grant, nil
}

// RedeemDownload : погашение токена скачивания.
// Токен предъявительский: кто принёс валидный токен, тот и скачивает,
// личность предъявителя не проверяется. До истечения срока токен можно
// погашать повторно.
func (s *DownloadService) RedeemDownload(ctx context.Context, token string) (*model.FileContent, error) {
	fileUUID, err := s.tokenCodec.Redeem(token)
	if err != nil {
		// различие между "истёк" и "подделка" остаётся только в логах
		if errors.Is(err, security.ErrTokenExpired) {
			log.Printf("[DownloadService] отказ: срок действия токена истёк")
		} else {
			log.Printf("[DownloadService] отказ: токен не прошёл проверку: %v", err)
		}
		return nil, ErrDownloadDenied
	}

	if !s.accessPolicy.AuthorizeRedeem(fileUUID) {
		log.Printf("[DownloadService] отказ: погашение для файла %s отклонено политикой доступа", fileUUID)
		return nil, ErrDownloadDenied
	}

	record, err := getFileRecord(ctx, s.cacheRepository, s.fileRepository, fileUUID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			// файл удалили после выдачи токена
			log.Printf("[DownloadService] токен валиден, но запись файла %s отсутствует", fileUUID)
			return nil, ErrFileGone
		}
		return nil, util.LogError("[DownloadService] ошибка получения записи файла", err)
	}

	data, err := s.storageInterface.GetObject(ctx, record.StoragePath)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			// запись есть, байтов нет. Такого быть не должно, сигнал о
			// нарушении целостности хранилища.
			log.Printf("[DownloadService] аномалия целостности: запись %s есть в БД, объект %s отсутствует в хранилище", fileUUID, record.StoragePath)
			return nil, ErrFileGone
		}
		return nil, util.LogError("[DownloadService] ошибка чтения файла из хранилища", err)
	}

	log.Printf("[DownloadService] файл %s выдан по токену (%d байт)", fileUUID, len(data))

	return &model.FileContent{
		Data:         data,
		MimeDetected: record.MimeDetected,
		Filename:     record.FilenameOriginal,
		SizeBytes:    int64(len(data)),
	}, nil
}
