package security

import (
	"errors"
	"time"

	"secure-file-exchange/config"
	"secure-file-exchange/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLeeway : фиксированный допуск на рассинхронизацию часов при проверке
// срока действия токена. Применяется только при погашении.
const TokenLeeway = 5 * time.Second

const downloadTokenIssuer = "Secure-file-exchange/download"

// Внутренние ошибки кодека. Наружу обе отдаются одинаковым отказом,
// чтобы по ответу нельзя было отличить битую подпись от истёкшего срока.
// Различие нужно только для диагностики в логах.
var (
	ErrTokenInvalid = errors.New("токен не прошёл проверку")
	ErrTokenExpired = errors.New("срок действия токена истёк")
)

// DownloadClaims : содержимое токена скачивания.
// ID (jti) играет роль nonce: два токена на один файл, выданные в один и
// тот же момент, получаются различимыми.
type DownloadClaims struct {
	FileUUID string `json:"file_uuid"`
	jwt.RegisteredClaims
}

// DownloadTokenService : кодек самодостаточных токенов скачивания.
// Токен представляет собой подписанную HS512 капсулу {file_uuid, iat, exp, jti}, нигде не
// сохраняется и многоразов до истечения срока. Ротация секрета инвалидирует
// все выданные токены. Compact JWT состоит только из URL-safe символов и
// умещается в сегмент пути URL.
type DownloadTokenService struct {
	secretKey []byte
	tokenTTL  time.Duration
	parser    *jwt.Parser
	now       func() time.Time
}

func NewDownloadTokenService(cfg *config.DownloadTokenConfig) (*DownloadTokenService, error) {
	ttl, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		return nil, util.LogError("[DownloadTokenService] ошибка парсинга token_ttl", err)
	}

	service := &DownloadTokenService{
		secretKey: []byte(cfg.SecretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}

	service.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(TokenLeeway),
		jwt.WithIssuer(downloadTokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return service.now() }),
	)

	return service, nil
}

// WithClock : подмена источника времени (для тестов)
func (service *DownloadTokenService) WithClock(now func() time.Time) *DownloadTokenService {
	service.now = now
	return service
}

// TokenTTL : окно действия токена по умолчанию
func (service *DownloadTokenService) TokenTTL() time.Duration {
	return service.tokenTTL
}

// Issue выдаёт токен скачивания для файла.
// validity <= 0 означает окно по умолчанию из конфигурации.
func (service *DownloadTokenService) Issue(fileUUID string, validity time.Duration) (string, time.Time, error) {
	if validity <= 0 {
		validity = service.tokenTTL
	}

	now := service.now()
	expiresAt := now.Add(validity)

	claims := DownloadClaims{
		FileUUID: fileUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    downloadTokenIssuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return "", time.Time{}, util.LogError("[DownloadTokenService] ошибка подписи токена скачивания", err)
	}

	return signed, expiresAt, nil
}

// Redeem проверяет токен и возвращает UUID файла.
// Метод чистый и повторяемый: до истечения срока его можно вызывать сколько
// угодно раз с тем же результатом.
func (service *DownloadTokenService) Redeem(tokenStr string) (string, error) {
	var claims DownloadClaims

	jwtToken, err := service.parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return service.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if jwtToken.Valid == false || claims.FileUUID == "" {
		return "", ErrTokenInvalid
	}

	return claims.FileUUID, nil
}
