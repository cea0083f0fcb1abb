package ports

import (
	"context"
	"time"

	"secure-file-exchange/internal/model"
	"secure-file-exchange/internal/security"
)

// DownloadTokenCodec : кодек самодостаточных токенов скачивания.
// Issue кодирует {file_uuid, iat, exp, nonce}, Redeem проверяет подпись и
// срок действия. Redeem чистый: токены многоразовые до истечения срока.
type DownloadTokenCodec interface {
	Issue(fileUUID string, validity time.Duration) (string, time.Time, error)
	Redeem(token string) (string, error)
	TokenTTL() time.Duration
}

// DownloadAccessPolicy : решения о выдаче и погашении токенов
type DownloadAccessPolicy interface {
	AuthorizeIssue(claims *security.Claims, record *model.FileRecord) bool
	AuthorizeRedeem(fileUUID string) bool
}

type DownloadService interface {
	IssueDownload(ctx context.Context, fileUUID string) (*model.DownloadGrant, error)
	RedeemDownload(ctx context.Context, token string) (*model.FileContent, error)
}
