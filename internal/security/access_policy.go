package security

import "secure-file-exchange/internal/model"

// AccessPolicy решает, можно ли выдать токен скачивания и можно ли его
// погасить. Политика без состояния, безопасна для конкурентных вызовов.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// AuthorizeIssue : выдача токена разрешена любому аутентифицированному
// пользователю для живой (не удалённой) записи. Разделение ролей действует
// на уровне API загрузки, сам поток скачивания симметричен.
func (p *AccessPolicy) AuthorizeIssue(claims *Claims, record *model.FileRecord) bool {
	if claims == nil || record == nil {
		return false
	}
	if record.DeletedAt != nil {
		return false
	}
	return claims.UserUUID != ""
}

// AuthorizeRedeem : при погашении личность не проверяется, действительный
// токен сам является предъявительским удостоверением. Конфиденциальность
// транспорта (TLS на внешнем контуре) входит в условия этой модели,
// но проверяется не здесь.
func (p *AccessPolicy) AuthorizeRedeem(fileUUID string) bool {
	return fileUUID != ""
}
