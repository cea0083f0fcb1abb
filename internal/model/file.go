package model

import "time"

// Role : класс пользователя в системе
type Role string

const (
	// RoleOperation : операционные пользователи, загружают файлы
	RoleOperation Role = "operation"
	// RoleClient : клиентские пользователи, ищут и скачивают файлы
	RoleClient Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleOperation || r == RoleClient
}

// FileRecord : метаданные загруженного файла.
// MimeDetected определяется только по содержимому файла при загрузке
// и никогда не выводится из FilenameOriginal или расширения.
// Запись иммутабельна после создания (кроме soft delete).
type FileRecord struct {
	UUID             string     `db:"uuid" json:"uuid"`
	OwnerUUID        string     `db:"owner_uuid" json:"owner_uuid"`
	OwnerRole        Role       `db:"owner_role" json:"owner_role"`
	FilenameOriginal string     `db:"filename_original" json:"filename_original"`
	MimeDetected     string     `db:"mime_detected" json:"mime_detected"`
	SizeBytes        int64      `db:"size_bytes" json:"size_bytes"`
	Sha256           string     `db:"sha256" json:"sha256"`
	StoragePath      string     `db:"storage_path" json:"storage_path"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// DownloadGrant : результат выдачи токена скачивания.
// Сам токен нигде не сохраняется: он полностью восстановим из своего
// подписанного содержимого.
type DownloadGrant struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileContent : содержимое файла, отдаваемое при погашении токена
type FileContent struct {
	Data         []byte
	MimeDetected string
	Filename     string
	SizeBytes    int64
}
