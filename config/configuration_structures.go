package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

// DownloadTokenConfig : параметры кодека токенов скачивания.
// Секрет задаётся отдельно от JWT аутентификации: ротация секрета скачивания
// инвалидирует только выданные ссылки, а не пользовательские сессии.
type DownloadTokenConfig struct {
	SecretKey string `yaml:"secret_key"`
	TokenTTL  string `yaml:"token_ttl"`
}

// UploadConfig : ограничения загрузки файлов
type UploadConfig struct {
	// AllowedMimeTypes : allow-list MIME-типов, определённых по содержимому файла
	AllowedMimeTypes []string `yaml:"allowed_mime_types"`
	MaxSizeBytes     int64    `yaml:"max_size_bytes"`
}

type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type AdminConfig struct {
	AdminToken string `yaml:"admin_token"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TTL struct {
	// S3AndRedis : срок жизни записей кэша, секунды
	S3AndRedis int `yaml:"s3_and_redis"`
}
