package requestresponse

import (
	"time"

	"secure-file-exchange/internal/model"
)

// FileResponse : описывает запись файла для JSON-ответа
type FileResponse struct {
	UUID             string `json:"id" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	FilenameOriginal string `json:"name" example:"report.pdf"`
	MimeDetected     string `json:"mime" example:"application/pdf"`
	SizeBytes        int64  `json:"size" example:"102400"`
	Sha256           string `json:"sha256" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	CreatedAt        string `json:"created" example:"2025-08-23T12:34:56Z"`
}

// FileResponseFromModel : конвертирует model.FileRecord в FileResponse
func FileResponseFromModel(record *model.FileRecord) FileResponse {
	return FileResponse{
		UUID:             record.UUID,
		FilenameOriginal: record.FilenameOriginal,
		MimeDetected:     record.MimeDetected,
		SizeBytes:        record.SizeBytes,
		Sha256:           record.Sha256,
		CreatedAt:        record.CreatedAt.Format(time.RFC3339),
	}
}

// UploadFileResponse : ответ при успешной загрузке файла
type UploadFileResponse struct {
	Data FileResponse `json:"data"`
}

// GetFileResponse : ответ для одной записи файла
type GetFileResponse struct {
	Data FileResponse `json:"data"`
}

// ListFilesResponse : ответ API со списком файлов
type ListFilesResponse struct {
	Data struct {
		Files []FileResponse `json:"files"`
	} `json:"data"`
	NextCursor string `json:"next_cursor,omitempty" example:"2025-08-23T12:34:56.000000Z"`
	Count      int    `json:"count" example:"10"`
}

// IssueDownloadResponse : ответ с выданной ссылкой на скачивание
type IssueDownloadResponse struct {
	Data struct {
		URL       string `json:"url" example:"https://files.example.com/secure-download/eyJhbGciOiJIUzUxMiJ9..."`
		ExpiresAt string `json:"expires_at" example:"2025-08-23T12:35:56Z"`
	} `json:"data"`
}

// ResponseMessage : общий ответ для подтверждения действий
type ResponseMessage struct {
	Response map[string]interface{} `json:"response,omitempty"`
	Error    *ErrorResponse         `json:"error,omitempty"`
	Data     interface{}            `json:"data,omitempty"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}
