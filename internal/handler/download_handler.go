package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"secure-file-exchange/internal/model/requestresponse"
	"secure-file-exchange/internal/ports"
	"secure-file-exchange/internal/repository"
	"secure-file-exchange/internal/service"
	"secure-file-exchange/internal/util"

	"github.com/go-chi/chi/v5"
)

type DownloadHandler struct {
	ports.DownloadService
}

func NewDownloadHandler(downloadService ports.DownloadService) *DownloadHandler {
	return &DownloadHandler{downloadService}
}

// IssueDownload godoc
// @Summary Выдача ссылки на скачивание файла
// @Description Возвращает ссылку с подписанным токеном скачивания. Ссылка действует
// ограниченное время и не требует авторизации при переходе. До истечения срока
// ссылкой можно пользоваться повторно.
// @Tags Downloads
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.IssueDownloadResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id}/download [get]
// @Security BearerAuth
func (h *DownloadHandler) IssueDownload(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	grant, err := h.DownloadService.IssueDownload(r.Context(), fileUUID)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrDownloadDenied):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case errors.Is(err, repository.ErrFileNotFound),
			strings.Contains(err.Error(), "не найден"):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "не авторизован"):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.IssueDownloadResponse{}
	resp.Data.URL = grant.URL
	resp.Data.ExpiresAt = grant.ExpiresAt.Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// RedeemDownload godoc
// @Summary Скачивание файла по токену
// @Description Отдаёт байты файла по предъявительскому токену, авторизация не требуется.
// Любой невалидный или истёкший токен даёт одинаковый ответ 403 без деталей.
// Если файл исчез после выдачи токена, возвращается 410.
// @Tags Downloads
// @Produce octet-stream
// @Param token path string true "Токен скачивания"
// @Success 200 {file} binary "Содержимое файла"
// @Failure 403 {object} requestresponse.ErrorResponse "Доступ запрещён"
// @Failure 410 {object} requestresponse.ErrorResponse "Файл недоступен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /secure-download/{token} [get]
func (h *DownloadHandler) RedeemDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		// отсутствие токена не отличается от невалидного
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		return
	}

	content, err := h.DownloadService.RedeemDownload(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDownloadDenied):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case errors.Is(err, service.ErrFileGone):
			util.HandleError(w, "файл недоступен", http.StatusGone)
		default:
			log.Println(err)
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", content.MimeDetected)
	w.Header().Set("Content-Length", strconv.FormatInt(content.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", content.Filename))

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content.Data); err != nil {
		log.Printf("[DownloadHandler] ошибка записи тела ответа: %v", err)
	}
}

// RedeemDownloadHead godoc
// @Summary Скачивание файла по токену
// @Description Возвращает заголовки файла без тела.
// @Tags Downloads
// @Produce octet-stream
// @Param token path string true "Токен скачивания"
// @Success 200 "Заголовки файла"
// @Failure 403 {object} requestresponse.ErrorResponse "Доступ запрещён"
// @Failure 410 {object} requestresponse.ErrorResponse "Файл недоступен"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /secure-download/{token} [head]
func (h *DownloadHandler) RedeemDownloadHead(w http.ResponseWriter, r *http.Request) {
	h.RedeemDownload(w, r)
}
