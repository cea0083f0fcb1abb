package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"secure-file-exchange/internal/model/requestresponse"
	"secure-file-exchange/internal/ports"
	"secure-file-exchange/internal/security"
	"secure-file-exchange/internal/util"

	"github.com/go-chi/chi/v5"
)

type FileHandler struct {
	ports.FileService
}

func NewFileHandler(fileService ports.FileService) *FileHandler {
	return &FileHandler{fileService}
}

// UploadFile godoc
// @Summary Загрузка нового файла
// @Description Принимает файл через multipart/form-data и проверяет его содержимое.
// Тип файла определяется по байтам, расширение и Content-Type из запроса не учитываются.
// Файлы с неразрешённым типом отклоняются с кодом 415.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.UploadFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} requestresponse.ErrorResponse "Загрузка доступна только операционным пользователям"
// @Failure 413 {object} requestresponse.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} requestresponse.ErrorResponse "Тип файла не разрешён"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/files [post]
// @Security BearerAuth
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	claims, ok := ctx.Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
		return
	}

	record, err := h.FileService.UploadFile(ctx, header.Filename, fileBytes)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "тип файла не разрешён"):
			// определённый тип наружу не сообщается
			util.HandleError(w, "тип файла не разрешён", http.StatusUnsupportedMediaType)
		case strings.Contains(err.Error(), "превышает максимальный размер"):
			util.HandleError(w, "файл слишком большой", http.StatusRequestEntityTooLarge)
		case strings.Contains(err.Error(), "только операционным пользователям"):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		case strings.Contains(err.Error(), "не авторизован"):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		case strings.Contains(err.Error(), "database connection не найден"),
			strings.Contains(err.Error(), "не удалось записать файл"),
			strings.Contains(err.Error(), "не удалось сохранить запись файла"):
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		default:
			util.HandleError(w, "неизвестная ошибка", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.UploadFileResponse{
		Data: requestresponse.FileResponseFromModel(record),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// GetFile godoc
// @Summary Получение записи файла по ID
// @Description Возвращает метаданные файла в JSON.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [get]
// @Security BearerAuth
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	record, err := h.FileService.GetFile(r.Context(), fileUUID)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найден"):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "не авторизован"):
			util.HandleError(w, "не авторизован", http.StatusUnauthorized)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", record.MimeDetected)
		w.Header().Set("Content-Length", strconv.FormatInt(record.SizeBytes, 10))
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.GetFileResponse{
		Data: requestresponse.FileResponseFromModel(record),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetFileHead godoc
// @Summary Получение записи файла по ID
// @Description Возвращает заголовки файла без тела.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetFileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [head]
// @Security BearerAuth
func (h *FileHandler) GetFileHead(w http.ResponseWriter, r *http.Request) {
	h.GetFile(w, r)
}

// ListFiles godoc
// @Summary Список файлов
// @Description Возвращает список файлов с cursor-based пагинацией
// @Tags Files
// @Produce json
// @Param cursor query string false "Курсор для пагинации"
// @Param limit query int false "Лимит файлов на странице" default(20) minimum(1) maximum(100)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListFilesResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files [get]
// @Security BearerAuth
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(security.UserContextKey).(*security.Claims)
	if ok == false || claims == nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	cursor := r.URL.Query().Get("cursor")
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			util.HandleError(w, "неверное значение limit", http.StatusBadRequest)
			return
		}
		if parsed > 100 {
			limit = 100
		} else {
			limit = parsed
		}
	}

	records, nextCursor, err := h.FileService.ListFiles(r.Context(), cursor, limit)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	if r.Method == http.MethodHead {
		w.Header().Set("X-Total-Files", strconv.Itoa(len(records)))
		if nextCursor != "" {
			w.Header().Set("X-Next-Cursor", nextCursor)
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.ListFilesResponse{
		NextCursor: nextCursor,
		Count:      len(records),
	}
	resp.Data.Files = make([]requestresponse.FileResponse, 0, len(records))
	for i := range records {
		resp.Data.Files = append(resp.Data.Files, requestresponse.FileResponseFromModel(&records[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListFilesHead godoc
// @Summary Заголовки списка файлов
// @Description Возвращает заголовки списка файлов без тела (для HEAD запроса)
// @Tags Files
// @Produce json
// @Param cursor query string false "Курсор для пагинации"
// @Param limit query int false "Лимит файлов на странице" default(20) minimum(1) maximum(100)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 "Заголовки с информацией о файлах"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files [head]
// @Security BearerAuth
func (h *FileHandler) ListFilesHead(w http.ResponseWriter, r *http.Request) {
	h.ListFiles(w, r)
}

// DeleteFile godoc
// @Summary Удалить файл
// @Description Помечает файл удалённым и удаляет объект из хранилища. Доступно только владельцу.
// @Tags Files
// @Produce json
// @Param file_id path string true "UUID файла"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ResponseMessage
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/files/{file_id} [delete]
// @Security BearerAuth
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileUUID := chi.URLParam(r, "file_id")
	if fileUUID == "" {
		util.HandleError(w, "ID файла обязателен", http.StatusBadRequest)
		return
	}

	response, err := h.FileService.DeleteFile(r.Context(), fileUUID)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найден"),
			strings.Contains(err.Error(), "не являетесь владельцем"):
			util.HandleError(w, "файл не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "не авторизован"):
			util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		case strings.Contains(err.Error(), "S3"):
			util.HandleError(w, "ошибка при удалении файла", http.StatusInternalServerError)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	resp := requestresponse.ResponseMessage{Response: map[string]interface{}{}}
	for k, v := range response {
		resp.Response[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
