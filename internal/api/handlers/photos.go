// photos.go — HTTP handlers операций с фотографиями сотрудников.
// Upload (перезапись), Get (inline), Delete.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/techcorp/attachment-store/internal/api/errors"
	"github.com/techcorp/attachment-store/internal/service"
)

// PhotosHandler — обработчик endpoints фотографий.
type PhotosHandler struct {
	photos *service.PhotoService
}

// NewPhotosHandler создаёт обработчик endpoints фотографий.
func NewPhotosHandler(photos *service.PhotoService) *PhotosHandler {
	return &PhotosHandler{photos: photos}
}

// Upload обрабатывает POST /api/v1/photos/{email}.
// Multipart form: file (обязательно). Повторная загрузка заменяет
// прежнюю фотографию владельца.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		errors.ValidationError(w, fmt.Sprintf("Ошибка парсинга multipart: %s", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errors.ValidationError(w, "Поле 'file' обязательно")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		errors.InternalError(w, "Ошибка чтения загружаемого файла")
		return
	}

	declaredContentType := header.Header.Get("Content-Type")

	storedName, err := h.photos.Store(email, data, header.Filename, declaredContentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"filename": storedName})
}

// Get обрабатывает GET /api/v1/photos/{email}.
// Отдаёт содержимое inline — фотография отображается в браузере.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	photo, err := h.photos.Get(email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", photo.StoredName))
	_, _ = w.Write(photo.Data)
}

// Delete обрабатывает DELETE /api/v1/photos/{email}.
func (h *PhotosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.photos.Delete(email); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
