// documents.go — HTTP handlers операций с документами сотрудников.
// Upload, List, Download, Delete. Идентификатор владельца — email
// в пути запроса; до сервисного слоя доходит как есть, санацией
// занимается сервис.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techcorp/attachment-store/internal/api/errors"
	"github.com/techcorp/attachment-store/internal/domain/model"
	"github.com/techcorp/attachment-store/internal/service"
	"github.com/techcorp/attachment-store/internal/storage/sandbox"
	"github.com/techcorp/attachment-store/internal/validation"
)

// multipartMemoryLimit — буфер разбора multipart form (32 МБ).
const multipartMemoryLimit = 32 << 20

// DocumentsHandler — обработчик endpoints документов.
type DocumentsHandler struct {
	docs *service.DocumentService
}

// NewDocumentsHandler создаёт обработчик endpoints документов.
func NewDocumentsHandler(docs *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{docs: docs}
}

// documentResponse — представление записи документа в API-ответе.
type documentResponse struct {
	ID           string         `json:"id"`
	OwnerKey     string         `json:"owner_key"`
	StoredName   string         `json:"stored_name"`
	OriginalName string         `json:"original_name"`
	Category     model.Category `json:"category"`
	UploadedAt   string         `json:"uploaded_at"`
}

func toDocumentResponse(rec *model.AttachmentRecord) documentResponse {
	return documentResponse{
		ID:           rec.ID,
		OwnerKey:     rec.OwnerKey,
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		Category:     rec.Category,
		UploadedAt:   rec.UploadedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Upload обрабатывает POST /api/v1/documents/{email}.
// Multipart form: file (обязательно), type (категория, обязательно).
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	category, err := model.ParseCategory(r.FormValue("type"))
	if err != nil {
		errors.ValidationError(w, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		errors.InternalError(w, "Ошибка чтения загружаемого файла")
		return
	}

	rec, err := h.docs.Store(email, data, header.Filename, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toDocumentResponse(rec))
}

// List обрабатывает GET /api/v1/documents/{email}.
// Неизвестный владелец — пустой список, 200.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	records := h.docs.List(email)
	resp := make([]documentResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, toDocumentResponse(rec))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Download обрабатывает GET /api/v1/documents/{email}/{documentId}.
// Отдаёт содержимое с Content-Disposition: attachment.
func (h *DocumentsHandler) Download(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	documentID := chi.URLParam(r, "documentId")

	if err := h.docs.Serve(w, r, email, documentID); err != nil {
		writeServiceError(w, err)
	}
}

// Delete обрабатывает DELETE /api/v1/documents/{email}/{documentId}.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	documentID := chi.URLParam(r, "documentId")

	if err := h.docs.Delete(email, documentID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError отображает ошибки сервисного слоя на HTTP-ответы:
// InvalidFileError → 400/413, ErrNotFound → 404, остальное → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalid *validation.InvalidFileError
	if stderrors.As(err, &invalid) {
		if invalid.Reason == validation.ReasonTooLarge {
			errors.FileTooLarge(w, invalid.Message)
			return
		}
		errors.ValidationError(w, invalid.Message)
		return
	}

	if stderrors.Is(err, service.ErrNotFound) {
		errors.NotFound(w, err.Error())
		return
	}

	// Попытка выхода за пределы sandbox построена из клиентских данных,
	// для клиента это отказ валидации
	var escape *sandbox.EscapeError
	if stderrors.As(err, &escape) {
		errors.ValidationError(w, "Недопустимое имя файла или владельца")
		return
	}

	errors.InternalError(w, "Внутренняя ошибка хранилища")
}
