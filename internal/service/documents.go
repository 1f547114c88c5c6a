// documents.go — сервис документов сотрудников (много документов на владельца).
//
// Конвейер store: валидация → санация имён → атомарная запись на диск →
// запись attr.json → обновление индекса. Порядок шагов фиксирован:
// все отказы валидации происходят до первого обращения к диску,
// мутация индекса — последний, безотказный шаг. Инвариант
// «запись в индексе ⇔ файл на диске» сохраняется при любом отказе.
package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/techcorp/attachment-store/internal/api/middleware"
	"github.com/techcorp/attachment-store/internal/domain/model"
	"github.com/techcorp/attachment-store/internal/storage/attr"
	"github.com/techcorp/attachment-store/internal/storage/filestore"
	"github.com/techcorp/attachment-store/internal/storage/index"
	"github.com/techcorp/attachment-store/internal/storage/names"
	"github.com/techcorp/attachment-store/internal/storage/sandbox"
	"github.com/techcorp/attachment-store/internal/validation"
)

// Поддиректории sandbox root.
const (
	dirDocuments = "documents"
	dirPhotos    = "photos"
)

// DocumentService — операции с документами сотрудников.
type DocumentService struct {
	policy validation.Policy
	box    *sandbox.Sandbox
	idx    *index.Index
	locks  *ownerLocks
	logger *slog.Logger
}

// NewDocumentService создаёт сервис документов.
func NewDocumentService(
	policy validation.Policy,
	box *sandbox.Sandbox,
	idx *index.Index,
	logger *slog.Logger,
) *DocumentService {
	return &DocumentService{
		policy: policy,
		box:    box,
		idx:    idx,
		locks:  newOwnerLocks(),
		logger: logger.With(slog.String("component", "document_service")),
	}
}

// Store сохраняет документ владельца и возвращает новую запись.
//
// Поток:
//  1. Валидация против политики документов (без побочных эффектов)
//  2. Санация ключа владельца и генерация уникального имени хранения
//  3. Атомарная запись файла и attr.json
//  4. Добавление записи в индекс (последний шаг, не отказывает)
func (s *DocumentService) Store(ownerKey string, data []byte, originalName string, category model.Category) (*model.AttachmentRecord, error) {
	if err := validation.Validate(data, originalName, "", s.policy); err != nil {
		middleware.OperationsTotal.WithLabelValues("store_document", "invalid").Inc()
		return nil, err
	}

	owner := names.SanitizeOwnerKey(ownerKey)

	unlock := s.locks.Lock(owner)
	defer unlock()

	base := names.SanitizeBaseName(names.BaseName(originalName))
	stored := names.GenerateStoredName(base, names.Extension(originalName))

	absPath, err := s.box.Resolve(dirDocuments, owner, stored)
	if err != nil {
		// Недостижимо при корректной санации: сигнал о баге санитайзера
		s.logger.Error("Выход за пределы sandbox после санации",
			slog.String("owner", owner),
			slog.String("stored_name", stored),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("store_document", "error").Inc()
		return nil, err
	}

	if err := filestore.WriteFile(absPath, data); err != nil {
		middleware.OperationsTotal.WithLabelValues("store_document", "error").Inc()
		return nil, &StorageError{Op: "запись документа", Err: err}
	}

	rec := &model.AttachmentRecord{
		ID:           uuid.New().String(),
		OwnerKey:     owner,
		StoredName:   stored,
		OriginalName: originalName,
		Category:     category,
		UploadedAt:   time.Now().UTC(),
		AbsolutePath: absPath,
	}

	if err := attr.Write(attr.FilePath(absPath), rec); err != nil {
		// Откатываем файл данных, чтобы диск и индекс остались согласованы
		_ = filestore.Delete(absPath)
		middleware.OperationsTotal.WithLabelValues("store_document", "error").Inc()
		return nil, &StorageError{Op: "запись метаданных", Err: err}
	}

	s.idx.Append(owner, rec)

	middleware.OperationsTotal.WithLabelValues("store_document", "success").Inc()
	middleware.AttachmentsTotal.WithLabelValues(middleware.KindDocument).Inc()

	s.logger.Info("Документ сохранён",
		slog.String("id", rec.ID),
		slog.String("owner", owner),
		slog.String("stored_name", stored),
		slog.String("category", string(category)),
		slog.Int("size", len(data)),
	)

	return rec, nil
}

// List возвращает снапшот списка документов владельца.
// Неизвестный владелец — пустой список, не ошибка.
func (s *DocumentService) List(ownerKey string) []*model.AttachmentRecord {
	return s.idx.List(names.SanitizeOwnerKey(ownerKey))
}

// Find возвращает запись документа владельца по id.
// Возвращает ErrNotFound, если записи нет.
func (s *DocumentService) Find(ownerKey, id string) (*model.AttachmentRecord, error) {
	rec := s.idx.Find(names.SanitizeOwnerKey(ownerKey), id)
	if rec == nil {
		return nil, fmt.Errorf("документ %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Serve отдаёт содержимое документа через http.ServeContent
// (Range requests и If-Modified-Since обрабатывает stdlib).
// Оригинальное имя попадает только в Content-Disposition.
func (s *DocumentService) Serve(w http.ResponseWriter, r *http.Request, ownerKey, id string) error {
	rec, err := s.Find(ownerKey, id)
	if err != nil {
		return err
	}

	f, err := filestore.Open(rec.AbsolutePath)
	if err != nil {
		s.logger.Error("Файл документа отсутствует на диске",
			slog.String("id", rec.ID),
			slog.String("path", rec.AbsolutePath),
			slog.String("error", err.Error()),
		)
		return &StorageError{Op: "чтение документа", Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return &StorageError{Op: "stat документа", Err: err}
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.OriginalName))
	http.ServeContent(w, r, rec.StoredName, stat.ModTime(), f)
	return nil
}

// Delete удаляет документ владельца: файл с диска (best-effort —
// отсутствие файла не ошибка), attr.json и запись индекса.
// Отсутствующая запись индекса — ErrNotFound.
func (s *DocumentService) Delete(ownerKey, id string) error {
	owner := names.SanitizeOwnerKey(ownerKey)

	unlock := s.locks.Lock(owner)
	defer unlock()

	rec := s.idx.Find(owner, id)
	if rec == nil {
		return fmt.Errorf("документ %s: %w", id, ErrNotFound)
	}

	if err := filestore.Delete(rec.AbsolutePath); err != nil {
		// Реальная ошибка I/O: запись индекса не трогаем, повтор возможен
		middleware.OperationsTotal.WithLabelValues("delete_document", "error").Inc()
		return &StorageError{Op: "удаление документа", Err: err}
	}
	_ = attr.Delete(attr.FilePath(rec.AbsolutePath))

	if removed := s.idx.Remove(owner, id); removed == nil {
		// Конкурентное удаление того же id под тем же owner-локом невозможно
		return fmt.Errorf("документ %s: %w", id, ErrNotFound)
	}

	middleware.OperationsTotal.WithLabelValues("delete_document", "success").Inc()
	middleware.AttachmentsTotal.WithLabelValues(middleware.KindDocument).Dec()

	s.logger.Info("Документ удалён",
		slog.String("id", id),
		slog.String("owner", owner),
	)

	return nil
}
