// photos.go — сервис фотографий сотрудников (не более одной на владельца).
//
// Отличия от документов: строгая политика (лимит 2 МиБ, только jpg/jpeg/png,
// проверка бинарной сигнатуры) и детерминированное имя хранения
// {owner}.{ext} — повторная загрузка перезаписывает прежний файл.
// Перезапись атомарна с точки зрения вызывающего: owner-лок удерживается
// на всё время записи и мутации индекса, промежуточное состояние
// «две фотографии у владельца» извне не наблюдаемо.
package service

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/techcorp/attachment-store/internal/api/middleware"
	"github.com/techcorp/attachment-store/internal/storage/filestore"
	"github.com/techcorp/attachment-store/internal/storage/index"
	"github.com/techcorp/attachment-store/internal/storage/names"
	"github.com/techcorp/attachment-store/internal/storage/sandbox"
	"github.com/techcorp/attachment-store/internal/validation"
)

// Photo — содержимое фотографии с именем хранения и MIME-типом.
type Photo struct {
	StoredName  string
	ContentType string
	Data        []byte
}

// PhotoService — операции с фотографиями сотрудников.
type PhotoService struct {
	policy validation.Policy
	box    *sandbox.Sandbox
	idx    *index.Index
	cache  *PhotoCache
	locks  *ownerLocks
	logger *slog.Logger
}

// NewPhotoService создаёт сервис фотографий.
func NewPhotoService(
	box *sandbox.Sandbox,
	idx *index.Index,
	cache *PhotoCache,
	logger *slog.Logger,
) *PhotoService {
	return &PhotoService{
		policy: validation.PhotoPolicy(),
		box:    box,
		idx:    idx,
		cache:  cache,
		locks:  newOwnerLocks(),
		logger: logger.With(slog.String("component", "photo_service")),
	}
}

// Store сохраняет фотографию владельца и возвращает имя хранения.
// Прежняя фотография (в том числе с другим расширением) заменяется:
// после успешного store на диске остаётся ровно один файл владельца.
func (s *PhotoService) Store(ownerKey string, data []byte, originalName, declaredContentType string) (string, error) {
	if err := validation.Validate(data, originalName, declaredContentType, s.policy); err != nil {
		middleware.OperationsTotal.WithLabelValues("store_photo", "invalid").Inc()
		return "", err
	}

	owner := names.SanitizeOwnerKey(ownerKey)
	stored := names.PhotoStoredName(ownerKey, names.Extension(originalName))

	unlock := s.locks.Lock(owner)
	defer unlock()

	absPath, err := s.box.Resolve(dirPhotos, stored)
	if err != nil {
		s.logger.Error("Выход за пределы sandbox после санации",
			slog.String("owner", owner),
			slog.String("stored_name", stored),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("store_photo", "error").Inc()
		return "", err
	}

	prev, hadPrev := s.idx.Photo(owner)

	if err := filestore.WriteFile(absPath, data); err != nil {
		middleware.OperationsTotal.WithLabelValues("store_photo", "error").Inc()
		return "", &StorageError{Op: "запись фотографии", Err: err}
	}

	// Индекс переключается на новое имя до удаления прежнего файла:
	// конкурентный Get не берёт owner-лок и не должен увидеть запись,
	// указывающую на уже удалённый файл
	s.idx.SetPhoto(owner, stored)
	s.cache.Invalidate(owner)

	// Прежний файл с другим расширением подлежит удалению:
	// у владельца должен остаться ровно один файл фотографии
	if hadPrev && prev != stored {
		if prevPath, resolveErr := s.box.Resolve(dirPhotos, prev); resolveErr == nil {
			_ = filestore.Delete(prevPath)
		}
	}

	middleware.OperationsTotal.WithLabelValues("store_photo", "success").Inc()
	if !hadPrev {
		middleware.AttachmentsTotal.WithLabelValues(middleware.KindPhoto).Inc()
	}

	s.logger.Info("Фотография сохранена",
		slog.String("owner", owner),
		slog.String("stored_name", stored),
		slog.Int("size", len(data)),
		slog.Bool("replaced", hadPrev),
	)

	return stored, nil
}

// getAttempts — число чтений индекса в Get. Повтор нужен только
// при конкурентной замене фотографии с другим расширением.
const getAttempts = 3

// Get возвращает фотографию владельца. Содержимое берётся из LRU-кэша,
// при промахе читается с диска. Отсутствие фотографии — ErrNotFound.
// Get не берёт owner-лок: если файл исчез между чтением индекса
// и чтением с диска (конкурентная замена с другим расширением уже
// удалила его), индекс перечитывается и чтение повторяется.
func (s *PhotoService) Get(ownerKey string) (*Photo, error) {
	owner := names.SanitizeOwnerKey(ownerKey)

	var lastErr error
	for attempt := 0; attempt < getAttempts; attempt++ {
		stored, ok := s.idx.Photo(owner)
		if !ok {
			return nil, fmt.Errorf("фотография владельца %s: %w", owner, ErrNotFound)
		}

		if entry, hit := s.cache.Get(owner); hit && entry.storedName == stored {
			return &Photo{
				StoredName:  stored,
				ContentType: photoContentType(stored),
				Data:        entry.data,
			}, nil
		}

		absPath, err := s.box.Resolve(dirPhotos, stored)
		if err != nil {
			return nil, err
		}

		data, err := filestore.ReadFile(absPath)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				// Конкурентная замена удалила файл после чтения индекса
				lastErr = err
				continue
			}
			s.logger.Error("Ошибка чтения файла фотографии",
				slog.String("owner", owner),
				slog.String("stored_name", stored),
				slog.String("error", err.Error()),
			)
			return nil, &StorageError{Op: "чтение фотографии", Err: err}
		}

		s.cache.Set(owner, stored, data)

		return &Photo{
			StoredName:  stored,
			ContentType: photoContentType(stored),
			Data:        data,
		}, nil
	}

	// Файл отсутствует при стабильном индексе: рассинхронизация диска
	s.logger.Error("Файл фотографии отсутствует на диске",
		slog.String("owner", owner),
		slog.String("error", lastErr.Error()),
	)
	return nil, &StorageError{Op: "чтение фотографии", Err: lastErr}
}

// Delete удаляет фотографию владельца: файл с диска (best-effort)
// и слот индекса. Пустой слот — ErrNotFound.
func (s *PhotoService) Delete(ownerKey string) error {
	owner := names.SanitizeOwnerKey(ownerKey)

	unlock := s.locks.Lock(owner)
	defer unlock()

	stored, ok := s.idx.Photo(owner)
	if !ok {
		return fmt.Errorf("фотография владельца %s: %w", owner, ErrNotFound)
	}

	absPath, err := s.box.Resolve(dirPhotos, stored)
	if err != nil {
		return err
	}

	if err := filestore.Delete(absPath); err != nil {
		middleware.OperationsTotal.WithLabelValues("delete_photo", "error").Inc()
		return &StorageError{Op: "удаление фотографии", Err: err}
	}

	s.idx.RemovePhoto(owner)
	s.cache.Invalidate(owner)

	middleware.OperationsTotal.WithLabelValues("delete_photo", "success").Inc()
	middleware.AttachmentsTotal.WithLabelValues(middleware.KindPhoto).Dec()

	s.logger.Info("Фотография удалена",
		slog.String("owner", owner),
		slog.String("stored_name", stored),
	)

	return nil
}

// photoContentType возвращает MIME-тип по расширению имени хранения.
// Имя хранения нормализовано (jpeg→jpg), других вариантов нет.
func photoContentType(storedName string) string {
	switch names.Extension(storedName) {
	case "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
