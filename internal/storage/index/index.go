// Пакет index — потокобезопасный in-memory индекс вложений.
//
// Отображает ключ владельца на упорядоченный список записей документов
// и на слот фотографии (не более одной на владельца). Индекс строится
// при старте из attr.json и содержимого директории фотографий
// и обновляется синхронно при операциях записи.
//
// Чистая in-memory структура: не держит файловых дескрипторов
// и не выполняет I/O. Снапшоты, возвращаемые Find/List/Photo,
// не меняются при последующих мутациях индекса.
package index

import (
	"sort"
	"sync"

	"github.com/techcorp/attachment-store/internal/domain/model"
)

// Index — потокобезопасный индекс вложений по владельцам.
// Мутации для одного владельца сериализуются мьютексом;
// операции с разными владельцами не конфликтуют по диску —
// сам индекс держит блокировку только на время работы с map.
type Index struct {
	mu sync.RWMutex
	// docs — ключ владельца → список записей документов в порядке добавления
	docs map[string][]*model.AttachmentRecord
	// photos — ключ владельца → имя файла фотографии на диске
	photos map[string]string
	ready  bool
}

// New создаёт пустой индекс. Для заполнения при старте вызовите Build.
func New() *Index {
	return &Index{
		docs:   make(map[string][]*model.AttachmentRecord),
		photos: make(map[string]string),
	}
}

// Build заменяет содержимое индекса записями, восстановленными с диска,
// и помечает индекс готовым. Вызывается один раз при старте процесса.
func (idx *Index) Build(records []*model.AttachmentRecord, photos map[string]string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.docs = make(map[string][]*model.AttachmentRecord, len(records))
	for _, rec := range records {
		copied := *rec
		idx.docs[rec.OwnerKey] = append(idx.docs[rec.OwnerKey], &copied)
	}

	// Восстановленные списки упорядочиваем по дате загрузки
	for _, list := range idx.docs {
		sort.Slice(list, func(i, j int) bool {
			return list[i].UploadedAt.Before(list[j].UploadedAt)
		})
	}

	idx.photos = make(map[string]string, len(photos))
	for owner, filename := range photos {
		idx.photos[owner] = filename
	}

	idx.ready = true
}

// IsReady возвращает true, если индекс построен и готов к использованию.
func (idx *Index) IsReady() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.ready
}

// Append добавляет запись документа в список владельца.
// Список создаётся при первом обращении.
func (idx *Index) Append(ownerKey string, rec *model.AttachmentRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	copied := *rec
	idx.docs[ownerKey] = append(idx.docs[ownerKey], &copied)
}

// List возвращает снапшот списка документов владельца.
// Неизвестный владелец — пустой список, не ошибка.
func (idx *Index) List(ownerKey string) []*model.AttachmentRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	list := idx.docs[ownerKey]
	out := make([]*model.AttachmentRecord, 0, len(list))
	for _, rec := range list {
		copied := *rec
		out = append(out, &copied)
	}
	return out
}

// Find возвращает копию записи владельца по id.
// Возвращает nil, если запись не найдена.
func (idx *Index) Find(ownerKey, id string) *model.AttachmentRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, rec := range idx.docs[ownerKey] {
		if rec.ID == id {
			copied := *rec
			return &copied
		}
	}
	return nil
}

// Remove удаляет запись владельца по id и возвращает её копию.
// Возвращает nil, если запись не найдена.
func (idx *Index) Remove(ownerKey, id string) *model.AttachmentRecord {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	list := idx.docs[ownerKey]
	for i, rec := range list {
		if rec.ID == id {
			copied := *rec
			idx.docs[ownerKey] = append(list[:i], list[i+1:]...)
			if len(idx.docs[ownerKey]) == 0 {
				delete(idx.docs, ownerKey)
			}
			return &copied
		}
	}
	return nil
}

// SetPhoto записывает имя файла фотографии владельца,
// заменяя прежнее значение.
func (idx *Index) SetPhoto(ownerKey, storedName string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.photos[ownerKey] = storedName
}

// Photo возвращает имя файла фотографии владельца.
func (idx *Index) Photo(ownerKey string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	name, ok := idx.photos[ownerKey]
	return name, ok
}

// RemovePhoto очищает слот фотографии владельца и возвращает
// прежнее имя файла. Возвращает false, если слот был пуст.
func (idx *Index) RemovePhoto(ownerKey string) (string, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	name, ok := idx.photos[ownerKey]
	if !ok {
		return "", false
	}
	delete(idx.photos, ownerKey)
	return name, true
}

// CountDocuments возвращает общее количество записей документов.
func (idx *Index) CountDocuments() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	total := 0
	for _, list := range idx.docs {
		total += len(list)
	}
	return total
}

// CountPhotos возвращает количество занятых слотов фотографий.
func (idx *Index) CountPhotos() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.photos)
}
