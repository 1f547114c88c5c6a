// Пакет model — доменные модели Attachment Store.
// AttachmentRecord — единая структура метаданных вложения, используется
// как in-memory представление и как формат attr.json на диске.
package model

import (
	"fmt"
	"time"
)

// Category — категория документа сотрудника.
type Category string

const (
	// CategoryContract — трудовой договор
	CategoryContract Category = "contract"
	// CategoryIDCard — удостоверение личности
	CategoryIDCard Category = "id_card"
	// CategoryCertificate — сертификат/справка
	CategoryCertificate Category = "certificate"
	// CategoryOther — прочие документы
	CategoryOther Category = "other"
)

// ParseCategory валидирует строковое значение категории.
// Возвращает ошибку для значений вне закрытого перечисления.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryContract, CategoryIDCard, CategoryCertificate, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("недопустимая категория документа: %q", s)
}

// AttachmentRecord — метаданные сохранённого вложения.
// Соответствует содержимому attr.json рядом с файлом документа.
type AttachmentRecord struct {
	// ID — уникальный идентификатор записи (UUID v4), неизменяемый
	ID string `json:"id"`

	// OwnerKey — нормализованный (lower-case) идентификатор владельца (email)
	OwnerKey string `json:"owner_key"`

	// StoredName — безопасное имя файла на диске. Никогда не совпадает
	// с OriginalName: содержит случайный суффикс для уникальности.
	StoredName string `json:"stored_name"`

	// OriginalName — имя файла, переданное клиентом. Хранится только
	// для отображения и Content-Disposition, не участвует в путях.
	OriginalName string `json:"original_name"`

	// Category — категория документа. Для фотографий не используется.
	Category Category `json:"category"`

	// UploadedAt — дата и время загрузки (UTC)
	UploadedAt time.Time `json:"uploaded_at"`

	// AbsolutePath — полный путь файла на диске, всегда внутри sandbox root.
	// Не сериализуется в API-ответ, пересчитывается при rebuild индекса.
	AbsolutePath string `json:"absolute_path"`
}
