// Пакет validation — проверка недоверенного загружаемого содержимого.
//
// Все проверки выполняются до какого-либо обращения к диску:
// отказ валидации не оставляет побочных эффектов.
// Для фотографий дополнительно проверяется бинарная сигнатура,
// независимая от заявленного Content-Type — фотографии затем
// отдаются браузеру inline, поэтому подмена типа опасна.
package validation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/techcorp/attachment-store/internal/storage/names"
)

// Reason — машиночитаемая причина отказа валидации (закрытое множество).
type Reason string

const (
	// ReasonEmpty — пустое содержимое
	ReasonEmpty Reason = "empty"
	// ReasonTooLarge — превышен лимит размера
	ReasonTooLarge Reason = "too_large"
	// ReasonMissingName — не передано имя файла
	ReasonMissingName Reason = "missing_name"
	// ReasonNameTooLong — имя файла превышает допустимую длину
	ReasonNameTooLong Reason = "name_too_long"
	// ReasonExtensionNotAllowed — расширение вне allow-list
	ReasonExtensionNotAllowed Reason = "extension_not_allowed"
	// ReasonContentTypeMismatch — заявленный Content-Type не соответствует расширению
	ReasonContentTypeMismatch Reason = "content_type_mismatch"
	// ReasonBadSignature — содержимое не прошло проверку бинарной сигнатуры
	ReasonBadSignature Reason = "bad_signature"
)

// InvalidFileError — отказ валидации, вызванный клиентскими данными.
// Не фатален: поднимается строго до записи на диск.
type InvalidFileError struct {
	Reason  Reason
	Message string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("недопустимый файл (%s): %s", e.Reason, e.Message)
}

// Policy — политика приёма файлов одного класса вложений.
type Policy struct {
	// MaxSizeBytes — максимальный размер содержимого
	MaxSizeBytes int64
	// AllowedExtensions — допустимые расширения в нижнем регистре без точки
	AllowedExtensions []string
	// SniffImage — требовать бинарную сигнатуру JPEG/PNG
	SniffImage bool
}

// Фиксированные параметры фотографий: лимит 2 МиБ и allow-list jpg/jpeg/png.
const MaxPhotoSizeBytes = 2 << 20

// MaxNameLength — максимальная длина имени файла в байтах.
// Лимит большинства файловых систем; удерживает attr.json
// (куда имя попадает целиком) в пределах его лимита размера.
const MaxNameLength = 255

// DocumentPolicy возвращает политику документов с настраиваемыми лимитами.
func DocumentPolicy(maxSizeBytes int64, allowedExtensions []string) Policy {
	return Policy{
		MaxSizeBytes:      maxSizeBytes,
		AllowedExtensions: allowedExtensions,
	}
}

// PhotoPolicy возвращает фиксированную политику фотографий.
func PhotoPolicy() Policy {
	return Policy{
		MaxSizeBytes:      MaxPhotoSizeBytes,
		AllowedExtensions: []string{"jpg", "jpeg", "png"},
		SniffImage:        true,
	}
}

// Бинарные сигнатуры изображений.
var (
	jpegMagic = []byte{0xFF, 0xD8}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

// Validate проверяет содержимое против политики. Порядок проверок:
// пустой файл → размер → имя (наличие, длина) → расширение →
// Content-Type → сигнатура.
// Первая непройденная проверка возвращает InvalidFileError.
func Validate(data []byte, declaredName, declaredContentType string, policy Policy) error {
	if len(data) == 0 {
		return &InvalidFileError{Reason: ReasonEmpty, Message: "файл пуст"}
	}

	if int64(len(data)) > policy.MaxSizeBytes {
		return &InvalidFileError{
			Reason:  ReasonTooLarge,
			Message: fmt.Sprintf("размер %d байт превышает максимум %d байт", len(data), policy.MaxSizeBytes),
		}
	}

	if strings.TrimSpace(declaredName) == "" {
		return &InvalidFileError{Reason: ReasonMissingName, Message: "имя файла обязательно"}
	}

	if len(declaredName) > MaxNameLength {
		return &InvalidFileError{
			Reason:  ReasonNameTooLong,
			Message: fmt.Sprintf("имя файла длиннее %d байт", MaxNameLength),
		}
	}

	ext := names.Extension(declaredName)
	if !extensionAllowed(ext, policy.AllowedExtensions) {
		return &InvalidFileError{
			Reason:  ReasonExtensionNotAllowed,
			Message: fmt.Sprintf("расширение %q не входит в список допустимых: %s", ext, strings.Join(policy.AllowedExtensions, ", ")),
		}
	}

	if declaredContentType != "" && !contentTypeAllowedForExtension(ext, declaredContentType) {
		return &InvalidFileError{
			Reason:  ReasonContentTypeMismatch,
			Message: fmt.Sprintf("Content-Type %q не соответствует расширению %q", declaredContentType, ext),
		}
	}

	if policy.SniffImage && !looksLikeImage(data) {
		return &InvalidFileError{
			Reason:  ReasonBadSignature,
			Message: "содержимое не является изображением JPEG или PNG",
		}
	}

	return nil
}

// extensionAllowed проверяет вхождение расширения в allow-list.
func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// contentTypeAllowedForExtension сверяет заявленный Content-Type с расширением
// по фиксированной таблице. Неизвестные расширения проходят проверку
// без ограничений — allow-list расширений уже отработал до этого шага.
func contentTypeAllowedForExtension(ext, contentType string) bool {
	// Отбрасываем параметры media type (charset и т.д.)
	if idx := strings.IndexByte(contentType, ';'); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	contentType = strings.ToLower(contentType)

	switch ext {
	case "jpg", "jpeg", "png":
		return strings.HasPrefix(contentType, "image/")
	case "pdf":
		return contentType == "application/pdf"
	case "csv":
		return strings.Contains(contentType, "csv") || strings.HasPrefix(contentType, "text/")
	case "xml":
		return strings.Contains(contentType, "xml") || contentType == "text/xml"
	case "txt":
		return strings.HasPrefix(contentType, "text/")
	default:
		return true
	}
}

// looksLikeImage проверяет бинарную сигнатуру JPEG (FF D8)
// или PNG (89 50 4E 47 0D 0A 1A 0A) в начале содержимого.
func looksLikeImage(data []byte) bool {
	if len(data) >= len(jpegMagic) && bytes.Equal(data[:len(jpegMagic)], jpegMagic) {
		return true
	}
	if len(data) >= len(pngMagic) && bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return true
	}
	return false
}
