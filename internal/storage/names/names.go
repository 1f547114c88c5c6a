// Пакет names — санация имён владельцев и файлов, генерация имён хранения.
//
// Исходные значения (email владельца, имя загруженного файла) считаются
// недоверенными: до записи на диск они приводятся к безопасным токенам.
// Оригинальное имя файла сохраняется в метаданных только для отображения.
package names

import (
	"strings"

	"github.com/google/uuid"
)

// UnknownOwner — фиксированный токен для пустого идентификатора владельца.
// Задокументированный fallback: на практике вызывающий код не должен
// передавать пустой owner key.
const UnknownOwner = "unknown"

// SanitizeOwnerKey приводит идентификатор владельца (email) к безопасному
// токену: lower-case, все символы вне [a-z0-9@._-] заменяются на "_".
// Пустая строка отображается в UnknownOwner.
func SanitizeOwnerKey(raw string) string {
	if raw == "" {
		return UnknownOwner
	}

	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
			r == '@' || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// SanitizeBaseName заменяет в базовом имени файла все символы
// вне [A-Za-z0-9._-] на "_".
func SanitizeBaseName(raw string) string {
	if raw == "" {
		return "file"
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// GenerateStoredName собирает имя файла для хранения документа:
// {base}_{8-символьный суффикс}.{ext}. Суффикс — префикс UUID v4,
// повторная загрузка того же имени даёт новое имя хранения.
// base должен быть предварительно санирован, ext — без точки.
func GenerateStoredName(base, ext string) string {
	suffix := uuid.New().String()[:8]
	if ext == "" {
		return base + "_" + suffix
	}
	return base + "_" + suffix + "." + ext
}

// PhotoStoredName возвращает детерминированное имя файла фотографии:
// {sanitizedOwner}.{ext} с нормализацией jpeg→jpg. Детерминированность
// намеренная: повторная загрузка перезаписывает прежний файл.
func PhotoStoredName(ownerKey, ext string) string {
	return SanitizeOwnerKey(ownerKey) + "." + NormalizePhotoExt(ext)
}

// NormalizePhotoExt нормализует расширение фотографии: jpeg→jpg,
// остальные значения приводятся к нижнему регистру.
func NormalizePhotoExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// Extension возвращает расширение имени файла в нижнем регистре без точки
// (подстрока после последней точки; пустая строка, если точки нет).
func Extension(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx == -1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// BaseName возвращает имя файла без расширения.
func BaseName(filename string) string {
	idx := strings.LastIndexByte(filename, '.')
	if idx == -1 {
		return filename
	}
	return filename[:idx]
}
