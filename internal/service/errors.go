// Пакет service — бизнес-логика Attachment Store.
// errors.go — таксономия ошибок сервисного слоя.
//
// Отказы валидации (validation.InvalidFileError) проходят сквозь
// сервисы без изменений: они локальны и не имеют побочных эффектов.
// StorageError — неожиданные ошибки I/O, оборачивают причину.
package service

import (
	"errors"
	"fmt"
)

// ErrNotFound — запрошенная запись или владелец отсутствуют в индексе.
// Не фатальна: на HTTP-слое соответствует 404.
var ErrNotFound = errors.New("запись не найдена")

// StorageError — ошибка I/O при создании директорий, записи
// или удалении файлов. Фатальна для запроса, retry не выполняется.
type StorageError struct {
	// Op — операция, на которой произошла ошибка
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ошибка хранилища (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
