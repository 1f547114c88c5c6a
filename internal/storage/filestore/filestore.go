// Пакет filestore — операции с физическими файлами на диске.
// Принимает только абсолютные пути, предварительно разрешённые
// через sandbox. Запись атомарна: temp файл → fsync → rename,
// упавшая запись не оставляет видимого частичного файла.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile атомарно записывает данные по указанному абсолютному пути.
// Директория создаётся при необходимости. Существующий файл по этому
// пути заменяется (для фотографий это намеренная семантика перезаписи).
// При ошибке temp файл удаляется.
func WriteFile(absPath string, data []byte) error {
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
	}

	tmpPath := absPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи данных: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return nil
}

// Open открывает файл для чтения. Вызывающий код обязан закрыть файл.
func Open(absPath string) (*os.File, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", absPath, err)
	}
	return f, nil
}

// ReadFile возвращает содержимое файла целиком.
func ReadFile(absPath string) ([]byte, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", absPath, err)
	}
	return data, nil
}

// Delete удаляет файл с диска. Отсутствие файла ошибкой не считается:
// цель операции — сойтись к состоянию «файла нет».
func Delete(absPath string) error {
	err := os.Remove(absPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", absPath, err)
	}
	return nil
}

// Exists проверяет существование файла на диске.
func Exists(absPath string) bool {
	_, err := os.Stat(absPath)
	return err == nil
}
