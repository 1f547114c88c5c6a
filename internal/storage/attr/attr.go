// Пакет attr — чтение и запись сопутствующих файлов метаданных (attr.json).
// Каждый документ в хранилище имеет рядом <stored>.attr.json —
// источник истины для восстановления индекса при старте процесса.
// Запись атомарна: temp → fsync → rename.
package attr

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/techcorp/attachment-store/internal/domain/model"
	"github.com/techcorp/attachment-store/internal/storage/filestore"
)

// Suffix — суффикс файла метаданных.
const Suffix = ".attr.json"

// maxAttrFileSize — максимальный допустимый размер attr.json (4 КБ).
// Ограничение гарантирует атомарность записи.
const maxAttrFileSize = 4096

// FilePath возвращает путь к attr.json для данного файла документа.
// Пример: "/data/documents/a_b.com/scan_1a2b3c4d.pdf" → ".../scan_1a2b3c4d.pdf.attr.json"
func FilePath(dataFilePath string) string {
	return dataFilePath + Suffix
}

// IsAttrFile проверяет, является ли путь файлом метаданных.
func IsAttrFile(path string) bool {
	return strings.HasSuffix(path, Suffix)
}

// Write атомарно записывает метаданные записи в attr.json файл.
// Возвращает ошибку, если сериализованные данные превышают 4 КБ.
func Write(path string, rec *model.AttachmentRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации метаданных: %w", err)
	}

	if len(data) > maxAttrFileSize {
		return fmt.Errorf("размер attr.json (%d байт) превышает максимум (%d байт)", len(data), maxAttrFileSize)
	}

	return filestore.WriteFile(path, data)
}

// Read читает и десериализует метаданные из attr.json файла.
func Read(path string) (*model.AttachmentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения attr.json %s: %w", path, err)
	}

	var rec model.AttachmentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ошибка разбора attr.json %s: %w", path, err)
	}

	return &rec, nil
}

// Delete удаляет attr.json файл. Отсутствие файла ошибкой не считается.
func Delete(path string) error {
	return filestore.Delete(path)
}

// ScanDir рекурсивно сканирует директорию документов и возвращает
// все найденные записи. Используется при rebuild индекса на старте.
// AbsolutePath каждой записи пересчитывается из фактического
// расположения attr.json — путь в содержимом мог устареть
// (например, после переноса директории данных).
// Повреждённые attr.json пропускаются, об их наличии сообщает
// второй результат.
func ScanDir(documentsDir string) ([]*model.AttachmentRecord, int, error) {
	var records []*model.AttachmentRecord
	skipped := 0

	err := filepath.WalkDir(documentsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				// Директории ещё нет — пустое хранилище
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !IsAttrFile(path) {
			return nil
		}

		rec, readErr := Read(path)
		if readErr != nil {
			skipped++
			return nil
		}

		dataPath := strings.TrimSuffix(path, Suffix)
		if !filestore.Exists(dataPath) {
			// Осиротевший attr.json без файла данных
			skipped++
			return nil
		}

		rec.AbsolutePath = dataPath
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, skipped, fmt.Errorf("ошибка сканирования директории %s: %w", documentsDir, err)
	}

	return records, skipped, nil
}
