// rebuild.go — восстановление индекса из содержимого диска при старте.
//
// Документы восстанавливаются из attr.json, лежащих рядом с файлами;
// фотографии — из листинга директории photos: детерминированное имя
// {owner}.{ext} делает сам файл носителем метаданных.
package service

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/techcorp/attachment-store/internal/storage/attr"
	"github.com/techcorp/attachment-store/internal/storage/index"
	"github.com/techcorp/attachment-store/internal/storage/names"
	"github.com/techcorp/attachment-store/internal/storage/sandbox"
)

// RebuildIndex сканирует sandbox и заполняет индекс. Вызывается один раз
// при старте процесса до приёма HTTP-трафика. Повреждённые или
// осиротевшие attr.json пропускаются с предупреждением в логе.
func RebuildIndex(box *sandbox.Sandbox, idx *index.Index, logger *slog.Logger) error {
	log := logger.With(slog.String("component", "index_rebuild"))

	documentsDir, err := box.Resolve(dirDocuments)
	if err != nil {
		return err
	}

	records, skipped, err := attr.ScanDir(documentsDir)
	if err != nil {
		return fmt.Errorf("восстановление документов: %w", err)
	}
	if skipped > 0 {
		log.Warn("Пропущены повреждённые или осиротевшие attr.json",
			slog.Int("skipped", skipped),
		)
	}

	photos, err := scanPhotosDir(box)
	if err != nil {
		return fmt.Errorf("восстановление фотографий: %w", err)
	}

	idx.Build(records, photos)

	log.Info("Индекс вложений восстановлен",
		slog.Int("documents", len(records)),
		slog.Int("photos", len(photos)),
	)

	return nil
}

// scanPhotosDir строит отображение владелец → имя файла фотографии
// из листинга директории photos. Временные и служебные файлы пропускаются.
func scanPhotosDir(box *sandbox.Sandbox) (map[string]string, error) {
	photosDir, err := box.Resolve(dirPhotos)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(photosDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("ошибка листинга директории %s: %w", photosDir, err)
	}

	photos := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tmp") {
			continue
		}
		ext := names.Extension(name)
		if ext != "jpg" && ext != "png" {
			continue
		}
		owner := names.BaseName(name)
		photos[owner] = name
	}

	return photos, nil
}
