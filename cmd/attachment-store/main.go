// Точка входа Attachment Store — подсистемы хранения вложений
// (документы и фотографии сотрудников).
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/techcorp/attachment-store/internal/api/handlers"
	"github.com/techcorp/attachment-store/internal/api/middleware"
	"github.com/techcorp/attachment-store/internal/config"
	"github.com/techcorp/attachment-store/internal/server"
	"github.com/techcorp/attachment-store/internal/service"
	"github.com/techcorp/attachment-store/internal/storage/index"
	"github.com/techcorp/attachment-store/internal/storage/sandbox"
	"github.com/techcorp/attachment-store/internal/validation"
)

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Attachment Store запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.Int64("max_file_size", cfg.MaxFileSize),
	)

	// --- Инициализация компонентов ---

	// 1. Sandbox — корень хранилища
	box, err := sandbox.New(cfg.DataDir)
	if err != nil {
		logger.Error("Ошибка инициализации sandbox", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. In-memory индекс вложений, восстановление из содержимого диска
	idx := index.New()
	if err := service.RebuildIndex(box, idx, logger); err != nil {
		logger.Error("Ошибка восстановления индекса", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Начальные значения бизнес-метрик
	middleware.AttachmentsTotal.WithLabelValues(middleware.KindDocument).Set(float64(idx.CountDocuments()))
	middleware.AttachmentsTotal.WithLabelValues(middleware.KindPhoto).Set(float64(idx.CountPhotos()))

	// 3. Сервисы
	docPolicy := validation.DocumentPolicy(cfg.MaxFileSize, cfg.AllowedExtensions)
	documentSvc := service.NewDocumentService(docPolicy, box, idx, logger)

	photoCache := service.NewPhotoCache(cfg.PhotoCacheSize, cfg.PhotoCacheTTL)
	photoSvc := service.NewPhotoService(box, idx, photoCache, logger)

	// 4. Handlers
	documentsHandler := handlers.NewDocumentsHandler(documentSvc)
	photosHandler := handlers.NewPhotosHandler(photoSvc)
	healthHandler := handlers.NewHealthHandler(box.Root(), idx)

	// 5. HTTP-сервер
	srv := server.New(cfg, logger, documentsHandler, photosHandler, healthHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
