// Пакет config — загрузка и валидация конфигурации Attachment Store
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Attachment Store.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Корневая директория хранилища (sandbox root)
	DataDir string
	// Допустимые расширения документов (нижний регистр, без точки)
	AllowedExtensions []string
	// Максимальный размер документа в байтах
	MaxFileSize int64
	// Максимальное количество записей в LRU-кэше фотографий
	PhotoCacheSize int
	// TTL записи в кэше фотографий
	PhotoCacheTTL time.Duration
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}

	// AS_PORT — порт HTTP-сервера (по умолчанию 8080)
	port, err := getEnvInt("AS_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("AS_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("AS_PORT: значение %d вне допустимого диапазона 1-65535", port)
	}
	cfg.Port = port

	// AS_DATA_DIR — обязательный, корень хранилища
	cfg.DataDir, err = getEnvRequired("AS_DATA_DIR")
	if err != nil {
		return nil, err
	}

	// AS_ALLOWED_EXTENSIONS — список через запятую
	// (по умолчанию pdf,jpg,jpeg,png,csv,xml,txt)
	extensions := getEnvDefault("AS_ALLOWED_EXTENSIONS", "pdf,jpg,jpeg,png,csv,xml,txt")
	cfg.AllowedExtensions = parseExtensions(extensions)
	if len(cfg.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("AS_ALLOWED_EXTENSIONS: список расширений пуст")
	}

	// AS_MAX_FILE_SIZE — максимальный размер документа (по умолчанию 10 МиБ)
	maxFileSize, err := getEnvInt64("AS_MAX_FILE_SIZE", 10<<20)
	if err != nil {
		return nil, fmt.Errorf("AS_MAX_FILE_SIZE: %w", err)
	}
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("AS_MAX_FILE_SIZE: значение должно быть положительным")
	}
	cfg.MaxFileSize = maxFileSize

	// AS_PHOTO_CACHE_SIZE — размер LRU-кэша фотографий (по умолчанию 256)
	cacheSize, err := getEnvInt("AS_PHOTO_CACHE_SIZE", 256)
	if err != nil {
		return nil, fmt.Errorf("AS_PHOTO_CACHE_SIZE: %w", err)
	}
	if cacheSize <= 0 {
		return nil, fmt.Errorf("AS_PHOTO_CACHE_SIZE: значение должно быть положительным")
	}
	cfg.PhotoCacheSize = cacheSize

	// AS_PHOTO_CACHE_TTL — TTL кэша фотографий (по умолчанию 5m)
	cfg.PhotoCacheTTL, err = getEnvDuration("AS_PHOTO_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("AS_PHOTO_CACHE_TTL: %w", err)
	}

	// AS_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AS_LOG_LEVEL: %w", err)
	}

	// AS_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AS_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// AS_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AS_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AS_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseExtensions разбирает список расширений через запятую:
// нижний регистр, без точек, пустые элементы отбрасываются.
func parseExtensions(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		ext := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), ".")))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// parseLogLevel разбирает строковый уровень логирования.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("недопустимый уровень логирования: %q", s)
	}
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q", val)
	}
	return d, nil
}
