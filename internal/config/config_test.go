package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

// clearEnv сбрасывает все переменные конфигурации перед тестом.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"AS_PORT", "AS_DATA_DIR", "AS_ALLOWED_EXTENSIONS", "AS_MAX_FILE_SIZE",
		"AS_PHOTO_CACHE_SIZE", "AS_PHOTO_CACHE_TTL", "AS_LOG_LEVEL",
		"AS_LOG_FORMAT", "AS_SHUTDOWN_TIMEOUT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

// TestLoad_Defaults проверяет значения по умолчанию.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AS_DATA_DIR", "/var/lib/attachment-store")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.Port)
	}
	if cfg.DataDir != "/var/lib/attachment-store" {
		t.Errorf("DataDir: %q", cfg.DataDir)
	}
	wantExt := []string{"pdf", "jpg", "jpeg", "png", "csv", "xml", "txt"}
	if !reflect.DeepEqual(cfg.AllowedExtensions, wantExt) {
		t.Errorf("AllowedExtensions: ожидалось %v, получено %v", wantExt, cfg.AllowedExtensions)
	}
	if cfg.MaxFileSize != 10<<20 {
		t.Errorf("MaxFileSize: ожидалось %d, получено %d", 10<<20, cfg.MaxFileSize)
	}
	if cfg.PhotoCacheSize != 256 {
		t.Errorf("PhotoCacheSize: ожидалось 256, получено %d", cfg.PhotoCacheSize)
	}
	if cfg.PhotoCacheTTL != 5*time.Minute {
		t.Errorf("PhotoCacheTTL: ожидалось 5m, получено %v", cfg.PhotoCacheTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидалось info, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: %q", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout: %v", cfg.ShutdownTimeout)
	}
}

// TestLoad_DataDirRequired проверяет обязательность AS_DATA_DIR.
func TestLoad_DataDirRequired(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Error("ожидалась ошибка при отсутствии AS_DATA_DIR")
	}
}

// TestLoad_Overrides проверяет переопределение значений из окружения.
func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AS_DATA_DIR", "/data")
	t.Setenv("AS_PORT", "9090")
	t.Setenv("AS_ALLOWED_EXTENSIONS", "pdf, .DOCX ,txt")
	t.Setenv("AS_MAX_FILE_SIZE", "1048576")
	t.Setenv("AS_PHOTO_CACHE_TTL", "30s")
	t.Setenv("AS_LOG_LEVEL", "debug")
	t.Setenv("AS_LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port: %d", cfg.Port)
	}
	wantExt := []string{"pdf", "docx", "txt"}
	if !reflect.DeepEqual(cfg.AllowedExtensions, wantExt) {
		t.Errorf("AllowedExtensions: ожидалось %v, получено %v", wantExt, cfg.AllowedExtensions)
	}
	if cfg.MaxFileSize != 1048576 {
		t.Errorf("MaxFileSize: %d", cfg.MaxFileSize)
	}
	if cfg.PhotoCacheTTL != 30*time.Second {
		t.Errorf("PhotoCacheTTL: %v", cfg.PhotoCacheTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: %q", cfg.LogFormat)
	}
}

// TestLoad_InvalidValues проверяет отказ на некорректных значениях.
func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"порт не число", "AS_PORT", "abc"},
		{"порт вне диапазона", "AS_PORT", "70000"},
		{"отрицательный размер", "AS_MAX_FILE_SIZE", "-1"},
		{"некорректный TTL", "AS_PHOTO_CACHE_TTL", "пять минут"},
		{"неизвестный уровень логирования", "AS_LOG_LEVEL", "verbose"},
		{"неизвестный формат логов", "AS_LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("AS_DATA_DIR", "/data")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("ожидалась ошибка для %s=%q", tt.key, tt.value)
			}
		})
	}
}

// TestParseExtensions проверяет разбор списка расширений.
func TestParseExtensions(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"pdf,jpg", []string{"pdf", "jpg"}},
		{" PDF , .Jpg ", []string{"pdf", "jpg"}},
		{"pdf,,txt", []string{"pdf", "txt"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseExtensions(tt.input)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseExtensions(%q): ожидалось %v, получено %v", tt.input, tt.want, got)
		}
	}
}
