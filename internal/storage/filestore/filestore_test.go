package filestore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestWriteFile проверяет атомарную запись с созданием директорий.
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents", "a@b.com", "scan_1a2b3c4d.pdf")
	content := []byte("содержимое документа")

	if err := WriteFile(path, content); err != nil {
		t.Fatalf("ошибка записи: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ошибка чтения файла: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Error("содержимое файла не совпадает")
	}

	// Temp файл не должен остаться после записи
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp файл не удалён после записи")
	}
}

// TestWriteFile_Overwrite проверяет замену существующего файла.
func TestWriteFile_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")

	if err := WriteFile(path, []byte("первая версия")); err != nil {
		t.Fatalf("ошибка записи: %v", err)
	}
	if err := WriteFile(path, []byte("вторая версия")); err != nil {
		t.Fatalf("ошибка перезаписи: %v", err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if string(data) != "вторая версия" {
		t.Errorf("ожидалась вторая версия, получено %q", data)
	}
}

// TestDelete проверяет удаление и идемпотентность для отсутствующего файла.
func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := WriteFile(path, []byte("data")); err != nil {
		t.Fatalf("ошибка записи: %v", err)
	}

	if err := Delete(path); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if Exists(path) {
		t.Error("файл существует после удаления")
	}

	// Повторное удаление — не ошибка
	if err := Delete(path); err != nil {
		t.Errorf("удаление отсутствующего файла не должно быть ошибкой: %v", err)
	}
}

// TestOpen_NotExist проверяет ошибку открытия отсутствующего файла.
func TestOpen_NotExist(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("ожидалась ошибка открытия отсутствующего файла")
	}
}
