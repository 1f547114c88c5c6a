package validation

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// docPolicy — типовая политика документов для тестов.
func docPolicy() Policy {
	return DocumentPolicy(1024, []string{"pdf", "csv", "txt", "jpg"})
}

// reasonOf извлекает причину отказа или падает, если ошибка другого типа.
func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var invalid *InvalidFileError
	if !errors.As(err, &invalid) {
		t.Fatalf("ожидался *InvalidFileError, получен %T: %v", err, err)
	}
	return invalid.Reason
}

// TestValidate_Empty проверяет отказ для пустого содержимого.
func TestValidate_Empty(t *testing.T) {
	err := Validate(nil, "empty.csv", "text/csv", docPolicy())
	if got := reasonOf(t, err); got != ReasonEmpty {
		t.Errorf("ожидалась причина %s, получена %s", ReasonEmpty, got)
	}
}

// TestValidate_SizeBoundary проверяет границу лимита размера:
// ровно maxSizeBytes принимается, maxSizeBytes+1 отклоняется.
func TestValidate_SizeBoundary(t *testing.T) {
	policy := docPolicy()

	atLimit := bytes.Repeat([]byte("x"), int(policy.MaxSizeBytes))
	if err := Validate(atLimit, "doc.txt", "text/plain", policy); err != nil {
		t.Errorf("файл размером ровно в лимит должен приниматься: %v", err)
	}

	overLimit := bytes.Repeat([]byte("x"), int(policy.MaxSizeBytes)+1)
	err := Validate(overLimit, "doc.txt", "text/plain", policy)
	if got := reasonOf(t, err); got != ReasonTooLarge {
		t.Errorf("ожидалась причина %s, получена %s", ReasonTooLarge, got)
	}
}

// TestValidate_MissingName проверяет отказ для пустого имени файла.
func TestValidate_MissingName(t *testing.T) {
	tests := []string{"", "   "}
	for _, name := range tests {
		err := Validate([]byte("data"), name, "", docPolicy())
		if got := reasonOf(t, err); got != ReasonMissingName {
			t.Errorf("имя %q: ожидалась причина %s, получена %s", name, ReasonMissingName, got)
		}
	}
}

// TestValidate_NameLength проверяет лимит длины имени файла:
// имя попадает в attr.json целиком и не может быть неограниченным.
func TestValidate_NameLength(t *testing.T) {
	atLimit := strings.Repeat("a", MaxNameLength-4) + ".pdf"
	if err := Validate([]byte("data"), atLimit, "", docPolicy()); err != nil {
		t.Errorf("имя длиной ровно %d байт должно проходить: %v", MaxNameLength, err)
	}

	overLimit := strings.Repeat("a", MaxNameLength-3) + ".pdf"
	err := Validate([]byte("data"), overLimit, "", docPolicy())
	if got := reasonOf(t, err); got != ReasonNameTooLong {
		t.Errorf("ожидалась причина %s, получена %s", ReasonNameTooLong, got)
	}
}

// TestValidate_Extension проверяет allow-list расширений.
func TestValidate_Extension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantOK   bool
	}{
		{"допустимое расширение", "report.pdf", true},
		{"верхний регистр", "report.PDF", true},
		{"недопустимое расширение", "shell.sh", false},
		{"без расширения", "README", false},
		{"двойное расширение", "report.pdf.exe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte("data"), tt.filename, "", docPolicy())
			if tt.wantOK {
				if err != nil {
					t.Errorf("неожиданный отказ: %v", err)
				}
				return
			}
			if got := reasonOf(t, err); got != ReasonExtensionNotAllowed {
				t.Errorf("ожидалась причина %s, получена %s", ReasonExtensionNotAllowed, got)
			}
		})
	}
}

// TestValidate_ContentType проверяет сверку Content-Type с расширением
// по фиксированной таблице.
func TestValidate_ContentType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantOK      bool
	}{
		{"jpg и image", "photo.jpg", "image/jpeg", true},
		{"jpg и не-image", "photo.jpg", "application/pdf", false},
		{"pdf точное совпадение", "doc.pdf", "application/pdf", true},
		{"pdf и text", "doc.pdf", "text/plain", false},
		{"csv как text", "data.csv", "text/plain", true},
		{"csv как application/csv", "data.csv", "application/csv", true},
		{"csv и image", "data.csv", "image/png", false},
		{"txt и text", "note.txt", "text/plain; charset=utf-8", true},
		{"не задан — пропускается", "doc.pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte("data"), tt.filename, tt.contentType, docPolicy())
			if tt.wantOK {
				if err != nil {
					t.Errorf("неожиданный отказ: %v", err)
				}
				return
			}
			if got := reasonOf(t, err); got != ReasonContentTypeMismatch {
				t.Errorf("ожидалась причина %s, получена %s", ReasonContentTypeMismatch, got)
			}
		})
	}
}

// TestValidate_PhotoSignature проверяет бинарную сигнатуру фотографий:
// подмена Content-Type не проходит, корректные JPEG/PNG проходят.
func TestValidate_PhotoSignature(t *testing.T) {
	policy := PhotoPolicy()

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"JPEG заголовок", []byte{0xFF, 0xD8, 0xFF}, false},
		{"PNG сигнатура", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, false},
		{"текст вместо изображения", []byte("not an image"), true},
		{"обрезанная PNG сигнатура", []byte{0x89, 0x50, 0x4E}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data, "photo.jpg", "image/jpeg", policy)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("неожиданный отказ: %v", err)
				}
				return
			}
			if got := reasonOf(t, err); got != ReasonBadSignature {
				t.Errorf("ожидалась причина %s, получена %s", ReasonBadSignature, got)
			}
		})
	}
}

// TestPhotoPolicy проверяет фиксированные параметры политики фотографий.
func TestPhotoPolicy(t *testing.T) {
	policy := PhotoPolicy()

	if policy.MaxSizeBytes != 2<<20 {
		t.Errorf("лимит фотографий: ожидалось %d, получено %d", 2<<20, policy.MaxSizeBytes)
	}
	if !policy.SniffImage {
		t.Error("политика фотографий должна требовать проверку сигнатуры")
	}

	// gif вне allow-list фотографий
	err := Validate([]byte{0xFF, 0xD8}, "photo.gif", "image/gif", policy)
	if got := reasonOf(t, err); got != ReasonExtensionNotAllowed {
		t.Errorf("ожидалась причина %s, получена %s", ReasonExtensionNotAllowed, got)
	}
}
