package names

import (
	"strings"
	"testing"
)

// TestSanitizeOwnerKey проверяет санацию ключа владельца.
func TestSanitizeOwnerKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"обычный email", "a@b.com", "a@b.com"},
		{"верхний регистр", "John.Doe@TechCorp.PL", "john.doe@techcorp.pl"},
		{"недопустимые символы", "user name@b.com/..", "user_name@b.com_.."},
		{"traversal", "../../etc/passwd", ".._.._etc_passwd"},
		{"пустая строка", "", UnknownOwner},
		{"кириллица", "иван@b.com", "____@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeOwnerKey(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeOwnerKey(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestSanitizeBaseName проверяет санацию базового имени файла.
func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"обычное имя", "scan-2026.v2", "scan-2026.v2"},
		{"пробелы и скобки", "umowa (final) ", "umowa__final__"},
		{"разделители путей", "a/b\\c", "a_b_c"},
		{"пустая строка", "", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeBaseName(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeBaseName(%q) = %q, ожидалось %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestGenerateStoredName проверяет формат и уникальность имени хранения.
func TestGenerateStoredName(t *testing.T) {
	name1 := GenerateStoredName("contract", "pdf")
	name2 := GenerateStoredName("contract", "pdf")

	if name1 == name2 {
		t.Error("повторная генерация дала одинаковые имена")
	}
	if !strings.HasPrefix(name1, "contract_") {
		t.Errorf("имя должно начинаться с базы: %s", name1)
	}
	if !strings.HasSuffix(name1, ".pdf") {
		t.Errorf("имя должно сохранять расширение: %s", name1)
	}

	// Суффикс — ровно 8 символов между базой и расширением
	middle := strings.TrimSuffix(strings.TrimPrefix(name1, "contract_"), ".pdf")
	if len(middle) != 8 {
		t.Errorf("ожидался 8-символьный суффикс, получен %q", middle)
	}
}

// TestGenerateStoredName_NoExtension проверяет имя без расширения.
func TestGenerateStoredName_NoExtension(t *testing.T) {
	name := GenerateStoredName("README", "")
	if strings.Contains(name, ".") {
		t.Errorf("имя без расширения не должно содержать точку: %s", name)
	}
	if !strings.HasPrefix(name, "README_") {
		t.Errorf("имя должно начинаться с базы: %s", name)
	}
}

// TestPhotoStoredName проверяет детерминированное имя фотографии.
func TestPhotoStoredName(t *testing.T) {
	tests := []struct {
		name  string
		owner string
		ext   string
		want  string
	}{
		{"jpg", "a@b.com", "jpg", "a@b.com.jpg"},
		{"нормализация jpeg", "a@b.com", "jpeg", "a@b.com.jpg"},
		{"png", "a@b.com", "png", "a@b.com.png"},
		{"верхний регистр расширения", "a@b.com", "PNG", "a@b.com.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhotoStoredName(tt.owner, tt.ext)
			if got != tt.want {
				t.Errorf("PhotoStoredName(%q, %q) = %q, ожидалось %q", tt.owner, tt.ext, got, tt.want)
			}
		})
	}

	// Детерминированность: два вызова дают одно имя
	if PhotoStoredName("a@b.com", "jpg") != PhotoStoredName("a@b.com", "jpg") {
		t.Error("имя фотографии должно быть детерминированным")
	}
}

// TestExtension проверяет извлечение расширения.
func TestExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.JPG", "jpg"},
		{"archive.tar.gz", "gz"},
		{"README", ""},
		{"trailing.", ""},
	}

	for _, tt := range tests {
		if got := Extension(tt.in); got != tt.want {
			t.Errorf("Extension(%q) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}
}

// TestBaseName проверяет извлечение имени без расширения.
func TestBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo"},
		{"archive.tar.gz", "archive.tar"},
		{"README", "README"},
	}

	for _, tt := range tests {
		if got := BaseName(tt.in); got != tt.want {
			t.Errorf("BaseName(%q) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}
}
