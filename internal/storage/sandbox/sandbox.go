// Пакет sandbox — контроль путей внутри корневой директории хранилища.
//
// Все компоненты, работающие с диском, обязаны строить пути через Resolve.
// Ни один компонент не собирает путь для I/O конкатенацией строк:
// это единственная точка защиты от path traversal через
// имена файлов и идентификаторы владельцев.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EscapeError — попытка выхода за пределы корневой директории.
// При корректной санации имён недостижима: возникновение означает
// баг санитайзера, а не ошибку клиента.
type EscapeError struct {
	// Root — корень, за пределы которого указывал путь
	Root string
	// Attempted — нормализованный путь, не прошедший проверку
	Attempted string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("путь %q выходит за пределы корня %q", e.Attempted, e.Root)
}

// Sandbox — резолвер путей под фиксированным корнем.
type Sandbox struct {
	// root — абсолютный нормализованный корень хранилища
	root string
}

// New создаёт Sandbox с указанным корнем. Корень приводится к абсолютному
// нормализованному виду и создаётся на диске, если отсутствует.
func New(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить абсолютный путь %s: %w", root, err)
	}
	abs = filepath.Clean(abs)

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать корневую директорию %s: %w", abs, err)
	}

	return &Sandbox{root: abs}, nil
}

// Root возвращает абсолютный корень хранилища.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve соединяет сегменты относительно корня и нормализует результат.
// Возвращает EscapeError, если нормализованный путь не является
// потомком корня (например, из-за ".." или абсолютного сегмента).
func (s *Sandbox) Resolve(segments ...string) (string, error) {
	parts := append([]string{s.root}, segments...)
	resolved := filepath.Clean(filepath.Join(parts...))

	if resolved != s.root && !strings.HasPrefix(resolved, s.root+string(filepath.Separator)) {
		return "", &EscapeError{Root: s.root, Attempted: resolved}
	}

	// Нулевые байты недопустимы в путях и отвергаются до обращения к ОС.
	for _, seg := range segments {
		if strings.ContainsRune(seg, 0) {
			return "", &EscapeError{Root: s.root, Attempted: resolved}
		}
	}

	return resolved, nil
}
