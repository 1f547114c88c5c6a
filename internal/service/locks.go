// locks.go — сериализация операций записи по ключу владельца.
package service

import "sync"

// ownerLocks — набор мьютексов по ключу владельца.
// Операции store/delete для одного владельца выполняются строго
// по очереди (запись на диск до мутации индекса), операции разных
// владельцев идут параллельно, включая одновременные записи на диск.
// Мьютексы не освобождаются: количество владельцев ограничено
// числом сотрудников, накладные расходы незначительны.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock захватывает мьютекс владельца и возвращает функцию освобождения.
func (l *ownerLocks) Lock(ownerKey string) func() {
	l.mu.Lock()
	m, ok := l.locks[ownerKey]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ownerKey] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
