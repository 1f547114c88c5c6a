// cache.go — LRU-кэш содержимого фотографий с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
//
// Фотографии отдаются браузеру inline и запрашиваются заметно чаще,
// чем загружаются; кэш снимает повторное чтение с диска.
// Инвалидация выполняется при перезаписи и удалении фотографии.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	photoCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "as_photo_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш фотографий.",
	})
	photoCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "as_photo_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша фотографий.",
	})
)

// photoEntry — закэшированная фотография.
type photoEntry struct {
	// storedName — имя файла на диске на момент кэширования
	storedName string
	data       []byte
}

// PhotoCache — LRU-кэш байтов фотографий по ключу владельца.
type PhotoCache struct {
	cache *expirable.LRU[string, photoEntry]
}

// NewPhotoCache создаёт LRU-кэш с указанным максимальным размером и TTL.
func NewPhotoCache(maxSize int, ttl time.Duration) *PhotoCache {
	return &PhotoCache{
		cache: expirable.NewLRU[string, photoEntry](maxSize, nil, ttl),
	}
}

// Get возвращает фотографию владельца из кэша.
// Обновляет Prometheus-метрики hit/miss.
func (c *PhotoCache) Get(ownerKey string) (photoEntry, bool) {
	entry, ok := c.cache.Get(ownerKey)
	if ok {
		photoCacheHitsTotal.Inc()
		return entry, true
	}
	photoCacheMissesTotal.Inc()
	return photoEntry{}, false
}

// Set добавляет или обновляет фотографию в кэше.
func (c *PhotoCache) Set(ownerKey, storedName string, data []byte) {
	c.cache.Add(ownerKey, photoEntry{storedName: storedName, data: data})
}

// Invalidate удаляет фотографию владельца из кэша.
func (c *PhotoCache) Invalidate(ownerKey string) {
	c.cache.Remove(ownerKey)
}
