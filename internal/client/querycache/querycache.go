// Package querycache реализует клиентский кеш запросов: объединение
// конкурентных запросов одного ключа через singleflight, хранение
// результата вместе с ошибкой и временем обновления, прямые записи
// и инвалидация.
package querycache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key идентифицирует запрос: конечная точка и параметры.
type Key struct {
	Endpoint string
	Params   map[string]string
}

// String возвращает каноническую строковую форму ключа: параметры
// сортируются, поэтому одинаковые запросы дают одинаковые строки.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Endpoint
	}
	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.Endpoint)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(k.Params[name])
	}
	return b.String()
}

// Requester выполняет запрос по ключу.
type Requester interface {
	Do(ctx context.Context, key Key) (any, error)
}

// RequesterFunc адаптер функции к интерфейсу Requester.
type RequesterFunc func(ctx context.Context, key Key) (any, error)

// Do вызывает саму функцию.
func (f RequesterFunc) Do(ctx context.Context, key Key) (any, error) {
	return f(ctx, key)
}

// Entry состояние ключа в кеше: данные или ошибка последнего запроса.
type Entry struct {
	Data      any
	Err       error
	Loading   bool
	UpdatedAt time.Time
}

// Cache кеш запросов поверх Requester. Конкурентные обращения к одному
// ключу разделяют один сетевой запрос и один результат.
type Cache struct {
	requester Requester
	group     singleflight.Group

	mu      sync.RWMutex
	entries map[string]*Entry
	// Счетчик поколений ключа: запрос, переживший инвалидацию,
	// не записывает устаревший результат в кеш.
	gens map[string]uint64
}

// New создает Cache поверх requester. Middleware применяются к
// requester в порядке перечисления.
func New(requester Requester, mws ...Middleware) *Cache {
	return &Cache{
		requester: Chain(mws...)(requester),
		entries:   make(map[string]*Entry),
		gens:      make(map[string]uint64),
	}
}

// Fetch возвращает результат запроса по ключу. Все конкурентные
// вызовы с одним ключом ждут один общий запрос. Результат, включая
// ошибку, записывается в кеш.
func (c *Cache) Fetch(ctx context.Context, key Key) (any, error) {
	ks := key.String()
	c.setLoading(ks)

	v, err, _ := c.group.Do(ks, func() (any, error) {
		gen := c.nextGen(ks)
		data, ferr := c.requester.Do(ctx, key)
		c.store(ks, gen, data, ferr)
		return data, ferr
	})
	return v, err
}

// Lookup возвращает текущее состояние ключа без запроса.
func (c *Cache) Lookup(key Key) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Put записывает данные по ключу напрямую, минуя запрос.
func (c *Cache) Put(key Key, data any) {
	ks := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[ks]++
	c.entries[ks] = &Entry{Data: data, UpdatedAt: time.Now()}
}

// Invalidate удаляет состояние ключа. Запрос, оставшийся в полете,
// уже не запишет результат в кеш.
func (c *Cache) Invalidate(key Key) {
	ks := key.String()
	c.group.Forget(ks)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[ks]++
	delete(c.entries, ks)
}

func (c *Cache) setLoading(ks string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ks]
	if !ok {
		e = &Entry{}
		c.entries[ks] = e
	}
	e.Loading = true
}

func (c *Cache) nextGen(ks string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[ks]++
	return c.gens[ks]
}

func (c *Cache) store(ks string, gen uint64, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[ks] != gen {
		return
	}
	c.entries[ks] = &Entry{Data: data, Err: err, UpdatedAt: time.Now()}
}
