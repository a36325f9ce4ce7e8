package querycache

import (
	"context"
	"sync"
	"time"
)

// Middleware оборачивает Requester дополнительным поведением.
type Middleware func(Requester) Requester

// Chain объединяет middleware в одну: первая в списке оказывается
// внешней и видит запрос первой.
func Chain(mws ...Middleware) Middleware {
	return func(next Requester) Requester {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

type debounceWindow struct {
	timer *time.Timer
	done  chan struct{}
	// Контекст последнего вызова окна: запрос окна переживает отмену
	// ранних вызовов, он уходит с контекстом самого свежего.
	ctx  context.Context
	data any
	err  error
}

// Debounce гасит всплески запросов одного ключа: запрос уходит, когда
// в течение d не было новых вызовов. Все вызовы окна ждут этот один
// запрос и получают его результат. Новое окно не видит результатов
// предыдущего.
func Debounce(d time.Duration) Middleware {
	return func(next Requester) Requester {
		var mu sync.Mutex
		windows := make(map[string]*debounceWindow)

		return RequesterFunc(func(ctx context.Context, key Key) (any, error) {
			ks := key.String()

			mu.Lock()
			w, ok := windows[ks]
			if !ok {
				w = &debounceWindow{done: make(chan struct{}), ctx: ctx}
				win := w
				w.timer = time.AfterFunc(d, func() {
					mu.Lock()
					delete(windows, ks)
					fetchCtx := win.ctx
					mu.Unlock()
					win.data, win.err = next.Do(fetchCtx, key)
					close(win.done)
				})
				windows[ks] = w
			} else {
				w.ctx = ctx
				w.timer.Reset(d)
			}
			mu.Unlock()

			select {
			case <-w.done:
				return w.data, w.err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
	}
}

// Memoize запоминает успешные результаты по ключу на все время жизни
// процесса: повторный запрос того же ключа не уходит в сеть. Ошибки
// не запоминаются.
func Memoize() Middleware {
	return func(next Requester) Requester {
		var mu sync.RWMutex
		results := make(map[string]any)

		return RequesterFunc(func(ctx context.Context, key Key) (any, error) {
			ks := key.String()

			mu.RLock()
			v, ok := results[ks]
			mu.RUnlock()
			if ok {
				return v, nil
			}

			data, err := next.Do(ctx, key)
			if err != nil {
				return nil, err
			}

			mu.Lock()
			results[ks] = data
			mu.Unlock()
			return data, nil
		})
	}
}
