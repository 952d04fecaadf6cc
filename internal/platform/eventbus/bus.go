// internal/platform/eventbus/bus.go
package eventbus

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	evdom "github.com/murakami-kaito-dev/bouldering-app-sub001/internal/domain/event"
)

// Handler consumes one domain event. Returning an error fails the Publish
// call that dispatched it; the bus never retries.
type Handler func(ctx context.Context, ev evdom.Event) error

// Bus is an in-process publish/subscribe registry.
//
// NOTE:
// - DI で明示的に組み立てて注入する（グローバル状態は持たない）
// - 永続化しない: 行削除と Publish の間でプロセスが落ちると
//   クリーンアップ意図は失われる（既知のギャップ、仕様通り）
type Bus struct {
	mu       sync.RWMutex
	handlers map[evdom.Kind][]Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[evdom.Kind][]Handler)}
}

// Subscribe registers a handler for the given event kind. Multiple handlers
// per kind are allowed and dispatched independently.
func (b *Bus) Subscribe(kind evdom.Kind, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Publish dispatches ev to every handler registered for its kind and waits
// for all of them. With no handlers it is an immediate no-op. The first
// handler error is returned; there is no internal retry.
func (b *Bus) Publish(ctx context.Context, ev evdom.Event) error {
	if ev == nil {
		return nil
	}

	b.mu.RLock()
	hs := b.handlers[ev.Kind()]
	b.mu.RUnlock()

	if len(hs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, h := range hs {
		h := h
		g.Go(func() error {
			return h(gctx, ev)
		})
	}
	return g.Wait()
}
