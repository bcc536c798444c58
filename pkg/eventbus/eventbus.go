package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is anything published on the bus.
type Event interface {
	Name() string
}

// Listener handles one event. Returned errors are logged, never propagated to
// the publisher.
type Listener func(ctx context.Context, event Event) error

type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   time.Minute,
		logger:    logger,
	}
}

// WithTimeout bounds how long each listener may run.
func (b *Bus) WithTimeout(d time.Duration) *Bus {
	b.timeout = d
	return b
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish runs every subscriber of the event in its own goroutine. Listeners
// get a fresh context so they outlive the request that triggered them.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event listener panicked",
						zap.String("event", event.Name()),
						zap.Any("panic", r),
					)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("event listener failed",
					zap.String("event", event.Name()),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait blocks until all listeners started so far have returned. Used on
// shutdown and in tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}
