package queue

import (
	"context"
	"fmt"
	"sync"

	dto "ekklesia_backend/internals/features/quality/dto"
)

const memoryBusRedeliveryLimit = 3

type memoryDelivery struct {
	req      dto.RecalculationRequest
	attempts int
}

// MemoryBus is a channel-backed Bus for tests and queue-less dev runs.
// It mimics the broker contract the consumers are written against:
// at-least-once delivery (failed handlers are re-enqueued up to a cap)
// and no ordering guarantees across workers.
type MemoryBus struct {
	ch     chan memoryDelivery
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	subbed bool
}

func NewMemoryBus(buffer int) *MemoryBus {
	if buffer < 1 {
		buffer = 1024
	}
	return &MemoryBus{ch: make(chan memoryDelivery, buffer)}
}

func (b *MemoryBus) Publish(ctx context.Context, req dto.RecalculationRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.enqueue(memoryDelivery{req: req})
}

// enqueue is non-blocking and holds the lock across the send so Close can
// never shut the channel under an in-flight send.
func (b *MemoryBus) enqueue(d memoryDelivery) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("memory bus closed")
	}
	select {
	case b.ch <- d:
		return nil
	default:
		return fmt.Errorf("memory bus full")
	}
}

func (b *MemoryBus) Subscribe(ctx context.Context, workers int, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler required")
	}
	if workers < 1 {
		workers = 1
	}

	b.mu.Lock()
	if b.subbed {
		b.mu.Unlock()
		return fmt.Errorf("memory bus already subscribed")
	}
	b.subbed = true
	b.mu.Unlock()

	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for d := range b.ch {
				if err := handler(ctx, d.req); err != nil {
					d.attempts++
					if d.attempts < memoryBusRedeliveryLimit {
						_ = b.enqueue(d) // best-effort redelivery
					}
				}
			}
		}()
	}
	return nil
}

// Close stops accepting publishes and waits for in-flight work to drain.
func (b *MemoryBus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.ch)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
