package syncer

import "sync"

// Change is broadcast after every notifying mirror write. Store carries
// the mirror key that changed.
type Change struct {
	Store string `json:"store"`
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// Bus is the in-process change feed owned by the engine. Listeners run
// synchronously on the publishing goroutine and must not block; anything
// slow belongs on the listener's own goroutine.
type Bus struct {
	mu   sync.RWMutex
	next uint64
	subs []subscriber
}

// NewBus returns a Bus without listeners.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it again.
// The returned function is safe to call more than once.
func (b *Bus) Subscribe(fn func(Change)) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers c to every listener in subscription order.
func (b *Bus) Publish(c Change) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(c)
	}
}

// Notify lets the Bus act as the mirror's notifier.
func (b *Bus) Notify(key string) {
	b.Publish(Change{Store: key})
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
