package store

import "sync"

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// listeners delivers values to registered callbacks in registration order.
type listeners[T any] struct {
	mu      sync.Mutex
	next    int
	entries []listenerEntry[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	id := l.next
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners[T]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, entry := range l.entries {
		if entry.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// notify runs outside the lock so a listener may unsubscribe itself.
func (l *listeners[T]) notify(value T) {
	l.mu.Lock()
	entries := make([]listenerEntry[T], len(l.entries))
	copy(entries, l.entries)
	l.mu.Unlock()

	for _, entry := range entries {
		entry.fn(value)
	}
}
