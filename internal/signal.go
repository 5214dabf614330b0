package internal

import "sync"

// Signal is a payloadless broadcast telling observers the order collection
// changed. Every live subscriber gets its own channel; Publish never blocks,
// an undelivered nudge coalesces with the next one.
type Signal struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func NewSignal() *Signal {
	return &Signal{subs: make(map[int]chan struct{})}
}

// Subscribe returns the notification channel and a detach func. Detaching is
// idempotent and releases the subscriber; the channel stops receiving after.
func (s *Signal) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++

	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Signal) Publish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
