package watcher

import "context"

// slots bounds how many jobs run at once.
type slots struct {
	ch chan struct{}
}

func newSlots(n int) *slots {
	if n <= 0 {
		n = 1
	}
	return &slots{ch: make(chan struct{}, n)}
}

// take blocks until a slot is free or ctx is done.
func (s *slots) take(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *slots) put() { <-s.ch }

// busy is the number of slots currently taken.
func (s *slots) busy() int { return len(s.ch) }

func (s *slots) size() int { return cap(s.ch) }
