package preview

import "sync/atomic"

// Slot publishes the latest finished result of a series of runs. A run
// takes a ticket with Begin before it starts and hands its result to
// Publish when done; only the newest ticket may publish, so a slow stale run
// can never replace a newer result. Readers always see either nil or a
// complete value.
type Slot[T any] struct {
	issued atomic.Uint64
	cur    atomic.Pointer[published[T]]
}

type published[T any] struct {
	ticket uint64
	value  *T
}

// Begin returns a ticket newer than every ticket issued before.
func (s *Slot[T]) Begin() uint64 {
	return s.issued.Add(1)
}

// Publish stores v if ticket is still the newest. It reports whether v was
// stored. The caller must not modify v afterwards.
func (s *Slot[T]) Publish(ticket uint64, v *T) bool {
	next := &published[T]{ticket: ticket, value: v}
	for {
		if ticket != s.issued.Load() {
			return false
		}
		old := s.cur.Load()
		if old != nil && old.ticket >= ticket {
			return false
		}
		if s.cur.CompareAndSwap(old, next) {
			return true
		}
	}
}

// Load returns the published value, or nil before the first publish.
func (s *Slot[T]) Load() *T {
	if p := s.cur.Load(); p != nil {
		return p.value
	}
	return nil
}

// Ticket returns the ticket of the published value, 0 if none.
func (s *Slot[T]) Ticket() uint64 {
	if p := s.cur.Load(); p != nil {
		return p.ticket
	}
	return 0
}
