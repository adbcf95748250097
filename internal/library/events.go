package library

import "sync"

// Event is a zero-payload change signal: re-read the named collection.
type Event string

const (
	EventGamesUpdated Event = "gamesUpdated"
	EventStatsUpdated Event = "statsUpdated"
)

const subscriberBuffer = 16

type subscriber struct {
	ch     chan Event
	events map[Event]bool
	once   sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

type notifier struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	next   int
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]*subscriber)}
}

// subscribe registers for the given events, or for all when none are given.
// The returned cancel func is idempotent and closes the channel.
func (n *notifier) subscribe(events ...Event) (<-chan Event, func()) {
	s := &subscriber{ch: make(chan Event, subscriberBuffer)}
	if len(events) > 0 {
		s.events = make(map[Event]bool, len(events))
		for _, e := range events {
			s.events[e] = true
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		s.close()
		return s.ch, func() {}
	}

	id := n.next
	n.next++
	n.subs[id] = s

	return s.ch, func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
		s.close()
	}
}

// publish never blocks: a subscriber with a full buffer already has a
// pending "re-read" signal, so dropping the duplicate loses nothing.
func (n *notifier) publish(e Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	for _, s := range n.subs {
		if s.events != nil && !s.events[e] {
			continue
		}
		select {
		case s.ch <- e:
		default:
		}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true

	for id, s := range n.subs {
		delete(n.subs, id)
		s.close()
	}
}
