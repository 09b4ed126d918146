// Package events carries in-process change notifications between the data
// services and the UI, plus the debouncer used for autosave.
package events

import (
	"sync"
	"time"

	"github.com/dkarpov/plank/internal/types"
)

// Publisher is the send side of the notification channel. Services depend
// on this interface rather than the concrete notifier so tests can pass nil
// or a mock.
type Publisher interface {
	Publish(event Event)
}

// Notifier fans events out to in-process subscribers. Sends never block:
// a subscriber that has fallen behind misses intermediate events, which is
// fine because consumers re-read state on every notification anyway.
type Notifier struct {
	mu   sync.Mutex
	subs []chan Event
}

// Compile-time verification that *Notifier implements Publisher
var _ Publisher = (*Notifier)(nil)

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a new subscriber and returns its channel.
func (n *Notifier) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()
	return ch
}

// Publish delivers the event to every subscriber without blocking.
func (n *Notifier) Publish(event Event) {
	n.mu.Lock()
	subs := make([]chan Event, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes every subscriber channel. The notifier must not be used
// after Close.
func (n *Notifier) Close() {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// PublishChange sends a database-changed event for the given project.
// Safe to call with a nil publisher: notification is best-effort and
// optional everywhere.
func PublishChange(p Publisher, projectID types.ID) {
	if p == nil {
		return
	}
	p.Publish(Event{
		Type:      EventDatabaseChanged,
		ProjectID: projectID,
		Timestamp: time.Now(),
	})
}
