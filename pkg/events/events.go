package events

import (
	"sync"
	"time"

	"github.com/kdwils/stargazer/pkg/types"
)

// UpdateType represents the type of feed update
type UpdateType string

const (
	UpdateSnapshot UpdateType = "feed.snapshot"
	UpdateStatus   UpdateType = "feed.status"
)

// Update is one value published by the feed: either a freshly received
// snapshot or a connection-status change. The snapshot carried here is
// immutable; subscribers must not modify it.
type Update struct {
	Type      UpdateType
	Timestamp time.Time

	// Snapshot is set for UpdateSnapshot
	Snapshot types.Snapshot

	// State and Err describe the connection for UpdateStatus. Err is nil
	// for healthy transitions.
	State string
	Err   error
}

// Subscriber is a channel that receives updates
type Subscriber chan Update

// Broker fans updates out from the single feed writer to any number of
// consumers
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	updateCh    chan Update
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewBroker creates a new update broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		updateCh:    make(chan Update, 16),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker. Safe to call more than once.
func (b *Broker) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 16)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[sub] {
		delete(b.subscribers, sub)
		close(sub)
	}
}

// Publish publishes an update to all subscribers. Updates are delivered
// in publish order; a subscriber that cannot keep up misses updates
// rather than blocking the feed.
func (b *Broker) Publish(update Update) {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}

	select {
	case b.updateCh <- update:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case update := <-b.updateCh:
			b.broadcast(update)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(update Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- update:
		default:
			// Subscriber buffer full, skip
		}
	}
}
