// Package aibus fans out unsolicited CAT pushes (AI-mode frames) to every
// connected rigctl session and any in-process subscriber.
package aibus

import (
	"sync"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/catlink"
	"github.com/KJ5HST/FTX-1-Hamlib/pkg/logging"
)

// Subscriber receives one AI-mode frame at a time, in the order CatLink
// produced them. Delivery is best-effort: an error is logged and does not
// stop delivery to the others. Subscribers are called one after another,
// so a slow subscriber delays every later one and the caller of Publish.
type Subscriber interface {
	DeliverAI(raw string) error
}

// Bus holds a copy-on-write subscriber list. Publish runs on CatLink's
// reader goroutine and calls the subscribers there without holding the
// lock, so the reader waits until every subscriber has returned.
type Bus struct {
	mu          sync.Mutex
	subscribers []Subscriber
	log         *logging.Logger
}

// New constructs an empty Bus.
func New(log *logging.Logger) *Bus {
	if log == nil {
		log = logging.GetGlobalLogger()
	}
	return &Bus{log: log}
}

// Subscribe registers a subscriber and returns an unsubscribe function.
func (b *Bus) Subscribe(s Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	next := make([]Subscriber, len(b.subscribers)+1)
	copy(next, b.subscribers)
	next[len(next)-1] = s
	b.subscribers = next
	b.mu.Unlock()

	return func() { b.unsubscribe(s) }
}

func (b *Bus) unsubscribe(target Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := make([]Subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		if s != target {
			next = append(next, s)
		}
	}
	b.subscribers = next
}

// Publish is registered with CatLink via SubscribeAI and delivers one frame
// to every current subscriber, failing each independently.
func (b *Bus) Publish(frame catlink.Frame) {
	b.mu.Lock()
	subs := b.subscribers
	b.mu.Unlock()

	raw := "AI:" + frame.Raw()
	for _, s := range subs {
		if err := s.DeliverAI(raw); err != nil {
			b.log.Warnf("aibus", "dropping subscriber after delivery error: %v", err)
		}
	}
}
