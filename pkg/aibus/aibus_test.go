package aibus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KJ5HST/FTX-1-Hamlib/pkg/catlink"
)

type recordingSubscriber struct {
	received []string
	failNext bool
}

func (r *recordingSubscriber) DeliverAI(raw string) error {
	if r.failNext {
		r.failNext = false
		return errors.New("write failed")
	}
	r.received = append(r.received, raw)
	return nil
}

func TestPublishFanOut(t *testing.T) {
	bus := New(nil)
	a := &recordingSubscriber{}
	b := &recordingSubscriber{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(catlink.Frame{Code: "FA", Payload: "014074000"})

	assert.Equal(t, []string{"AI:FA014074000"}, a.received)
	assert.Equal(t, []string{"AI:FA014074000"}, b.received)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New(nil)
	a := &recordingSubscriber{}
	unsubscribe := bus.Subscribe(a)

	unsubscribe()
	bus.Publish(catlink.Frame{Code: "MD", Payload: "02"})

	assert.Empty(t, a.received)
}

func TestFailingSubscriberDoesNotBlockOthers(t *testing.T) {
	bus := New(nil)
	a := &recordingSubscriber{failNext: true}
	b := &recordingSubscriber{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(catlink.Frame{Code: "FA", Payload: "007000000"})

	assert.Empty(t, a.received)
	assert.Equal(t, []string{"AI:FA007000000"}, b.received)
}
