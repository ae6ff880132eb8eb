package eventbus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type stockMoved struct {
	SKU   string
	Delta int
}

func TestPublish_DeliversToMatchingSubscriber(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var received []stockMoved
	bus.Subscribe(func(e stockMoved) {
		received = append(received, e)
	})

	bus.Publish(stockMoved{SKU: "BRK-001", Delta: -2})
	require.Len(t, received, 1)
	require.Equal(t, "BRK-001", received[0].SKU)
	require.Equal(t, -2, received[0].Delta)
}

func TestPublish_SkipsNonMatchingSubscriber(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	called := false
	bus.Subscribe(func(e struct{ Other string }) {
		called = true
	})

	bus.Publish(stockMoved{SKU: "BRK-001"})
	require.False(t, called)
}

func TestPublish_RecoversFromPanickingHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var delivered int
	bus.Subscribe(func(e stockMoved) {
		panic("boom")
	})
	bus.Subscribe(func(e stockMoved) {
		delivered++
	})

	require.NotPanics(t, func() {
		bus.Publish(stockMoved{SKU: "BRK-001"})
	})
	require.Equal(t, 1, delivered)
}

func TestSubscribe_RejectsNonFunction(t *testing.T) {
	bus := NewEventPublisher(logrus.New())
	require.Panics(t, func() {
		bus.Subscribe("not a function")
	})
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	handler := func(e stockMoved) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())
}

func TestClear(t *testing.T) {
	bus := NewEventPublisher(logrus.New())
	bus.Subscribe(func(e stockMoved) {})
	bus.Subscribe(func(e stockMoved, extra string) {})
	require.Equal(t, 2, bus.SubscribersCount())

	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	handler := func(e stockMoved) {}
	require.True(t, MatchSignature(handler, []interface{}{stockMoved{}}))
	require.False(t, MatchSignature(handler, []interface{}{"wrong type"}))
	require.False(t, MatchSignature(handler, []interface{}{stockMoved{}, "extra"}))
	require.False(t, MatchSignature("not a func", []interface{}{stockMoved{}}))
}
