package download

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_EmitsInSubscriptionOrder(t *testing.T) {
	var s signal[int]
	var calls []string

	s.connect(func(v int) { calls = append(calls, "first") })
	s.connect(func(v int) { calls = append(calls, "second") })
	s.emit(1)

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestSignal_Unsubscribe(t *testing.T) {
	var s signal[int]
	count := 0

	sub := s.connect(func(int) { count++ })
	s.emit(1)
	sub.Unsubscribe()
	sub.Unsubscribe()
	s.emit(2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, s.len())
}

func TestSignal_UnsubscribeDuringEmit(t *testing.T) {
	var s signal[int]
	var second *Subscription
	secondCalled := false

	s.connect(func(int) { second.Unsubscribe() })
	second = s.connect(func(int) { secondCalled = true })
	s.emit(1)

	assert.False(t, secondCalled)
	assert.Equal(t, 1, s.len())
}

func TestSubscription_NilIsSafe(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Unsubscribe)
}

func TestTransferSignals(t *testing.T) {
	var signals TransferSignals
	var events []string
	boom := errors.New("boom")

	signals.OnProgress(func() { events = append(events, "progress") })
	signals.OnDestinationChanged(func() { events = append(events, "destination") })
	signals.OnResponse(func() { events = append(events, "response") })
	signals.OnFinished(func() { events = append(events, "finished") })
	signals.OnFailed(func(err error) { events = append(events, "failed:"+err.Error()) })

	signals.EmitResponse()
	signals.EmitDestinationChanged()
	signals.EmitProgress()
	signals.EmitFinished()
	signals.EmitFailed(boom)

	assert.Equal(t, []string{"response", "destination", "progress", "finished", "failed:boom"}, events)
	assert.Equal(t, 1, signals.ProgressSubscribers())
	assert.Equal(t, 1, signals.DestinationSubscribers())
}
