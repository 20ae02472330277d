package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pecamax/backend-pecas/internal/events"
)

type captureNotifier struct {
	events []events.Event
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return c.err
}

func TestEmitDispatchesEvent(t *testing.T) {
	notifier := &captureNotifier{}
	fixed := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	bus := events.Bus{
		Notifiers: []events.Notifier{notifier},
		Now:       func() time.Time { return fixed },
	}

	aggregate := uuid.New()
	payload := map[string]any{"orderId": "123"}
	event, err := bus.Emit(context.Background(), events.TopicOrderPlaced, aggregate, payload)
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderPlaced, event.Topic)
	require.Equal(t, aggregate, event.AggregateID)
	require.Equal(t, fixed, event.OccurredAt)
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, notifier.events[0].ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	require.Equal(t, "123", decoded["orderId"])
}

func TestEmitRequiresTopicAndAggregate(t *testing.T) {
	bus := events.Bus{}
	_, err := bus.Emit(context.Background(), "  ", uuid.New(), nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), events.TopicCouponRedeemed, uuid.Nil, nil)
	require.Error(t, err)
}

func TestEmitJoinsNotifierErrors(t *testing.T) {
	failing := &captureNotifier{err: errors.New("boom")}
	ok := &captureNotifier{}
	bus := events.Bus{Notifiers: []events.Notifier{failing, ok}}

	_, err := bus.Emit(context.Background(), events.TopicOrderPlaced, uuid.New(), `{"total":10608}`)
	require.Error(t, err)
	require.Len(t, ok.events, 1, "later notifiers still run")
}

func TestEmitRejectsInvalidJSONPayload(t *testing.T) {
	bus := events.Bus{}
	_, err := bus.Emit(context.Background(), events.TopicOrderPlaced, uuid.New(), "not-json")
	require.Error(t, err)
}
