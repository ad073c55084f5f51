package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNew(t *testing.T) {
	ev := New(OrderDeleted, "42")
	if ev.Resource != "order" || ev.EntityID != "42" || ev.Type != OrderDeleted {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.ID == "" || ev.OccurredAt.IsZero() {
		t.Fatal("expected id and timestamp")
	}
}

type fakeSender struct {
	body  string
	attrs map[string]string
	err   error
}

func (f *fakeSender) SendMessage(ctx context.Context, body string, attrs map[string]string) error {
	f.body, f.attrs = body, attrs
	return f.err
}

func TestSQS_Publish(t *testing.T) {
	sender := &fakeSender{}
	ev := New(DishCreated, "abc")
	ev.CorrelationID = "req-1"

	if err := NewSQS(sender).Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	var got Event
	if err := json.Unmarshal([]byte(sender.body), &got); err != nil {
		t.Fatalf("body is not an event: %v", err)
	}
	if got.EntityID != "abc" || got.Type != DishCreated {
		t.Fatalf("unexpected body %+v", got)
	}
	if sender.attrs["event_type"] != "dish.created" || sender.attrs["correlation_id"] != "req-1" {
		t.Fatalf("unexpected attributes %v", sender.attrs)
	}
}

func TestSQS_PublishError(t *testing.T) {
	boom := errors.New("throttled")
	err := NewSQS(&fakeSender{err: boom}).Publish(context.Background(), New(OrderCreated, "1"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	closed        bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQP_PublishRoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQP{ch: ch, exchange: "restaurant_events"}
	ev := New(OrderUpdated, "7")

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if ch.exchange != "restaurant_events" || ch.key != "order.updated" {
		t.Fatalf("unexpected routing %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp.Persistent || ch.msg.MessageId != ev.ID {
		t.Fatalf("unexpected publishing %+v", ch.msg)
	}
	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("expected channel closed, err=%v", err)
	}
}
