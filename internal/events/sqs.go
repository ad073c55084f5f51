package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// MessageSender is satisfied by *aws.Publisher.
type MessageSender interface {
	SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error
}

// SQS publishes events as JSON messages through an SQS sender.
type SQS struct {
	sender MessageSender
}

// NewSQS returns a Publisher backed by sender.
func NewSQS(sender MessageSender) *SQS {
	return &SQS{sender: sender}
}

func (p *SQS) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"event_type":     string(ev.Type),
		"entity_id":      ev.EntityID,
		"correlation_id": ev.CorrelationID,
	}
	if err := p.sender.SendMessage(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
