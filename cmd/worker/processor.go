package main

import (
	"context"
	"encoding/json"
	"fmt"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-grubdash/internal/events"
)

const (
	metricName    = "LifecycleEvents"
	metricDimName = "EventType"
)

// CountPutter is satisfied by *aws.Metrics.
type CountPutter interface {
	PutCounts(ctx context.Context, metricName, dimension string, counts map[string]int) error
}

// Processor turns batches of lifecycle events into CloudWatch counters.
type Processor struct {
	metrics CountPutter
	log     *zap.Logger
}

// NewProcessor returns a Processor reporting to metrics.
func NewProcessor(metrics CountPutter, log *zap.Logger) *Processor {
	return &Processor{metrics: metrics, log: log}
}

// Handle counts the events of a batch by type and publishes the totals.
// Undecodable messages are returned as batch item failures so only they are
// retried; a metrics failure fails the whole batch.
func (p *Processor) Handle(ctx context.Context, ev lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var resp lambdaevents.SQSEventResponse
	counts := map[string]int{}

	for _, rec := range ev.Records {
		e, err := decode(rec)
		if err != nil {
			p.log.Warn("skip message", zap.String("message_id", rec.MessageId), zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
			continue
		}
		p.log.Info("event received",
			zap.String("type", string(e.Type)),
			zap.String("entity_id", e.EntityID),
			zap.String("correlation_id", e.CorrelationID),
		)
		counts[string(e.Type)]++
	}

	if err := p.metrics.PutCounts(ctx, metricName, metricDimName, counts); err != nil {
		return lambdaevents.SQSEventResponse{}, fmt.Errorf("publish counts: %w", err)
	}
	return resp, nil
}

func decode(rec lambdaevents.SQSMessage) (events.Event, error) {
	var e events.Event
	if err := json.Unmarshal([]byte(rec.Body), &e); err != nil {
		return events.Event{}, fmt.Errorf("invalid message body: %w", err)
	}
	if e.Type == "" || e.EntityID == "" {
		return events.Event{}, fmt.Errorf("message %s is missing type or entity id", rec.MessageId)
	}
	return e, nil
}
