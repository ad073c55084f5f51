package main

import (
	"context"
	"fmt"
	"log"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-grubdash/internal/aws"
	"github.com/imrishuroy/go-grubdash/internal/config"
	"github.com/imrishuroy/go-grubdash/internal/dishes"
	"github.com/imrishuroy/go-grubdash/internal/events"
	"github.com/imrishuroy/go-grubdash/internal/httpapi"
	"github.com/imrishuroy/go-grubdash/internal/idempotency"
	"github.com/imrishuroy/go-grubdash/internal/logger"
	"github.com/imrishuroy/go-grubdash/internal/orders"
	"github.com/imrishuroy/go-grubdash/internal/store"
	"github.com/imrishuroy/go-grubdash/internal/tracing"
)

// newPublisher builds the events publisher selected by EVENTS_BACKEND. The
// returned func releases its connection.
func newPublisher(ctx context.Context, cfg config.Config) (events.Publisher, func() error, error) {
	switch cfg.EventsBackend {
	case config.EventsSQS:
		clients, err := aws.NewAWSClients(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("init aws clients: %w", err)
		}
		return events.NewSQS(aws.NewPublisher(clients.SQS, cfg.EventsQueueURL)), func() error { return nil }, nil
	case config.EventsAMQP:
		p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	}
	return events.Nop{}, func() error { return nil }, nil
}

func setupRouter(cfg config.Config, zl *zap.Logger, tracer trace.Tracer, pub events.Publisher) *gin.Engine {
	var dishSeed []dishes.Dish
	var orderSeed []orders.Order
	if cfg.SeedData {
		dishSeed, orderSeed = dishes.Seed(), orders.Seed()
	}

	return httpapi.NewRouter(httpapi.Options{
		Log:         zl,
		Tracer:      tracer,
		Idempotency: idempotency.NewStore(cfg.IdempotencyTTL),
		Dishes: dishes.HandlerConfig{
			Store:     store.New(dishes.Key, dishSeed...),
			Publisher: pub,
		},
		Orders: orders.HandlerConfig{
			Store:     store.New(orders.Key, orderSeed...),
			Publisher: pub,
		},
	})
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	var tracer trace.Tracer
	if cfg.TracingEnabled {
		t, shutdown, err := tracing.Init(cfg.ServiceName, os.Stdout)
		if err != nil {
			zl.Fatal("failed to init tracing", zap.Error(err))
		}
		defer func() { _ = shutdown(ctx) }()
		tracer = t
	}

	pub, closePub, err := newPublisher(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to init events publisher", zap.String("backend", cfg.EventsBackend), zap.Error(err))
	}
	defer func() { _ = closePub() }()

	r := setupRouter(cfg, zl, tracer, pub)

	// RUN_LOCAL=true serves plain HTTP for development.
	if cfg.RunLocal {
		zl.Info("running local server", zap.String("addr", cfg.Addr), zap.String("events", cfg.EventsBackend))
		if err := r.Run(cfg.Addr); err != nil {
			zl.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
