package events

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"
	"rentfy/config"
	"rentfy/infras/kafka"
	"rentfy/infras/metrics"
	"rentfy/infras/otel"
	"rentfy/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTopic        = "rentfy.bookings"
	defaultEventTimeout = 5 * time.Second

	resultSent   = "sent"
	resultFailed = "failed"
)

// Publisher emits booking lifecycle events. Publishing never blocks or fails the caller.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent)
}

type publisherImpl struct {
	client  kafka.Client
	otel    otel.Otel
	enabled bool
	topic   string
	timeout time.Duration
}

func NewPublisher(cfg *config.Config, client kafka.Client, otl otel.Otel) Publisher {
	timeout := defaultEventTimeout
	if cfg.App.Booking.EventTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.App.Booking.EventTimeoutSeconds) * time.Second
	}

	return &publisherImpl{
		client:  client,
		otel:    otl,
		enabled: cfg.Kafka.Enable,
		topic:   Topic(cfg),
		timeout: timeout,
	}
}

// Topic returns the configured bookings topic.
func Topic(cfg *config.Config) string {
	if cfg.Kafka.Topic != "" {
		return cfg.Kafka.Topic
	}

	return defaultTopic
}

func (p *publisherImpl) Publish(ctx context.Context, event BookingEvent) {
	if !p.enabled {
		return
	}

	go func() {
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		c, scope := p.otel.NewScope(c, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttribute("event_type", string(event.Type))

		err := p.client.SendMessages(c, p.topic, kafka.Message{Key: event.BookingID, Value: event})
		if err != nil {
			scope.TraceError(err)
			metrics.EventsPublished.WithLabelValues(string(event.Type), resultFailed).Inc()

			log.Error().Err(err).Str("type", string(event.Type)).Str("booking_id", event.BookingID).Msg("failed to publish booking event")

			return
		}

		metrics.EventsPublished.WithLabelValues(string(event.Type), resultSent).Inc()
	}()
}
