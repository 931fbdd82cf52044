package events

import (
	"context"
	"rentfy/config"
	"rentfy/infras/kafka"

	"github.com/rs/zerolog/log"
)

// Worker drains the bookings topic into a Consumer.
type Worker struct {
	client   kafka.Client
	consumer *Consumer
	group    string
	topic    string
	enabled  bool
}

func NewWorker(cfg *config.Config, client kafka.Client, consumer *Consumer) *Worker {
	return &Worker{
		client:   client,
		consumer: consumer,
		group:    cfg.Kafka.ConsumerGroup,
		topic:    Topic(cfg),
		enabled:  cfg.Kafka.Enable,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if !w.enabled {
		log.Warn().Msg("Kafka is disabled, booking event worker has nothing to do")

		<-ctx.Done()

		return
	}

	log.Info().Str("topic", w.topic).Str("group", w.group).Msg("Starting booking event worker")

	w.client.Consume(ctx, w.group, w.topic, w.consumer.Handle)

	log.Info().Msg("Booking event worker stopped")
}

func (w *Worker) Close() error {
	return w.client.Close()
}
