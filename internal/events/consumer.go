package events

import (
	"context"
	"rentfy/infras/kafka"
	"rentfy/infras/metrics"
	bookingModel "rentfy/internal/domains/booking/model"
	"rentfy/shared"
	"rentfy/shared/cache"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer keeps booking caches consistent across replicas by replaying published events.
type Consumer struct {
	cache cache.RedisCache
}

func NewConsumer(cache cache.RedisCache) *Consumer {
	return &Consumer{cache: cache}
}

// Handle processes one message. Undecodable messages are logged and skipped.
func (c *Consumer) Handle(ctx context.Context, msg kafkaGo.Message) {
	key, event, err := kafka.DecodeKafkaMessage[BookingEvent](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("skipping malformed booking event")

		return
	}

	bookingID := event.BookingID
	if bookingID == "" {
		bookingID = key
	}

	metrics.EventsConsumed.WithLabelValues(string(event.Type)).Inc()

	if err := c.cache.Delete(ctx, shared.BuildCacheKey(bookingModel.CacheGet, bookingID)); err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to evict booking from cache")
	}

	log.Info().
		Str("type", string(event.Type)).
		Str("booking_id", bookingID).
		Str("status", event.Status).
		Str("payment_status", event.PaymentStatus).
		Msg("booking event processed")
}
