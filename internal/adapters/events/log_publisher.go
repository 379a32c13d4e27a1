package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
)

// LogPublisher writes events to the structured log instead of a broker. It is
// the default sink for local development.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, topic string, event domain.EventEnvelope) error {
	p.logger.Info().
		Str("topic", topic).
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Int64("restaurant_id", event.RestaurantID).
		Int64("order_id", event.OrderID).
		Msg("outbox publish")
	return nil
}
