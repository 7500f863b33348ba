package notify

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "notify").Logger()

const (
	ChannelStaff = "staff"

	EventNewOrder          = "newOrder"
	EventOrderApproved     = "orderApproved"
	EventOrderCancelled    = "orderCancelled"
	EventTableStatusUpdate = "tableStatusUpdate"
	EventNewNotification   = "newNotification"
)

// GuestChannel addresses the per-session guest channel for an order's
// originating client.
func GuestChannel(sessionID string) string {
	return "guest:" + sessionID
}

type Event struct {
	Event   string      `json:"event"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}

type (
	// Notifier fans lifecycle events out to channel-addressed listeners.
	// Publishing is fire-and-forget: it runs strictly after commit and its
	// failure never affects committed state.
	Notifier interface {
		Publish(ctx context.Context, channel, event string, data interface{})
	}

	kafkaNotifier struct {
		writer *kafka.Writer
	}
)

func NewKafkaNotifier(brokers []string, topic string) Notifier {
	return &kafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (n *kafkaNotifier) Publish(ctx context.Context, channel, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Channel: channel, Data: data})
	if err != nil {
		logger.Error().Err(err).Str("event", event).Msg("event marshal failed")
		return
	}

	msg := kafka.Message{
		Key:   []byte(channel),
		Value: payload,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Str("event", event).Str("channel", channel).Msg("event publish failed")
	}
}
