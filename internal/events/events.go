// Package events announces published rate tables.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ratesprovider/internal/rates"
)

// TablePublished is emitted after a refresh swaps in a new table.
type TablePublished struct {
	CycleID      string              `json:"cycle_id"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Entries      int                 `json:"entries"`
	BestGuess    *rates.ExchangeRate `json:"best_guess,omitempty"`
	StaleSources []string            `json:"stale_sources,omitempty"`
}

type Notifier interface {
	TablePublished(ctx context.Context, ev TablePublished) error
	Close() error
}

// Writer is the part of *kafka.Writer the notifier uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaNotifier struct {
	writer Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func NewKafkaNotifierWithWriter(w Writer) *KafkaNotifier {
	return &KafkaNotifier{writer: w}
}

func (k *KafkaNotifier) TablePublished(ctx context.Context, ev TablePublished) error {
	v, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.CycleID),
		Value: v,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish table event: %w", err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error { return k.writer.Close() }

// Nop discards events.
type Nop struct{}

func (Nop) TablePublished(context.Context, TablePublished) error { return nil }
func (Nop) Close() error                                        { return nil }
