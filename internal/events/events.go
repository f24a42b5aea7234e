package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	KindSolo   = "solo"
	KindBattle = "battle"

	OutcomeWin        = "win"
	OutcomeLoss       = "loss"
	OutcomeDraw       = "draw"
	OutcomeTerminated = "terminated"
)

// MatchEvent describes a finished single-player session or battle.
type MatchEvent struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	MatchID    uint      `json:"match_id"`
	Users      []uint    `json:"users"`
	Scores     []int     `json:"scores"`
	WinnerID   *uint     `json:"winner_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Language   string    `json:"language"`
	Difficulty string    `json:"difficulty"`
	Type       string    `json:"game_type"`
	FinishedAt time.Time `json:"finished_at"`
}

// Key groups every event of one match on the same partition.
func (e MatchEvent) Key() string {
	return e.Kind + "-" + strconv.FormatUint(uint64(e.MatchID), 10)
}

type Publisher interface {
	Publish(ctx context.Context, event MatchEvent)
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer MessageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(writer MessageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Publish never fails the caller: the match is already committed, so a
// broker error is only logged.
func (p *KafkaPublisher) Publish(ctx context.Context, event MatchEvent) {
	if err := p.write(ctx, event); err != nil {
		p.logger.Error("failed to publish match event",
			zap.String("kind", event.Kind),
			zap.Uint("match_id", event.MatchID),
			zap.Error(err))
	}
}

func (p *KafkaPublisher) write(ctx context.Context, event MatchEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.FinishedAt.IsZero() {
		event.FinishedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: payload,
		Time:  event.FinishedAt,
	})
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, MatchEvent) {}
