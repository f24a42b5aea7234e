package battle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/CodeClash/websocket/transport"
	"go.uber.org/zap"
)

const messagesChannel = "messages"

const (
	MsgLobbyJoin         = "LOBBY_JOIN"
	MsgLobbyLeave        = "LOBBY_LEAVE"
	MsgLobbyClosed       = "LOBBY_CLOSED"
	MsgLobbyStarted      = "LOBBY_STARTED"
	MsgBattleStarted     = "BATTLE_STARTED"
	MsgOpponentSubmitted = "OPPONENT_SUBMITTED"
	MsgRoundAdvanced     = "ROUND_ADVANCED"
	MsgBattleFinished    = "BATTLE_FINISHED"
	MsgBattleAbandoned   = "BATTLE_ABANDONED"
)

// GameMessage is a push notification addressed to a set of users.
type GameMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Users   []uint      `json:"users"`
}

type Notifier interface {
	Notify(ctx context.Context, msg GameMessage)
}

type deliverFunc func(users []uint, msg transport.OutgoingMessage)

// RedisNotifier fans messages out through a Redis channel so every instance
// can reach the websocket clients connected to it.
type RedisNotifier struct {
	client  *redis.Client
	logger  *zap.Logger
	deliver deliverFunc
}

func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger, deliver: transport.BroadcastToPlayers}
}

func (n *RedisNotifier) Notify(ctx context.Context, msg GameMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("error encoding message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	if err := n.client.Publish(ctx, messagesChannel, payload).Err(); err != nil {
		n.logger.Error("error publishing message", zap.String("type", msg.Type), zap.Error(err))
	}
}

// Subscribe starts forwarding published messages to local clients until ctx
// is cancelled.
func (n *RedisNotifier) Subscribe(ctx context.Context) error {
	sub := n.client.Subscribe(ctx, messagesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("error subscribing: %w", err)
	}
	n.logger.Info("subscribed to messages channel")

	ch := sub.Channel()
	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	go func() {
		for msg := range ch {
			n.dispatch(msg.Payload)
		}
	}()
	return nil
}

func (n *RedisNotifier) dispatch(encoded string) {
	var message struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		Users   []uint          `json:"users"`
	}
	if err := json.Unmarshal([]byte(encoded), &message); err != nil {
		n.logger.Warn("error decoding message", zap.Error(err))
		return
	}
	n.deliver(message.Users, transport.OutgoingMessage{Type: message.Type, Payload: message.Payload})
}

// LocalNotifier delivers straight to this instance's clients. Used when no
// Redis is configured.
type LocalNotifier struct {
	deliver deliverFunc
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{deliver: transport.BroadcastToPlayers}
}

func (n *LocalNotifier) Notify(_ context.Context, msg GameMessage) {
	n.deliver(msg.Users, transport.OutgoingMessage{Type: msg.Type, Payload: msg.Payload})
}
