package router

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/battle"
	"github.com/thesrcielos/CodeClash/websocket/message"
	"github.com/thesrcielos/CodeClash/websocket/transport"
	"go.uber.org/zap"
)

type LobbyReader interface {
	CurrentLobby(ctx context.Context, userID uint) (*battle.LobbyView, error)
}

type BattleReader interface {
	State(ctx context.Context, userID, lobbyID uint) (*battle.StateView, error)
}

type handlerFunc func(ctx context.Context, playerID uint, msg message.Message) (string, interface{}, error)

// Router answers client messages on a player's socket. Every reply goes back
// to the sender only.
type Router struct {
	lobbies  LobbyReader
	battles  BattleReader
	logger   *zap.Logger
	send     func(playerID uint, msg transport.OutgoingMessage)
	handlers map[string]handlerFunc
}

func NewRouter(lobbies LobbyReader, battles BattleReader, logger *zap.Logger) *Router {
	r := &Router{
		lobbies: lobbies,
		battles: battles,
		logger:  logger,
		send:    transport.SendToPlayer,
	}
	r.handlers = map[string]handlerFunc{
		message.TypePing:        r.handlePing,
		message.TypeLobbyState:  r.handleLobbyState,
		message.TypeBattleState: r.handleBattleState,
	}
	return r
}

func (r *Router) RouteMessage(ctx context.Context, playerID uint, msg message.Message) {
	handler, ok := r.handlers[msg.Type]
	if !ok {
		r.logger.Debug("unknown message type", zap.Uint("user_id", playerID), zap.String("type", msg.Type))
		r.replyError(playerID, apperrors.NewAppError(400, "unknown message type", errors.New("unknown_message")))
		return
	}
	replyType, payload, err := handler(ctx, playerID, msg)
	if err != nil {
		r.replyError(playerID, err)
		return
	}
	r.send(playerID, transport.OutgoingMessage{Type: replyType, Payload: payload})
}

func (r *Router) handlePing(_ context.Context, _ uint, _ message.Message) (string, interface{}, error) {
	return message.TypePong, nil, nil
}

func (r *Router) handleLobbyState(ctx context.Context, playerID uint, _ message.Message) (string, interface{}, error) {
	lobby, err := r.lobbies.CurrentLobby(ctx, playerID)
	if err != nil {
		return "", nil, err
	}
	return message.TypeLobbyState, lobby, nil
}

func (r *Router) handleBattleState(ctx context.Context, playerID uint, msg message.Message) (string, interface{}, error) {
	var payload message.BattleStatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.LobbyID == 0 {
		return "", nil, apperrors.NewAppError(400, "lobbyId is required", errors.New("invalid_payload"))
	}
	state, err := r.battles.State(ctx, playerID, payload.LobbyID)
	if err != nil {
		return "", nil, err
	}
	return message.TypeBattleState, state, nil
}

func (r *Router) replyError(playerID uint, err error) {
	out := message.ErrorPayload{Error: "internal error", Reason: "internal_error"}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		out.Reason = appErr.Reason()
		if appErr.Code < 500 {
			out.Error = appErr.Message
		}
	}
	if out.Reason == "internal_error" {
		r.logger.Error("error handling socket message", zap.Uint("user_id", playerID), zap.Error(err))
	}
	r.send(playerID, transport.OutgoingMessage{Type: message.TypeError, Payload: out})
}
