package websocket

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/thesrcielos/CodeClash/websocket/message"
	"github.com/thesrcielos/CodeClash/websocket/state"
	"go.uber.org/zap"
)

func (h *Handler) listenPlayerMessages(ctx context.Context, playerID uint, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		state.UnregisterPlayer(playerID, conn)
		h.logger.Info("player disconnected", zap.Uint("user_id", playerID), zap.Int("connections", state.Count()))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("error reading message", zap.Uint("user_id", playerID), zap.Error(err))
			}
			break
		}

		var msg message.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("error decoding message", zap.Uint("user_id", playerID), zap.Error(err))
			continue
		}

		h.router.RouteMessage(ctx, playerID, msg)
	}
}
