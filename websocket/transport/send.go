package transport

import (
	"github.com/thesrcielos/CodeClash/websocket/state"
	"go.uber.org/zap"
)

type OutgoingMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// SendToPlayer writes msg to the user's connection on this instance. Users
// connected elsewhere, or not at all, are skipped.
func SendToPlayer(playerID uint, msg OutgoingMessage) {
	player := state.GetPlayer(playerID)
	if player == nil {
		return
	}

	player.ConnMu.Lock()
	defer player.ConnMu.Unlock()

	if err := player.Conn.WriteJSON(msg); err != nil {
		zap.L().Warn("error sending message",
			zap.Uint("user_id", playerID), zap.String("type", msg.Type), zap.Error(err))
	}
}

func BroadcastToPlayers(players []uint, msg OutgoingMessage) {
	for _, player := range players {
		SendToPlayer(player, msg)
	}
}
