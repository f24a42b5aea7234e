package message

import (
	"encoding/json"
)

const (
	TypePing        = "PING"
	TypePong        = "PONG"
	TypeLobbyState  = "LOBBY_STATE"
	TypeBattleState = "BATTLE_STATE"
	TypeError       = "ERROR"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type BattleStatePayload struct {
	LobbyID uint `json:"lobbyId"`
}

type ErrorPayload struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}
