package state

import (
	"sync"

	"github.com/gorilla/websocket"
)

// PlayerState is the live websocket connection of one user on this instance.
type PlayerState struct {
	ID     uint
	Conn   *websocket.Conn
	ConnMu sync.Mutex
}

var (
	players   = make(map[uint]*PlayerState)
	playersMu sync.RWMutex
)

// RegisterPlayer stores conn as the user's connection and returns the one it
// replaced, if any.
func RegisterPlayer(id uint, conn *websocket.Conn) *PlayerState {
	playersMu.Lock()
	defer playersMu.Unlock()

	previous := players[id]
	players[id] = &PlayerState{
		ID:   id,
		Conn: conn,
	}
	return previous
}

// UnregisterPlayer removes the user only while conn is still the registered
// connection, so a stale reader cannot drop a newer one.
func UnregisterPlayer(id uint, conn *websocket.Conn) {
	playersMu.Lock()
	defer playersMu.Unlock()

	if p, ok := players[id]; ok && p.Conn == conn {
		delete(players, id)
	}
}

func GetPlayer(id uint) *PlayerState {
	playersMu.RLock()
	defer playersMu.RUnlock()

	return players[id]
}

func Count() int {
	playersMu.RLock()
	defer playersMu.RUnlock()

	return len(players)
}
