package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/websocket/state"
)

func TestBroadcastToPlayers_SkipsUnknownUsers(t *testing.T) {
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConns <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	server := <-serverConns
	defer server.Close()
	state.RegisterPlayer(300, server)
	defer state.UnregisterPlayer(300, server)

	BroadcastToPlayers([]uint{301, 300}, OutgoingMessage{Type: "ROUND_ADVANCED", Payload: map[string]int{"roundNumber": 2}})

	var got map[string]interface{}
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, "ROUND_ADVANCED", got["type"])
	assert.Equal(t, map[string]interface{}{"roundNumber": float64(2)}, got["payload"])
}
