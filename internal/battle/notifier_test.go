package battle

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/websocket/transport"
	"go.uber.org/zap"
)

type delivery struct {
	userID uint
	msg    transport.OutgoingMessage
}

func recorder(out *[]delivery) deliverFunc {
	return func(users []uint, msg transport.OutgoingMessage) {
		for _, userID := range users {
			*out = append(*out, delivery{userID: userID, msg: msg})
		}
	}
}

func TestRedisNotifier_Dispatch(t *testing.T) {
	var got []delivery
	n := &RedisNotifier{logger: zap.NewNop(), deliver: recorder(&got)}

	encoded, err := json.Marshal(GameMessage{
		Type:    MsgRoundAdvanced,
		Payload: map[string]interface{}{"roundNumber": 2},
		Users:   []uint{4, 9},
	})
	require.NoError(t, err)
	n.dispatch(string(encoded))

	require.Len(t, got, 2)
	assert.Equal(t, uint(4), got[0].userID)
	assert.Equal(t, uint(9), got[1].userID)
	assert.Equal(t, MsgRoundAdvanced, got[0].msg.Type)
	raw, ok := got[0].msg.Payload.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"roundNumber":2}`, string(raw))
}

func TestRedisNotifier_DispatchIgnoresGarbage(t *testing.T) {
	var got []delivery
	n := &RedisNotifier{logger: zap.NewNop(), deliver: recorder(&got)}

	n.dispatch("not json")

	assert.Empty(t, got)
}

func TestLocalNotifier(t *testing.T) {
	var got []delivery
	n := &LocalNotifier{deliver: recorder(&got)}

	n.Notify(context.Background(), GameMessage{Type: MsgLobbyJoin, Payload: "hi", Users: []uint{3}})

	require.Len(t, got, 1)
	assert.Equal(t, uint(3), got[0].userID)
	assert.Equal(t, MsgLobbyJoin, got[0].msg.Type)
	assert.Equal(t, "hi", got[0].msg.Payload)
}
