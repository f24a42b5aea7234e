package router

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/battle"
	"github.com/thesrcielos/CodeClash/websocket/message"
	"github.com/thesrcielos/CodeClash/websocket/transport"
	"go.uber.org/zap"
)

type fakeLobbies struct {
	view *battle.LobbyView
	err  error
}

func (f *fakeLobbies) CurrentLobby(context.Context, uint) (*battle.LobbyView, error) {
	return f.view, f.err
}

type fakeBattles struct {
	lobbyID uint
	err     error
}

func (f *fakeBattles) State(_ context.Context, _ uint, lobbyID uint) (*battle.StateView, error) {
	f.lobbyID = lobbyID
	if f.err != nil {
		return nil, f.err
	}
	return &battle.StateView{IsHost: true}, nil
}

type sent struct {
	to  uint
	msg transport.OutgoingMessage
}

func newTestRouter(lobbies LobbyReader, battles BattleReader) (*Router, *[]sent) {
	var out []sent
	r := NewRouter(lobbies, battles, zap.NewNop())
	r.send = func(playerID uint, msg transport.OutgoingMessage) {
		out = append(out, sent{to: playerID, msg: msg})
	}
	return r, &out
}

func TestRouteMessage_Ping(t *testing.T) {
	r, out := newTestRouter(&fakeLobbies{}, &fakeBattles{})

	r.RouteMessage(context.Background(), 7, message.Message{Type: message.TypePing})

	require.Len(t, *out, 1)
	assert.Equal(t, uint(7), (*out)[0].to)
	assert.Equal(t, message.TypePong, (*out)[0].msg.Type)
}

func TestRouteMessage_LobbyState(t *testing.T) {
	lobby := &battle.LobbyView{ID: 3, InviteCode: "ABC123"}
	r, out := newTestRouter(&fakeLobbies{view: lobby}, &fakeBattles{})

	r.RouteMessage(context.Background(), 7, message.Message{Type: message.TypeLobbyState})

	require.Len(t, *out, 1)
	assert.Equal(t, message.TypeLobbyState, (*out)[0].msg.Type)
	assert.Equal(t, lobby, (*out)[0].msg.Payload)
}

func TestRouteMessage_BattleState(t *testing.T) {
	battles := &fakeBattles{}
	r, out := newTestRouter(&fakeLobbies{}, battles)

	r.RouteMessage(context.Background(), 7, message.Message{
		Type:    message.TypeBattleState,
		Payload: json.RawMessage(`{"lobbyId":12}`),
	})

	require.Len(t, *out, 1)
	assert.Equal(t, message.TypeBattleState, (*out)[0].msg.Type)
	assert.Equal(t, uint(12), battles.lobbyID)
}

func TestRouteMessage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		battles *fakeBattles
		msg     message.Message
		reason  string
	}{
		{
			name:    "unknown type",
			battles: &fakeBattles{},
			msg:     message.Message{Type: "MOVE"},
			reason:  "unknown_message",
		},
		{
			name:    "missing lobby id",
			battles: &fakeBattles{},
			msg:     message.Message{Type: message.TypeBattleState, Payload: json.RawMessage(`{}`)},
			reason:  "invalid_payload",
		},
		{
			name:    "service rejection",
			battles: &fakeBattles{err: apperrors.NewAppError(403, "you are not part of this battle", battle.ErrForbidden)},
			msg:     message.Message{Type: message.TypeBattleState, Payload: json.RawMessage(`{"lobbyId":1}`)},
			reason:  battle.ErrForbidden.Error(),
		},
		{
			name:    "internal failure",
			battles: &fakeBattles{err: errors.New("db down")},
			msg:     message.Message{Type: message.TypeBattleState, Payload: json.RawMessage(`{"lobbyId":1}`)},
			reason:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out := newTestRouter(&fakeLobbies{}, tt.battles)

			r.RouteMessage(context.Background(), 7, tt.msg)

			require.Len(t, *out, 1)
			assert.Equal(t, message.TypeError, (*out)[0].msg.Type)
			payload, ok := (*out)[0].msg.Payload.(message.ErrorPayload)
			require.True(t, ok)
			assert.Equal(t, tt.reason, payload.Reason)
		})
	}
}
