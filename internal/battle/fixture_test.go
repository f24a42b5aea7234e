package battle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/events"
	"github.com/thesrcielos/CodeClash/internal/prompt"
	"github.com/thesrcielos/CodeClash/internal/round"
	"github.com/thesrcielos/CodeClash/internal/testdb"
	"github.com/thesrcielos/CodeClash/internal/user"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	lobbies   *LobbyService
	battles   *BattleService
	notifier  *NotifierMock
	generator *challenge.GeneratorMock
	evaluator *challenge.EvaluatorMock
	publisher *events.PublisherMock
	host      *user.User
	guest     *user.User
	outsider  *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t, &user.User{}, &Lobby{}, &Battle{}, &BattleRound{})

	notifier := &NotifierMock{}
	notifier.On("Notify", mock.Anything, mock.Anything).Return().Maybe()
	generator := &challenge.GeneratorMock{}
	evaluator := &challenge.EvaluatorMock{}
	resolver := &prompt.ResolverMock{}
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(prompt.Set{Challenge: "make one", Scoring: "score it"})
	publisher := &events.PublisherMock{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return().Maybe()

	f := &fixture{
		db:        db,
		lobbies:   NewLobbyService(db, notifier, zap.NewNop()),
		battles:   NewBattleService(db, generator, evaluator, resolver, notifier, publisher, zap.NewNop()),
		notifier:  notifier,
		generator: generator,
		evaluator: evaluator,
		publisher: publisher,
	}
	f.host = f.createUser(t, "host")
	f.guest = f.createUser(t, "guest")
	f.outsider = f.createUser(t, "outsider")
	return f
}

func (f *fixture) createUser(t *testing.T, name string) *user.User {
	t.Helper()
	u := &user.User{Username: name, Password: "x", Role: user.RoleUser}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) reloadUser(t *testing.T, id uint) user.User {
	t.Helper()
	var u user.User
	require.NoError(t, f.db.First(&u, id).Error)
	return u
}

func (f *fixture) reloadLobby(t *testing.T, id uint) *Lobby {
	t.Helper()
	lobby, err := findLobby(f.db, id)
	require.NoError(t, err)
	return lobby
}

// fullLobby creates a lobby hosted by f.host with f.guest seated.
func (f *fixture) fullLobby(t *testing.T) *LobbyView {
	t.Helper()
	view, err := f.lobbies.CreateLobby(ctxb(), f.host.ID)
	require.NoError(t, err)
	_, err = f.lobbies.JoinLobby(ctxb(), f.guest.ID, view.InviteCode)
	require.NoError(t, err)
	return view
}

func (f *fixture) notified(msgType string, users ...uint) func(GameMessage) bool {
	return func(msg GameMessage) bool {
		if msg.Type != msgType || len(msg.Users) != len(users) {
			return false
		}
		for i := range users {
			if msg.Users[i] != users[i] {
				return false
			}
		}
		return true
	}
}

func battleConfig(rounds int) round.Config {
	return round.Config{Language: "go", Difficulty: "medium", RoundCount: rounds, Type: challenge.TypeProblemSolving}
}

func problem(title string) challenge.Challenge {
	return challenge.Challenge{
		Type:           challenge.TypeProblemSolving,
		Title:          title,
		Description:    "solve it",
		ProblemSummary: title,
		StarterCode:    "func solve() {}",
	}
}

func reasonOf(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Reason()
	}
	return ""
}

func ago(d time.Duration) time.Time {
	return time.Now().Add(-d)
}
