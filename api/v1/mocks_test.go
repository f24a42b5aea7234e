package v1

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thesrcielos/CodeClash/internal/battle"
	"github.com/thesrcielos/CodeClash/internal/dashboard"
	"github.com/thesrcielos/CodeClash/internal/game"
	"github.com/thesrcielos/CodeClash/internal/prompt"
	"github.com/thesrcielos/CodeClash/internal/round"
	"github.com/thesrcielos/CodeClash/internal/user"
)

func getAs[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Signup(req user.SignupRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *UserServiceMock) Login(req user.LoginRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

func (m *UserServiceMock) GetUser(id uint) (*user.User, error) {
	args := m.Called(id)
	return getAs[user.User](args, 0), args.Error(1)
}

func (m *UserServiceMock) GetUserStats(id uint) (*user.UserStatsResponse, error) {
	args := m.Called(id)
	return getAs[user.UserStatsResponse](args, 0), args.Error(1)
}

func (m *UserServiceMock) UpdateProfile(id uint, req user.ProfileRequest) (*user.User, error) {
	args := m.Called(id, req)
	return getAs[user.User](args, 0), args.Error(1)
}

func (m *UserServiceMock) ListUsers(page, size int) (*user.UserPage, error) {
	args := m.Called(page, size)
	return getAs[user.UserPage](args, 0), args.Error(1)
}

func (m *UserServiceMock) CreateUser(req user.AdminUserRequest) (*user.User, error) {
	args := m.Called(req)
	return getAs[user.User](args, 0), args.Error(1)
}

func (m *UserServiceMock) UpdateUser(id uint, req user.AdminUserRequest) (*user.User, error) {
	args := m.Called(id, req)
	return getAs[user.User](args, 0), args.Error(1)
}

func (m *UserServiceMock) DeleteUser(actorID, id uint) error {
	return m.Called(actorID, id).Error(0)
}

type GameServiceMock struct {
	mock.Mock
}

func (m *GameServiceMock) StartSession(ctx context.Context, userID uint, cfg round.Config) (*game.Session, error) {
	args := m.Called(ctx, userID, cfg)
	return getAs[game.Session](args, 0), args.Error(1)
}

func (m *GameServiceMock) SubmitRound(ctx context.Context, userID, sessionID uint, code string) (*game.SubmitResult, error) {
	args := m.Called(ctx, userID, sessionID, code)
	return getAs[game.SubmitResult](args, 0), args.Error(1)
}

func (m *GameServiceMock) TerminateSession(ctx context.Context, userID, sessionID uint) error {
	return m.Called(ctx, userID, sessionID).Error(0)
}

func (m *GameServiceMock) ActiveState(ctx context.Context, userID uint) (*game.StateView, error) {
	args := m.Called(ctx, userID)
	return getAs[game.StateView](args, 0), args.Error(1)
}

func (m *GameServiceMock) Results(ctx context.Context, userID, sessionID uint, isAdmin bool) (*game.ResultsView, error) {
	args := m.Called(ctx, userID, sessionID, isAdmin)
	return getAs[game.ResultsView](args, 0), args.Error(1)
}

func (m *GameServiceMock) History(ctx context.Context, userID uint, page int) (*game.HistoryPage, error) {
	args := m.Called(ctx, userID, page)
	return getAs[game.HistoryPage](args, 0), args.Error(1)
}

type LobbyServiceMock struct {
	mock.Mock
}

func (m *LobbyServiceMock) CreateLobby(ctx context.Context, hostID uint) (*battle.LobbyView, error) {
	args := m.Called(ctx, hostID)
	return getAs[battle.LobbyView](args, 0), args.Error(1)
}

func (m *LobbyServiceMock) JoinLobby(ctx context.Context, userID uint, code string) (*battle.LobbyView, error) {
	args := m.Called(ctx, userID, code)
	return getAs[battle.LobbyView](args, 0), args.Error(1)
}

func (m *LobbyServiceMock) LeaveLobby(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *LobbyServiceMock) StartLobby(ctx context.Context, hostID uint) (*battle.LobbyView, error) {
	args := m.Called(ctx, hostID)
	return getAs[battle.LobbyView](args, 0), args.Error(1)
}

func (m *LobbyServiceMock) CurrentLobby(ctx context.Context, userID uint) (*battle.LobbyView, error) {
	args := m.Called(ctx, userID)
	return getAs[battle.LobbyView](args, 0), args.Error(1)
}

type BattleServiceMock struct {
	mock.Mock
}

func (m *BattleServiceMock) StartBattle(ctx context.Context, hostID, lobbyID uint, cfg round.Config) (*battle.Battle, error) {
	args := m.Called(ctx, hostID, lobbyID, cfg)
	return getAs[battle.Battle](args, 0), args.Error(1)
}

func (m *BattleServiceMock) SubmitRound(ctx context.Context, userID, lobbyID uint, code string) (*battle.SubmitResult, error) {
	args := m.Called(ctx, userID, lobbyID, code)
	return getAs[battle.SubmitResult](args, 0), args.Error(1)
}

func (m *BattleServiceMock) State(ctx context.Context, userID, lobbyID uint) (*battle.StateView, error) {
	args := m.Called(ctx, userID, lobbyID)
	return getAs[battle.StateView](args, 0), args.Error(1)
}

func (m *BattleServiceMock) Results(ctx context.Context, userID, lobbyID uint) (*battle.ResultsView, error) {
	args := m.Called(ctx, userID, lobbyID)
	return getAs[battle.ResultsView](args, 0), args.Error(1)
}

func (m *BattleServiceMock) History(ctx context.Context, userID uint, page int) (*battle.HistoryPage, error) {
	args := m.Called(ctx, userID, page)
	return getAs[battle.HistoryPage](args, 0), args.Error(1)
}

type PromptServiceMock struct {
	mock.Mock
}

func (m *PromptServiceMock) List(ctx context.Context) ([]prompt.Prompt, error) {
	args := m.Called(ctx)
	prompts, _ := args.Get(0).([]prompt.Prompt)
	return prompts, args.Error(1)
}

func (m *PromptServiceMock) Get(ctx context.Context, id uint) (*prompt.Prompt, error) {
	args := m.Called(ctx, id)
	return getAs[prompt.Prompt](args, 0), args.Error(1)
}

func (m *PromptServiceMock) Create(ctx context.Context, req prompt.PromptRequest) (*prompt.Prompt, error) {
	args := m.Called(ctx, req)
	return getAs[prompt.Prompt](args, 0), args.Error(1)
}

func (m *PromptServiceMock) Update(ctx context.Context, id uint, req prompt.PromptRequest) (*prompt.Prompt, error) {
	args := m.Called(ctx, id, req)
	return getAs[prompt.Prompt](args, 0), args.Error(1)
}

func (m *PromptServiceMock) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type DashboardServiceMock struct {
	mock.Mock
}

func (m *DashboardServiceMock) Overview(ctx context.Context) (*dashboard.Dashboard, error) {
	args := m.Called(ctx)
	return getAs[dashboard.Dashboard](args, 0), args.Error(1)
}
