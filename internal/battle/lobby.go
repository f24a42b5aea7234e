package battle

import (
	"context"
	"errors"
	"time"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/user"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyInLobby   = errors.New("already_in_lobby")
	ErrLobbyUnavailable = errors.New("lobby_unavailable")
	ErrSelfJoin         = errors.New("self_join")
	ErrNotInLobby       = errors.New("not_in_lobby")
	ErrLobbyNotReady    = errors.New("lobby_not_ready")
	ErrLobbyNotFound    = errors.New("lobby_not_found")
	ErrForbidden        = errors.New("forbidden")
)

type LobbyService struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewLobbyService(db *gorm.DB, notifier Notifier, logger *zap.Logger) *LobbyService {
	return &LobbyService{db: db, notifier: notifier, logger: logger, now: time.Now}
}

func (s *LobbyService) CreateLobby(ctx context.Context, hostID uint) (*LobbyView, error) {
	var lobby *Lobby
	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockMember(tx, hostID); err != nil {
			return err
		}
		code, err := uniqueInviteCode(tx)
		if err != nil {
			return err
		}
		lobby = &Lobby{InviteCode: code, HostID: hostID, Status: LobbyWaiting}
		return tx.Create(lobby).Error
	})
	if err != nil {
		return nil, wrapInternal(err, "error creating lobby")
	}
	s.logger.Info("lobby created", zap.Uint("lobby_id", lobby.ID), zap.Uint("host_id", hostID))
	return s.view(db, lobby, hostID)
}

// JoinLobby seats userID as the guest of the waiting lobby with the given
// invite code. Nothing is written unless the join succeeds.
func (s *LobbyService) JoinLobby(ctx context.Context, userID uint, code string) (*LobbyView, error) {
	code = NormalizeInviteCode(code)
	var lobby *Lobby
	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := user.LockUser(tx, userID); err != nil {
			return err
		}
		current, err := memberLobby(tx, userID)
		if err != nil {
			return err
		}
		if current != nil {
			return apperrors.NewAppError(400, "you are already in a lobby", ErrAlreadyInLobby)
		}
		lobby, err = joinableLobby(tx, code)
		if err != nil {
			return err
		}
		if lobby == nil {
			return apperrors.NewAppError(400, "Invalid invite code or lobby is no longer available", ErrLobbyUnavailable)
		}
		if lobby.HostID == userID {
			return apperrors.NewAppError(400, "you cannot join your own lobby", ErrSelfJoin)
		}
		lobby.GuestID = &userID
		return tx.Model(lobby).Update("guest_id", userID).Error
	})
	if err != nil {
		return nil, wrapInternal(err, "error joining lobby")
	}

	view, err := s.view(db, lobby, userID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, GameMessage{
		Type:    MsgLobbyJoin,
		Payload: map[string]interface{}{"lobbyId": lobby.ID, "guest": view.Guest},
		Users:   []uint{lobby.HostID},
	})
	return view, nil
}

// LeaveLobby removes userID from their lobby. An open battle is abandoned.
// The host leaving closes the lobby; the guest leaving frees the seat.
func (s *LobbyService) LeaveLobby(ctx context.Context, userID uint) error {
	var lobby *Lobby
	var abandoned *Battle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member, err := memberLobby(tx, userID)
		if err != nil {
			return err
		}
		if member == nil {
			return apperrors.NewAppError(400, "you are not in a lobby", ErrNotInLobby)
		}
		lobby, err = lockLobby(tx, member.ID)
		if err != nil {
			return err
		}
		if lobby == nil {
			return apperrors.NewAppError(400, "you are not in a lobby", ErrNotInLobby)
		}

		open, err := openBattle(tx, lobby.ID)
		if err != nil {
			return err
		}
		if open != nil {
			if err := abandonBattle(tx, open.ID, s.now()); err != nil {
				return err
			}
			abandoned = open
		}

		if lobby.HostID == userID {
			return tx.Delete(&Lobby{}, lobby.ID).Error
		}
		status := lobby.Status
		if status != LobbyFinished {
			status = LobbyWaiting
		}
		return tx.Model(lobby).Updates(map[string]interface{}{"guest_id": nil, "status": status}).Error
	})
	if err != nil {
		return wrapInternal(err, "error leaving lobby")
	}

	others := make([]uint, 0, 1)
	for _, id := range lobby.Members() {
		if id != userID {
			others = append(others, id)
		}
	}
	if abandoned != nil {
		s.logger.Info("battle abandoned", zap.Uint("battle_id", abandoned.ID), zap.Uint("left_by", userID))
		s.notifier.Notify(ctx, GameMessage{
			Type:    MsgBattleAbandoned,
			Payload: map[string]interface{}{"lobbyId": lobby.ID, "battleId": abandoned.ID},
			Users:   others,
		})
	}
	if len(others) == 0 {
		return nil
	}
	if lobby.HostID == userID {
		s.notifier.Notify(ctx, GameMessage{
			Type:    MsgLobbyClosed,
			Payload: map[string]interface{}{"lobbyId": lobby.ID},
			Users:   others,
		})
		return nil
	}
	s.notifier.Notify(ctx, GameMessage{
		Type:    MsgLobbyLeave,
		Payload: map[string]interface{}{"lobbyId": lobby.ID, "player": userID},
		Users:   others,
	})
	return nil
}

// StartLobby moves a full waiting lobby to started so both players head to
// the battle setup.
func (s *LobbyService) StartLobby(ctx context.Context, hostID uint) (*LobbyView, error) {
	var lobby *Lobby
	db := s.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		member, err := memberLobby(tx, hostID)
		if err != nil {
			return err
		}
		if member == nil {
			return apperrors.NewAppError(400, "you are not in a lobby", ErrLobbyNotReady)
		}
		lobby, err = lockLobby(tx, member.ID)
		if err != nil {
			return err
		}
		if lobby == nil {
			return apperrors.NewAppError(400, "you are not in a lobby", ErrLobbyNotReady)
		}
		if lobby.HostID != hostID {
			return apperrors.NewAppError(403, "only the host can start the lobby", ErrForbidden)
		}
		if lobby.GuestID == nil || lobby.Status != LobbyWaiting {
			return apperrors.NewAppError(400, "lobby is not ready to start", ErrLobbyNotReady)
		}
		lobby.Status = LobbyStarted
		return tx.Model(lobby).Update("status", LobbyStarted).Error
	})
	if err != nil {
		return nil, wrapInternal(err, "error starting lobby")
	}

	s.notifier.Notify(ctx, GameMessage{
		Type:    MsgLobbyStarted,
		Payload: map[string]interface{}{"lobbyId": lobby.ID},
		Users:   []uint{*lobby.GuestID},
	})
	return s.view(db, lobby, hostID)
}

// CurrentLobby returns nil when userID is in no lobby.
func (s *LobbyService) CurrentLobby(ctx context.Context, userID uint) (*LobbyView, error) {
	db := s.db.WithContext(ctx)
	lobby, err := memberLobby(db, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading lobby", err)
	}
	if lobby == nil {
		return nil, nil
	}
	return s.view(db, lobby, userID)
}

// SweepIdle deletes waiting or finished lobbies untouched since olderThan.
func (s *LobbyService) SweepIdle(ctx context.Context, olderThan time.Time) (int, error) {
	db := s.db.WithContext(ctx)
	var idle []Lobby
	err := db.Where("status IN ? AND updated_at < ?", []string{LobbyWaiting, LobbyFinished}, olderThan).Find(&idle).Error
	if err != nil {
		return 0, err
	}
	if len(idle) == 0 {
		return 0, nil
	}

	removed := 0
	for i := range idle {
		// A lobby touched after the scan (a guest joining) no longer matches.
		res := db.Where("id = ? AND status IN ? AND updated_at < ?", idle[i].ID, []string{LobbyWaiting, LobbyFinished}, olderThan).
			Delete(&Lobby{})
		if res.Error != nil {
			return removed, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		removed++
		s.notifier.Notify(ctx, GameMessage{
			Type:    MsgLobbyClosed,
			Payload: map[string]interface{}{"lobbyId": idle[i].ID, "reason": "idle"},
			Users:   idle[i].Members(),
		})
	}
	return removed, nil
}

func (s *LobbyService) view(db *gorm.DB, lobby *Lobby, viewer uint) (*LobbyView, error) {
	view, err := lobbyView(db, lobby, viewer)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading lobby", err)
	}
	return view, nil
}

// lockMember serializes membership changes for userID and rejects users who
// already host or joined a lobby.
func lockMember(tx *gorm.DB, userID uint) error {
	if err := user.LockUser(tx, userID); err != nil {
		return err
	}
	current, err := memberLobby(tx, userID)
	if err != nil {
		return err
	}
	if current != nil {
		return apperrors.NewAppError(400, "you are already in a lobby", ErrAlreadyInLobby)
	}
	return nil
}

func wrapInternal(err error, message string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, user.ErrUserNotFound) {
		return apperrors.NewAppError(404, "user not found", err)
	}
	return apperrors.NewAppError(500, message, err)
}
