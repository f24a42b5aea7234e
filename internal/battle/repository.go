package battle

import (
	"errors"
	"fmt"
	"time"

	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	recentProblemLimit = 10
	maxCodeAttempts    = 10
)

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func first[T any](query *gorm.DB, what string) (*T, error) {
	var out T
	err := query.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", what, err)
	}
	return &out, nil
}

func findLobby(db *gorm.DB, id uint) (*Lobby, error) {
	return first[Lobby](db.Where("id = ?", id), "lobby")
}

func lockLobby(tx *gorm.DB, id uint) (*Lobby, error) {
	return first[Lobby](forUpdate(tx).Where("id = ?", id), "lobby")
}

// memberLobby finds the lobby userID hosts or has joined.
func memberLobby(db *gorm.DB, userID uint) (*Lobby, error) {
	return first[Lobby](db.Where("host_id = ? OR guest_id = ?", userID, userID), "lobby")
}

func joinableLobby(tx *gorm.DB, code string) (*Lobby, error) {
	return first[Lobby](forUpdate(tx).Where("invite_code = ? AND status = ? AND guest_id IS NULL", code, LobbyWaiting), "lobby")
}

func uniqueInviteCode(tx *gorm.DB) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&Lobby{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a free invite code")
}

func openBattle(db *gorm.DB, lobbyID uint) (*Battle, error) {
	return first[Battle](db.Where("lobby_id = ? AND ended_at IS NULL", lobbyID).Order("id DESC"), "battle")
}

func openBattleForPair(db *gorm.DB, hostID, guestID uint) (*Battle, error) {
	return first[Battle](db.Where("host_id = ? AND guest_id = ? AND ended_at IS NULL", hostID, guestID), "battle")
}

func lockBattle(tx *gorm.DB, id uint) (*Battle, error) {
	return first[Battle](forUpdate(tx).Where("id = ?", id), "battle")
}

func lockBattleRound(tx *gorm.DB, id uint) (*BattleRound, error) {
	r, err := first[BattleRound](forUpdate(tx).Where("id = ?", id), "round")
	if err == nil && r == nil {
		return nil, fmt.Errorf("round %d disappeared", id)
	}
	return r, err
}

func loadBattleRounds(db *gorm.DB, battleID uint) ([]BattleRound, error) {
	var rounds []BattleRound
	if err := db.Where("battle_id = ?", battleID).Order("round_number ASC").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	return rounds, nil
}

func recentBattleProblems(db *gorm.DB, difficulty string, t challenge.Type) ([]string, error) {
	var summaries []string
	err := db.Model(&BattleRound{}).
		Joins("JOIN battles ON battles.id = battle_rounds.battle_id").
		Where("battles.difficulty = ? AND battle_rounds.game_type = ? AND battle_rounds.problem_summary <> ''", difficulty, t).
		Order("battle_rounds.id DESC").
		Limit(recentProblemLimit).
		Pluck("battle_rounds.problem_summary", &summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent problems: %w", err)
	}
	return summaries, nil
}

func claimSubmission(tx *gorm.DB, r *BattleRound, role Role) error {
	return tx.Model(r).Select(role.column("code"), role.column("claimed_at")).Updates(r).Error
}

func recordSubmission(tx *gorm.DB, r *BattleRound, role Role) error {
	return tx.Model(r).
		Select(role.column("submitted_at"), role.column("score"), role.column("evaluation"), "completed_at").
		Updates(r).Error
}

func releaseSubmission(db *gorm.DB, id uint, role Role) error {
	return db.Model(&BattleRound{}).
		Where("id = ? AND "+role.column("submitted_at")+" IS NULL", id).
		Updates(map[string]interface{}{role.column("claimed_at"): nil, role.column("code"): ""}).Error
}

func addBattleScore(tx *gorm.DB, battleID uint, role Role, score int) error {
	column := role.column("score")
	return tx.Model(&Battle{}).Where("id = ?", battleID).
		Update(column, gorm.Expr(column+" + ?", score)).Error
}

func abandonBattle(tx *gorm.DB, battleID uint, at time.Time) error {
	return tx.Model(&Battle{}).Where("id = ? AND ended_at IS NULL", battleID).
		Updates(map[string]interface{}{"ended_at": at, "abandoned": true}).Error
}

func loadProfiles(db *gorm.DB, ids ...uint) (map[uint]user.Profile, error) {
	var users []user.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	out := make(map[uint]user.Profile, len(users))
	for i := range users {
		out[users[i].ID] = users[i].Profile()
	}
	return out, nil
}

func lobbyView(db *gorm.DB, lobby *Lobby, viewer uint) (*LobbyView, error) {
	profiles, err := loadProfiles(db, lobby.Members()...)
	if err != nil {
		return nil, err
	}
	view := &LobbyView{
		ID:         lobby.ID,
		InviteCode: lobby.InviteCode,
		Status:     lobby.Status,
		Language:   lobby.Language,
		Difficulty: lobby.Difficulty,
		RoundCount: lobby.RoundCount,
		Type:       lobby.Type,
		Host:       profiles[lobby.HostID],
		IsHost:     lobby.HostID == viewer,
	}
	if lobby.GuestID != nil {
		guest := profiles[*lobby.GuestID]
		view.Guest = &guest
	}
	open, err := openBattle(db, lobby.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		view.BattleID = &open.ID
		rounds, err := loadBattleRounds(db, open.ID)
		if err != nil {
			return nil, err
		}
		if current := currentBattleRound(rounds); current != nil {
			view.CurrentRound = current.Number
		}
	}
	return view, nil
}
