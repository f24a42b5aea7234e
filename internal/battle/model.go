package battle

import (
	"time"

	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/round"
	"github.com/thesrcielos/CodeClash/internal/user"
)

const (
	LobbyWaiting  = "waiting"
	LobbyStarted  = "started"
	LobbyFinished = "finished"
)

const HistoryPageSize = 20

type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

func (r Role) column(name string) string {
	return string(r) + "_" + name
}

func (r Role) Opponent() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

type Lobby struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	InviteCode string         `gorm:"size:6;not null;uniqueIndex" json:"invite_code"`
	HostID     uint           `gorm:"not null;uniqueIndex" json:"host_id"`
	GuestID    *uint          `gorm:"uniqueIndex" json:"guest_id"`
	Status     string         `gorm:"size:16;not null;default:waiting;index" json:"status"`
	Language   string         `gorm:"size:32" json:"language"`
	Difficulty string         `gorm:"size:16" json:"difficulty"`
	RoundCount int            `json:"round_count"`
	Type       challenge.Type `gorm:"column:game_type;size:32" json:"game_type"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// RoleOf reports whether userID sits in the lobby and on which side.
func (l *Lobby) RoleOf(userID uint) (Role, bool) {
	if l.HostID == userID {
		return RoleHost, true
	}
	if l.GuestID != nil && *l.GuestID == userID {
		return RoleGuest, true
	}
	return "", false
}

func (l *Lobby) Members() []uint {
	if l.GuestID == nil {
		return []uint{l.HostID}
	}
	return []uint{l.HostID, *l.GuestID}
}

type Battle struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	LobbyID    uint           `gorm:"not null;index" json:"lobby_id"`
	HostID     uint           `gorm:"not null;index" json:"host_id"`
	GuestID    uint           `gorm:"not null;index" json:"guest_id"`
	Language   string         `gorm:"size:32;not null" json:"language"`
	Difficulty string         `gorm:"size:16;not null" json:"difficulty"`
	Type       challenge.Type `gorm:"column:game_type;size:32;not null" json:"game_type"`
	RoundCount int            `gorm:"not null" json:"round_count"`
	HostScore  int            `gorm:"not null;default:0" json:"host_score"`
	GuestScore int            `gorm:"not null;default:0" json:"guest_score"`
	StartedAt  time.Time      `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time     `gorm:"index" json:"ended_at"`
	WinnerID   *uint          `json:"winner_id"`
	Abandoned  bool           `gorm:"not null;default:false" json:"abandoned"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Battle) TableName() string {
	return "battles"
}

func (b *Battle) Active() bool {
	return b.EndedAt == nil
}

func (b *Battle) UserID(role Role) uint {
	if role == RoleHost {
		return b.HostID
	}
	return b.GuestID
}

// Winner is the strictly higher scorer, nil on a tie.
func (b *Battle) Winner() *uint {
	switch {
	case b.HostScore > b.GuestScore:
		id := b.HostID
		return &id
	case b.GuestScore > b.HostScore:
		id := b.GuestID
		return &id
	}
	return nil
}

type BattleRound struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	BattleID       uint                `gorm:"not null;uniqueIndex:idx_battle_rounds_battle_number" json:"battle_id"`
	Number         int                 `gorm:"column:round_number;not null;uniqueIndex:idx_battle_rounds_battle_number" json:"round_number"`
	Type           challenge.Type      `gorm:"column:game_type;size:32;not null" json:"game_type"`
	Challenge      challenge.Challenge `gorm:"type:text;serializer:json" json:"challenge"`
	ProblemSummary string              `gorm:"size:512" json:"problem_summary"`
	InitialCode    string              `gorm:"type:text" json:"initial_code"`
	Host           round.Submission    `gorm:"embedded;embeddedPrefix:host_" json:"host"`
	Guest          round.Submission    `gorm:"embedded;embeddedPrefix:guest_" json:"guest"`
	CompletedAt    *time.Time          `json:"completed_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

func (BattleRound) TableName() string {
	return "battle_rounds"
}

func (r *BattleRound) Submission(role Role) *round.Submission {
	if role == RoleHost {
		return &r.Host
	}
	return &r.Guest
}

func (r *BattleRound) BothSubmitted() bool {
	return r.Host.Submitted() && r.Guest.Submitted()
}

// currentBattleRound is the lowest round not yet completed by both players,
// or the last one. rounds must be ordered by number.
func currentBattleRound(rounds []BattleRound) *BattleRound {
	if len(rounds) == 0 {
		return nil
	}
	for i := range rounds {
		if rounds[i].CompletedAt == nil {
			return &rounds[i]
		}
	}
	return &rounds[len(rounds)-1]
}

type JoinRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

type SubmitRequest struct {
	Code string `json:"code" validate:"required"`
}

type LobbyView struct {
	ID           uint           `json:"id"`
	InviteCode   string         `json:"invite_code"`
	Status       string         `json:"status"`
	Language     string         `json:"language,omitempty"`
	Difficulty   string         `json:"difficulty,omitempty"`
	RoundCount   int            `json:"round_count,omitempty"`
	Type         challenge.Type `json:"game_type,omitempty"`
	Host         user.Profile   `json:"host"`
	Guest        *user.Profile  `json:"guest"`
	IsHost       bool           `json:"isHost"`
	BattleID     *uint          `json:"battle_id,omitempty"`
	CurrentRound int            `json:"current_round,omitempty"`
}

// RoundView is one round as seen by a player. The opponent's code and
// evaluation are only filled in once the battle is over.
type RoundView struct {
	Number         int                 `json:"round_number"`
	Challenge      challenge.Challenge `json:"challenge"`
	InitialCode    string              `json:"initial_code"`
	Mine           round.Submission    `json:"mine"`
	Opponent       *round.Submission   `json:"opponent,omitempty"`
	HostSubmitted  bool                `json:"host_submitted"`
	GuestSubmitted bool                `json:"guest_submitted"`
	Completed      bool                `json:"completed"`
}

type StateView struct {
	Lobby        LobbyView `json:"lobby"`
	Battle       Battle    `json:"battle"`
	CurrentRound RoundView `json:"currentRound"`
	IsHost       bool      `json:"isHost"`
}

type SubmitResult struct {
	Evaluation     challenge.Evaluation `json:"evaluation"`
	RoundNumber    int                  `json:"round_number"`
	RoundComplete  bool                 `json:"roundComplete"`
	NextRound      *int                 `json:"next_round,omitempty"`
	BattleFinished bool                 `json:"battle_finished"`
	HostScore      int                  `json:"host_score"`
	GuestScore     int                  `json:"guest_score"`
}

type ResultsView struct {
	Lobby  LobbyView     `json:"lobby"`
	Battle Battle        `json:"battle"`
	Rounds []BattleRound `json:"rounds"`
	Host   user.Profile  `json:"host"`
	Guest  user.Profile  `json:"guest"`
	Winner *user.Profile `json:"winner"`
}

type HistoryEntry struct {
	ID              uint           `json:"id"`
	Opponent        user.Profile   `json:"opponent"`
	MyScore         int            `json:"my_score"`
	OpponentScore   int            `json:"opponent_score"`
	Result          string         `json:"result"`
	Language        string         `json:"language"`
	Difficulty      string         `json:"difficulty"`
	Type            challenge.Type `json:"game_type"`
	RoundCount      int            `json:"round_count"`
	DurationMinutes int            `json:"duration"`
	EndedAt         time.Time      `json:"ended_at"`
}

type HistoryPage struct {
	Entries     []HistoryEntry `json:"data"`
	CurrentPage int            `json:"current_page"`
	LastPage    int            `json:"last_page"`
	PerPage     int            `json:"per_page"`
	Total       int64          `json:"total"`
}
