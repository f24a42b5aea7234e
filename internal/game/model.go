package game

import (
	"time"

	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/round"
)

// WinThreshold is the absolute total a single-player game needs to count
// as a win, regardless of how many rounds were played.
const WinThreshold = 600

const HistoryPageSize = 20

type Session struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Language   string         `gorm:"size:32;not null" json:"language"`
	Difficulty string         `gorm:"size:16;not null" json:"difficulty"`
	Type       challenge.Type `gorm:"column:game_type;size:32;not null" json:"game_type"`
	RoundCount int            `gorm:"not null" json:"round_count"`
	TotalScore int            `gorm:"not null;default:0" json:"total_score"`
	StartedAt  time.Time      `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time     `gorm:"index" json:"ended_at"`
	Terminated bool           `gorm:"not null;default:false" json:"terminated"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Rounds []Round `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"rounds,omitempty"`
}

func (Session) TableName() string {
	return "game_sessions"
}

func (s *Session) Active() bool {
	return s.EndedAt == nil
}

func (s *Session) Config() round.Config {
	return round.Config{
		Language:   s.Language,
		Difficulty: s.Difficulty,
		RoundCount: s.RoundCount,
		Type:       s.Type,
	}
}

type Round struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	SessionID      uint                `gorm:"not null;uniqueIndex:idx_game_rounds_session_number" json:"session_id"`
	Number         int                 `gorm:"column:round_number;not null;uniqueIndex:idx_game_rounds_session_number" json:"round_number"`
	Type           challenge.Type      `gorm:"column:game_type;size:32;not null" json:"game_type"`
	Challenge      challenge.Challenge `gorm:"type:text;serializer:json" json:"challenge"`
	ProblemSummary string              `gorm:"size:512" json:"problem_summary"`
	InitialCode    string              `gorm:"type:text" json:"initial_code"`
	round.Submission
	CreatedAt time.Time `json:"created_at"`
}

func (Round) TableName() string {
	return "game_rounds"
}

// currentRound is the lowest round still waiting for its submission, or
// the last round once all are in. rounds must be ordered by number.
func currentRound(rounds []Round) *Round {
	if len(rounds) == 0 {
		return nil
	}
	for i := range rounds {
		if !rounds[i].Submitted() {
			return &rounds[i]
		}
	}
	return &rounds[len(rounds)-1]
}

type SubmitResult struct {
	Evaluation   challenge.Evaluation `json:"evaluation"`
	RoundNumber  int                  `json:"round_number"`
	NextRound    *int                 `json:"next_round,omitempty"`
	GameComplete bool                 `json:"game_complete"`
	TotalScore   int                  `json:"total_score"`
}

type StateView struct {
	Session      Session `json:"session"`
	Round        Round   `json:"round"`
	RoundNumber  int     `json:"round_number"`
	TotalRounds  int     `json:"total_rounds"`
	Submitted    bool    `json:"submitted"`
	Pending      bool    `json:"pending"`
	ElapsedSecs  int     `json:"elapsed_seconds"`
	GameComplete bool    `json:"game_complete"`
}

type ResultsView struct {
	Session         Session           `json:"session"`
	Rounds          []Round           `json:"rounds"`
	TotalPossible   int               `json:"total_possible"`
	AverageScore    float64           `json:"average_score"`
	Performance     round.Performance `json:"performance"`
	DurationMinutes int               `json:"duration_minutes"`
	Won             bool              `json:"won"`
}

type HistoryEntry struct {
	ID              uint           `json:"id"`
	Language        string         `json:"language"`
	Difficulty      string         `json:"difficulty"`
	Type            challenge.Type `json:"game_type"`
	RoundCount      int            `json:"round_count"`
	TotalScore      int            `json:"total_score"`
	AverageScore    float64        `json:"avg_score"`
	DurationMinutes int            `json:"duration"`
	Terminated      bool           `json:"terminated"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         time.Time      `json:"ended_at"`
}

type HistoryPage struct {
	Entries     []HistoryEntry `json:"data"`
	CurrentPage int            `json:"current_page"`
	LastPage    int            `json:"last_page"`
	PerPage     int            `json:"per_page"`
	Total       int64          `json:"total"`
}

type SubmitRequest struct {
	Code string `json:"code" validate:"required"`
}
