package dashboard

import (
	"time"

	"github.com/thesrcielos/CodeClash/internal/challenge"
)

type Totals struct {
	Users           int64 `json:"totalUsers"`
	FinishedGames   int64 `json:"totalGames"`
	Rounds          int64 `json:"totalRounds"`
	ActiveGames     int64 `json:"activeGames"`
	RecentGames     int64 `json:"recentGames"`
	NewUsers        int64 `json:"newUsers"`
	FinishedBattles int64 `json:"totalBattles"`
	ActiveBattles   int64 `json:"activeBattles"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int64  `json:"count"`
}

type RecentGame struct {
	ID              uint           `json:"id"`
	Username        string         `json:"username"`
	Language        string         `json:"language"`
	Difficulty      string         `json:"difficulty"`
	Type            challenge.Type `json:"game_type"`
	TotalScore      int            `json:"total_score"`
	RoundCount      int            `json:"round_count"`
	DurationMinutes int            `json:"duration"`
	CompletedAt     time.Time      `json:"completed_at"`
}

type Performer struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	TotalMatches int     `json:"total_matches"`
	Wins         int     `json:"wins"`
	WinRate      float64 `json:"win_rate"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Dashboard struct {
	Stats                  Totals             `json:"stats"`
	GameTypeDistribution   map[string]int64   `json:"gameTypeDistribution"`
	DifficultyDistribution map[string]int64   `json:"difficultyDistribution"`
	LanguagePopularity     []LanguageCount    `json:"languagePopularity"`
	AvgScoresByDifficulty  map[string]float64 `json:"avgScoresByDifficulty"`
	RecentCompletedGames   []RecentGame       `json:"recentCompletedGames"`
	TopPerformers          []Performer        `json:"topPerformers"`
	GamesOverTime          []DailyCount       `json:"gamesOverTime"`
}
