package user

import (
	"fmt"
	"math"

	"gorm.io/gorm"
)

const (
	WinExperience  = 100
	LossExperience = 50
	DrawExperience = 75
)

type StreakChange int

const (
	StreakKeep StreakChange = iota
	StreakExtend
	StreakReset
)

// MatchResult is the stat delta applied to one player when a game or battle
// completes. Every result counts as a played match.
type MatchResult struct {
	Won        bool
	Streak     StreakChange
	Experience int
}

func SoloResult(won bool) MatchResult {
	return MatchResult{Won: won}
}

func BattleWin() MatchResult {
	return MatchResult{Won: true, Streak: StreakExtend, Experience: WinExperience}
}

func BattleLoss() MatchResult {
	return MatchResult{Streak: StreakReset, Experience: LossExperience}
}

func BattleDraw() MatchResult {
	return MatchResult{Experience: DrawExperience}
}

// ApplyMatchResult increments the user's aggregate stats in place. It must
// run in the transaction that closes the game so stats move exactly once.
func ApplyMatchResult(tx *gorm.DB, userID uint, result MatchResult) error {
	updates := map[string]interface{}{
		"total_matches": gorm.Expr("total_matches + ?", 1),
	}
	if result.Won {
		updates["wins"] = gorm.Expr("wins + ?", 1)
	}
	if result.Experience != 0 {
		updates["experience"] = gorm.Expr("experience + ?", result.Experience)
	}
	switch result.Streak {
	case StreakExtend:
		updates["current_streak"] = gorm.Expr("current_streak + ?", 1)
	case StreakReset:
		updates["current_streak"] = 0
	}

	if err := tx.Model(&User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update stats for user %d: %w", userID, err)
	}
	return nil
}

// WinRate is the percentage of matches won, to one decimal.
func WinRate(wins, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(1000*float64(wins)/float64(total)) / 10
}
