package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/thesrcielos/CodeClash/internal/challenge"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recentProblemLimit = 10

func lockSession(tx *gorm.DB, id uint) (*Session, error) {
	var s Session
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", id, err)
	}
	return &s, nil
}

func lockRound(tx *gorm.DB, id uint) (*Round, error) {
	var r Round
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load round %d: %w", id, err)
	}
	return &r, nil
}

func findOpenSession(db *gorm.DB, userID uint) (*Session, error) {
	var s Session
	err := db.Where("user_id = ? AND ended_at IS NULL", userID).Order("id DESC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up open session: %w", err)
	}
	return &s, nil
}

func loadRounds(db *gorm.DB, sessionID uint) ([]Round, error) {
	var rounds []Round
	if err := db.Where("session_id = ?", sessionID).Order("round_number ASC").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	return rounds, nil
}

// recentProblems lists the newest problem summaries already served for the
// same difficulty and type, across all players.
func recentProblems(db *gorm.DB, difficulty string, t challenge.Type) ([]string, error) {
	var summaries []string
	err := db.Model(&Round{}).
		Joins("JOIN game_sessions ON game_sessions.id = game_rounds.session_id").
		Where("game_sessions.difficulty = ? AND game_rounds.game_type = ? AND game_rounds.problem_summary <> ''", difficulty, t).
		Order("game_rounds.id DESC").
		Limit(recentProblemLimit).
		Pluck("game_rounds.problem_summary", &summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent problems: %w", err)
	}
	return summaries, nil
}

func claimRound(tx *gorm.DB, r *Round) error {
	return tx.Model(r).Select("code", "claimed_at").Updates(r).Error
}

func recordRound(tx *gorm.DB, r *Round) error {
	return tx.Model(r).Select("submitted_at", "score", "evaluation").Updates(r).Error
}

func releaseRound(db *gorm.DB, id uint) error {
	return db.Model(&Round{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Updates(map[string]interface{}{"claimed_at": nil, "code": ""}).Error
}

func addScore(tx *gorm.DB, sessionID uint, score int) error {
	return tx.Model(&Session{}).Where("id = ?", sessionID).
		Update("total_score", gorm.Expr("total_score + ?", score)).Error
}

func closeSession(tx *gorm.DB, sessionID uint, at time.Time, terminated bool) error {
	return tx.Model(&Session{}).Where("id = ?", sessionID).
		Updates(map[string]interface{}{"ended_at": at, "terminated": terminated}).Error
}

func finishedSessions(db *gorm.DB, userID uint, offset, limit int) ([]Session, int64, error) {
	query := db.Model(&Session{}).Where("user_id = ? AND ended_at IS NOT NULL", userID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	var sessions []Session
	err := db.Where("user_id = ? AND ended_at IS NOT NULL", userID).
		Order("ended_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}
