package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/battle"
	"github.com/thesrcielos/CodeClash/internal/game"
	"github.com/thesrcielos/CodeClash/internal/round"
	"github.com/thesrcielos/CodeClash/internal/user"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recentWindow  = 7 * 24 * time.Hour
	historyWindow = 30
	topLimit      = 10
)

// DashboardService aggregates platform activity for administrators.
// Single-player sessions are the primary source.
type DashboardService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardService(db *gorm.DB, logger *zap.Logger) *DashboardService {
	return &DashboardService{db: db, logger: logger, now: time.Now}
}

func (s *DashboardService) Overview(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	now := s.now()
	out := &Dashboard{}

	steps := []struct {
		name string
		run  func() error
	}{
		{"totals", func() error { return s.totals(db, now, &out.Stats) }},
		{"game types", func() error {
			var err error
			out.GameTypeDistribution, err = countBy(db, "game_type")
			return err
		}},
		{"difficulties", func() error {
			var err error
			out.DifficultyDistribution, err = countBy(db, "difficulty")
			return err
		}},
		{"languages", func() error {
			var err error
			out.LanguagePopularity, err = languagePopularity(db)
			return err
		}},
		{"average scores", func() error {
			var err error
			out.AvgScoresByDifficulty, err = averageScores(db)
			return err
		}},
		{"recent games", func() error {
			var err error
			out.RecentCompletedGames, err = recentGames(db)
			return err
		}},
		{"top performers", func() error {
			var err error
			out.TopPerformers, err = topPerformers(db)
			return err
		}},
		{"games over time", func() error {
			var err error
			out.GamesOverTime, err = gamesOverTime(db, now)
			return err
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			s.logger.Error("dashboard query failed", zap.String("section", step.name), zap.Error(err))
			return nil, apperrors.NewAppError(500, "error loading dashboard", err)
		}
	}
	return out, nil
}

func (s *DashboardService) totals(db *gorm.DB, now time.Time, t *Totals) error {
	since := now.Add(-recentWindow)
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&t.Users, db.Model(&user.User{}).Where("role = ?", user.RoleUser)},
		{&t.FinishedGames, finished(db)},
		{&t.Rounds, db.Model(&game.Round{})},
		{&t.ActiveGames, db.Model(&game.Session{}).Where("ended_at IS NULL")},
		{&t.RecentGames, finished(db).Where("started_at >= ?", since)},
		{&t.NewUsers, db.Model(&user.User{}).Where("role = ? AND created_at >= ?", user.RoleUser, since)},
		{&t.FinishedBattles, db.Model(&battle.Battle{}).Where("ended_at IS NOT NULL AND abandoned = ?", false)},
		{&t.ActiveBattles, db.Model(&battle.Battle{}).Where("ended_at IS NULL")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return fmt.Errorf("failed to count: %w", err)
		}
	}
	return nil
}

func finished(db *gorm.DB) *gorm.DB {
	return db.Model(&game.Session{}).Where("ended_at IS NOT NULL")
}

func countBy(db *gorm.DB, column string) (map[string]int64, error) {
	var rows []struct {
		Bucket string
		Count  int64
	}
	err := finished(db).
		Select(column + " AS bucket, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", column, err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Bucket] = r.Count
	}
	return out, nil
}

func languagePopularity(db *gorm.DB) ([]LanguageCount, error) {
	var rows []LanguageCount
	err := finished(db).
		Select("language, COUNT(*) AS count").
		Group("language").
		Order("count DESC, language").
		Limit(topLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank languages: %w", err)
	}
	return rows, nil
}

func averageScores(db *gorm.DB) (map[string]float64, error) {
	var rows []struct {
		Difficulty string
		Average    float64
	}
	err := finished(db).
		Select("difficulty, AVG(total_score) AS average").
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Difficulty] = math.Round(r.Average*10) / 10
	}
	return out, nil
}

func recentGames(db *gorm.DB) ([]RecentGame, error) {
	var sessions []game.Session
	err := db.Where("ended_at IS NOT NULL").
		Order("ended_at DESC, id DESC").
		Limit(topLimit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent games: %w", err)
	}

	ids := make([]uint, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.UserID)
	}
	names := map[uint]string{}
	if len(ids) > 0 {
		var users []user.User
		if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to load players: %w", err)
		}
		for i := range users {
			names[users[i].ID] = users[i].DisplayName()
		}
	}

	out := make([]RecentGame, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, RecentGame{
			ID:              s.ID,
			Username:        names[s.UserID],
			Language:        s.Language,
			Difficulty:      s.Difficulty,
			Type:            s.Type,
			TotalScore:      s.TotalScore,
			RoundCount:      s.RoundCount,
			DurationMinutes: round.DurationMinutes(s.EndedAt.Sub(s.StartedAt).Seconds()),
			CompletedAt:     *s.EndedAt,
		})
	}
	return out, nil
}

func topPerformers(db *gorm.DB) ([]Performer, error) {
	var users []user.User
	err := db.Where("role = ?", user.RoleUser).
		Order("wins DESC, total_matches DESC, id").
		Limit(topLimit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank players: %w", err)
	}
	out := make([]Performer, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, Performer{
			ID:           u.ID,
			Username:     u.DisplayName(),
			TotalMatches: u.TotalMatches,
			Wins:         u.Wins,
			WinRate:      user.WinRate(u.Wins, u.TotalMatches),
		})
	}
	return out, nil
}

// gamesOverTime buckets per calendar day in Go; date functions differ
// between the supported dialects.
func gamesOverTime(db *gorm.DB, now time.Time) ([]DailyCount, error) {
	since := now.AddDate(0, 0, -historyWindow)
	var starts []time.Time
	err := finished(db).
		Where("started_at >= ?", since).
		Pluck("started_at", &starts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load game dates: %w", err)
	}

	byDay := map[string]int64{}
	for _, t := range starts {
		byDay[t.UTC().Format("2006-01-02")]++
	}
	out := make([]DailyCount, 0, len(byDay))
	for day, count := range byDay {
		out = append(out, DailyCount{Date: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
