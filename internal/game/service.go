package game

import (
	"context"
	"errors"
	"time"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/events"
	"github.com/thesrcielos/CodeClash/internal/prompt"
	"github.com/thesrcielos/CodeClash/internal/round"
	"github.com/thesrcielos/CodeClash/internal/user"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrSessionActive   = errors.New("session_active")
	ErrSessionNotFound = errors.New("session_not_found")
	ErrNoActiveSession = errors.New("no_active_session")
	ErrInvalidRound    = errors.New("invalid_round")
	ErrForbidden       = errors.New("forbidden")
)

type GameService struct {
	db        *gorm.DB
	generator challenge.Generator
	evaluator challenge.Evaluator
	prompts   prompt.Resolver
	events    events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewGameService(db *gorm.DB, generator challenge.Generator, evaluator challenge.Evaluator,
	prompts prompt.Resolver, publisher events.Publisher, logger *zap.Logger) *GameService {
	return &GameService{
		db:        db,
		generator: generator,
		evaluator: evaluator,
		prompts:   prompts,
		events:    publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// StartSession opens a new single-player game with round 1 ready. The
// challenge is generated before the transaction so no lock is held during
// the AI call; the open-session check is repeated under the user lock.
func (s *GameService) StartSession(ctx context.Context, userID uint, cfg round.Config) (*Session, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	open, err := findOpenSession(db, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error starting game", err)
	}
	if open != nil {
		return nil, apperrors.NewAppError(400, "you already have an active game", ErrSessionActive)
	}

	prompts := s.prompts.Resolve(ctx, cfg.Type)
	first, err := s.generateRound(ctx, db, cfg, 1, prompts.Challenge)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error starting game", err)
	}

	var session *Session
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := user.LockUser(tx, userID); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return apperrors.NewAppError(404, "user not found", err)
			}
			return err
		}
		open, err := findOpenSession(tx, userID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperrors.NewAppError(400, "you already have an active game", ErrSessionActive)
		}

		session = &Session{
			UserID:     userID,
			Language:   cfg.Language,
			Difficulty: cfg.Difficulty,
			Type:       cfg.Type,
			RoundCount: cfg.RoundCount,
			StartedAt:  s.now(),
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		first.SessionID = session.ID
		if err := tx.Create(first).Error; err != nil {
			return err
		}
		session.Rounds = []Round{*first}
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "error starting game")
	}

	s.logger.Info("game started",
		zap.Uint("session_id", session.ID),
		zap.Uint("user_id", userID),
		zap.String("language", cfg.Language),
		zap.String("difficulty", cfg.Difficulty),
		zap.String("game_type", string(cfg.Type)),
		zap.Int("rounds", cfg.RoundCount))
	return session, nil
}

// SubmitRound scores the player's answer for the current round. The answer is
// claimed under the session lock, evaluated without any lock, then recorded
// together with the round advance or the game completion in one transaction.
func (s *GameService) SubmitRound(ctx context.Context, userID, sessionID uint, code string) (*SubmitResult, error) {
	db := s.db.WithContext(ctx)

	var session Session
	var claimed Round
	err := db.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if err := checkOwnedActive(sess, userID); err != nil {
			return err
		}
		rounds, err := loadRounds(tx, sess.ID)
		if err != nil {
			return err
		}
		current := currentRound(rounds)
		if current == nil {
			return apperrors.NewAppError(404, "round not found", ErrInvalidRound)
		}
		if err := current.Claim(code, s.now()); err != nil {
			return apperrors.NewAppError(400, "round already submitted", err)
		}
		if err := claimRound(tx, current); err != nil {
			return err
		}
		session = *sess
		claimed = *current
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "error submitting round")
	}

	prompts := s.prompts.Resolve(ctx, session.Type)
	evaluation := s.evaluator.Evaluate(ctx, challenge.EvaluateRequest{
		Challenge: claimed.Challenge,
		Code:      code,
		Language:  session.Language,
		Type:      session.Type,
		Prompt:    prompts.Scoring,
		Elapsed:   s.now().Sub(claimed.CreatedAt),
	})

	result := &SubmitResult{Evaluation: evaluation, RoundNumber: claimed.Number}
	var finished *Session
	err = db.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return apperrors.NewAppError(404, "game not found", ErrSessionNotFound)
		}
		rnd, err := lockRound(tx, claimed.ID)
		if err != nil {
			return err
		}
		if rnd.Submitted() {
			return apperrors.NewAppError(400, "round already submitted", round.ErrAlreadySubmitted)
		}
		now := s.now()
		rnd.Record(evaluation, now)
		if err := recordRound(tx, rnd); err != nil {
			return err
		}

		if !sess.Active() {
			// Terminated while the answer was being scored.
			result.GameComplete = true
			result.TotalScore = sess.TotalScore
			return nil
		}

		if err := addScore(tx, sess.ID, evaluation.Score); err != nil {
			return err
		}
		sess.TotalScore += evaluation.Score
		result.TotalScore = sess.TotalScore

		if rnd.Number < sess.RoundCount {
			next, err := s.generateRound(ctx, tx, sess.Config(), rnd.Number+1, prompts.Challenge)
			if err != nil {
				return err
			}
			next.SessionID = sess.ID
			if err := tx.Create(next).Error; err != nil {
				return err
			}
			result.NextRound = &next.Number
			return nil
		}

		if err := closeSession(tx, sess.ID, now, false); err != nil {
			return err
		}
		won := sess.TotalScore >= WinThreshold
		if err := user.ApplyMatchResult(tx, sess.UserID, user.SoloResult(won)); err != nil {
			return err
		}
		sess.EndedAt = &now
		result.GameComplete = true
		finished = sess
		return nil
	})
	if err != nil {
		if relErr := releaseRound(db, claimed.ID); relErr != nil {
			s.logger.Error("failed to release round claim", zap.Uint("round_id", claimed.ID), zap.Error(relErr))
		}
		return nil, wrapInternal(err, "error submitting round")
	}

	if finished != nil {
		s.events.Publish(ctx, soloEvent(finished))
	}
	return result, nil
}

func (s *GameService) TerminateSession(ctx context.Context, userID, sessionID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if err := checkOwnedActive(sess, userID); err != nil {
			return err
		}
		return closeSession(tx, sess.ID, s.now(), true)
	})
	if err != nil {
		return wrapInternal(err, "error terminating game")
	}
	s.logger.Info("game terminated", zap.Uint("session_id", sessionID), zap.Uint("user_id", userID))
	return nil
}

// ActiveState is the polling view of the user's open game.
func (s *GameService) ActiveState(ctx context.Context, userID uint) (*StateView, error) {
	db := s.db.WithContext(ctx)
	sess, err := findOpenSession(db, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading game", err)
	}
	if sess == nil {
		return nil, apperrors.NewAppError(404, "no active game", ErrNoActiveSession)
	}
	rounds, err := loadRounds(db, sess.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading game", err)
	}
	current := currentRound(rounds)
	if current == nil {
		return nil, apperrors.NewAppError(404, "round not found", ErrInvalidRound)
	}
	return &StateView{
		Session:      *sess,
		Round:        *current,
		RoundNumber:  current.Number,
		TotalRounds:  sess.RoundCount,
		Submitted:    current.Submitted(),
		Pending:      current.Pending(),
		ElapsedSecs:  int(s.now().Sub(current.CreatedAt).Seconds()),
		GameComplete: current.Submitted() && current.Number >= sess.RoundCount,
	}, nil
}

// Results returns a finished game. A zero sessionID selects the user's most
// recently finished one.
func (s *GameService) Results(ctx context.Context, userID, sessionID uint, isAdmin bool) (*ResultsView, error) {
	db := s.db.WithContext(ctx)
	var sess Session
	query := db.Model(&Session{})
	if sessionID == 0 {
		query = query.Where("user_id = ? AND ended_at IS NOT NULL", userID).Order("ended_at DESC, id DESC")
	} else {
		query = query.Where("id = ?", sessionID)
	}
	if err := query.First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(404, "game not found", ErrSessionNotFound)
		}
		return nil, apperrors.NewAppError(500, "error loading results", err)
	}
	if sess.UserID != userID && !isAdmin {
		return nil, apperrors.NewAppError(403, "not your game", ErrForbidden)
	}
	if sess.Active() {
		return nil, apperrors.NewAppError(400, "game is still in progress", ErrSessionActive)
	}

	rounds, err := loadRounds(db, sess.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading results", err)
	}
	return &ResultsView{
		Session:         sess,
		Rounds:          rounds,
		TotalPossible:   sess.RoundCount * 100,
		AverageScore:    round.AverageScore(sess.TotalScore, sess.RoundCount),
		Performance:     round.Rate(sess.TotalScore, sess.RoundCount),
		DurationMinutes: round.DurationMinutes(sess.EndedAt.Sub(sess.StartedAt).Seconds()),
		Won:             !sess.Terminated && sess.TotalScore >= WinThreshold,
	}, nil
}

func (s *GameService) History(ctx context.Context, userID uint, page int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	sessions, total, err := finishedSessions(s.db.WithContext(ctx), userID, (page-1)*HistoryPageSize, HistoryPageSize)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading history", err)
	}

	entries := make([]HistoryEntry, 0, len(sessions))
	for _, sess := range sessions {
		entries = append(entries, HistoryEntry{
			ID:              sess.ID,
			Language:        sess.Language,
			Difficulty:      sess.Difficulty,
			Type:            sess.Type,
			RoundCount:      sess.RoundCount,
			TotalScore:      sess.TotalScore,
			AverageScore:    round.AverageScore(sess.TotalScore, sess.RoundCount),
			DurationMinutes: round.DurationMinutes(sess.EndedAt.Sub(sess.StartedAt).Seconds()),
			Terminated:      sess.Terminated,
			StartedAt:       sess.StartedAt,
			EndedAt:         *sess.EndedAt,
		})
	}
	lastPage := int((total + HistoryPageSize - 1) / HistoryPageSize)
	if lastPage < 1 {
		lastPage = 1
	}
	return &HistoryPage{
		Entries:     entries,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     HistoryPageSize,
		Total:       total,
	}, nil
}

func (s *GameService) generateRound(ctx context.Context, db *gorm.DB, cfg round.Config, number int, basePrompt string) (*Round, error) {
	recent, err := recentProblems(db, cfg.Difficulty, cfg.Type)
	if err != nil {
		return nil, err
	}
	generated := s.generator.Generate(ctx, challenge.GenerateRequest{
		Language:       cfg.Language,
		Difficulty:     cfg.Difficulty,
		Type:           cfg.Type,
		Prompt:         basePrompt,
		RecentProblems: recent,
	})
	summary := generated.ProblemSummary
	if summary == "" {
		summary = generated.Title
	}
	return &Round{
		Number:         number,
		Type:           cfg.Type,
		Challenge:      generated,
		ProblemSummary: summary,
		InitialCode:    generated.InitialCode(),
	}, nil
}

func checkOwnedActive(sess *Session, userID uint) error {
	if sess == nil {
		return apperrors.NewAppError(404, "game not found", ErrSessionNotFound)
	}
	if sess.UserID != userID {
		return apperrors.NewAppError(403, "not your game", ErrForbidden)
	}
	if !sess.Active() {
		return apperrors.NewAppError(404, "no active game", ErrNoActiveSession)
	}
	return nil
}

func wrapInternal(err error, message string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewAppError(500, message, err)
}

func soloEvent(sess *Session) events.MatchEvent {
	outcome := events.OutcomeLoss
	var winner *uint
	if sess.TotalScore >= WinThreshold {
		outcome = events.OutcomeWin
		id := sess.UserID
		winner = &id
	}
	return events.MatchEvent{
		Kind:       events.KindSolo,
		MatchID:    sess.ID,
		Users:      []uint{sess.UserID},
		Scores:     []int{sess.TotalScore},
		WinnerID:   winner,
		Outcome:    outcome,
		Language:   sess.Language,
		Difficulty: sess.Difficulty,
		Type:       string(sess.Type),
		FinishedAt: *sess.EndedAt,
	}
}
