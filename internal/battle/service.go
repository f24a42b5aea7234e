package battle

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
	ErrNoGuest        = errors.New("no_guest")
	ErrLobbyFinished  = errors.New("lobby_finished")
	ErrBattleActive   = errors.New("battle_active")
	ErrNoActiveBattle = errors.New("no_active_battle")
	ErrNoFinished     = errors.New("no_finished_battle")
	ErrInvalidRound   = errors.New("invalid_round")
)

type BattleService struct {
	db        *gorm.DB
	generator challenge.Generator
	evaluator challenge.Evaluator
	prompts   prompt.Resolver
	notifier  Notifier
	events    events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewBattleService(db *gorm.DB, generator challenge.Generator, evaluator challenge.Evaluator,
	prompts prompt.Resolver, notifier Notifier, publisher events.Publisher, logger *zap.Logger) *BattleService {
	return &BattleService{
		db:        db,
		generator: generator,
		evaluator: evaluator,
		prompts:   prompts,
		notifier:  notifier,
		events:    publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// StartBattle stores cfg on the lobby and opens a battle with round 1 in a
// single transaction under the lobby lock.
func (s *BattleService) StartBattle(ctx context.Context, hostID, lobbyID uint, cfg round.Config) (*Battle, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prompts := s.prompts.Resolve(ctx, cfg.Type)

	var battle *Battle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lobby, err := lockLobby(tx, lobbyID)
		if err != nil {
			return err
		}
		if lobby == nil {
			return apperrors.NewAppError(404, "lobby not found", ErrLobbyNotFound)
		}
		if lobby.HostID != hostID {
			return apperrors.NewAppError(403, "only the host can start the battle", ErrForbidden)
		}
		if lobby.GuestID == nil {
			return apperrors.NewAppError(400, "waiting for an opponent", ErrNoGuest)
		}
		if lobby.Status == LobbyFinished {
			return apperrors.NewAppError(400, "this lobby already played its battle", ErrLobbyFinished)
		}
		open, err := openBattle(tx, lobby.ID)
		if err != nil {
			return err
		}
		if open == nil {
			open, err = openBattleForPair(tx, lobby.HostID, *lobby.GuestID)
			if err != nil {
				return err
			}
		}
		if open != nil {
			return apperrors.NewAppError(400, "a battle is already in progress", ErrBattleActive)
		}

		err = tx.Model(lobby).Updates(map[string]interface{}{
			"status":      LobbyStarted,
			"language":    cfg.Language,
			"difficulty":  cfg.Difficulty,
			"round_count": cfg.RoundCount,
			"game_type":   cfg.Type,
		}).Error
		if err != nil {
			return err
		}

		battle = &Battle{
			LobbyID:    lobby.ID,
			HostID:     lobby.HostID,
			GuestID:    *lobby.GuestID,
			Language:   cfg.Language,
			Difficulty: cfg.Difficulty,
			Type:       cfg.Type,
			RoundCount: cfg.RoundCount,
			StartedAt:  s.now(),
		}
		if err := tx.Create(battle).Error; err != nil {
			return err
		}
		opening, err := s.generateRound(ctx, tx, battle, 1, prompts.Challenge)
		if err != nil {
			return err
		}
		return tx.Create(opening).Error
	})
	if err != nil {
		return nil, wrapInternal(err, "error starting battle")
	}

	s.logger.Info("battle started",
		zap.Uint("battle_id", battle.ID),
		zap.Uint("lobby_id", lobbyID),
		zap.Uint("host_id", battle.HostID),
		zap.Uint("guest_id", battle.GuestID))
	s.notifier.Notify(ctx, GameMessage{
		Type:    MsgBattleStarted,
		Payload: map[string]interface{}{"lobbyId": lobbyID, "battleId": battle.ID},
		Users:   []uint{battle.HostID, battle.GuestID},
	})
	return battle, nil
}

// SubmitRound records one player's answer. The round completes, and the next
// round is generated or the battle finished, in the transaction where the
// second answer lands; completed_at makes that happen exactly once.
func (s *BattleService) SubmitRound(ctx context.Context, userID, lobbyID uint, code string) (*SubmitResult, error) {
	db := s.db.WithContext(ctx)

	var role Role
	var battle Battle
	var claimed BattleRound
	err := db.Transaction(func(tx *gorm.DB) error {
		lobby, err := findLobby(tx, lobbyID)
		if err != nil {
			return err
		}
		if lobby == nil {
			return apperrors.NewAppError(404, "lobby not found", ErrLobbyNotFound)
		}
		var ok bool
		if role, ok = lobby.RoleOf(userID); !ok {
			return apperrors.NewAppError(403, "you are not part of this battle", ErrForbidden)
		}
		open, err := openBattle(tx, lobby.ID)
		if err != nil {
			return err
		}
		if open == nil {
			return apperrors.NewAppError(404, "no active battle", ErrNoActiveBattle)
		}
		locked, err := lockBattle(tx, open.ID)
		if err != nil {
			return err
		}
		if locked == nil || !locked.Active() {
			return apperrors.NewAppError(404, "no active battle", ErrNoActiveBattle)
		}
		rounds, err := loadBattleRounds(tx, locked.ID)
		if err != nil {
			return err
		}
		current := currentBattleRound(rounds)
		if current == nil {
			return apperrors.NewAppError(404, "round not found", ErrInvalidRound)
		}
		if err := current.Submission(role).Claim(code, s.now()); err != nil {
			return apperrors.NewAppError(400, "round already submitted", err)
		}
		if err := claimSubmission(tx, current, role); err != nil {
			return err
		}
		battle = *locked
		claimed = *current
		return nil
	})
	if err != nil {
		return nil, wrapInternal(err, "error submitting round")
	}

	prompts := s.prompts.Resolve(ctx, battle.Type)
	evaluation := s.evaluator.Evaluate(ctx, challenge.EvaluateRequest{
		Challenge: claimed.Challenge,
		Code:      code,
		Language:  battle.Language,
		Type:      battle.Type,
		Prompt:    prompts.Scoring,
		Elapsed:   s.now().Sub(claimed.CreatedAt),
	})

	result := &SubmitResult{Evaluation: evaluation, RoundNumber: claimed.Number}
	var finished *Battle
	closed := false
	err = db.Transaction(func(tx *gorm.DB) error {
		current, err := lockBattle(tx, battle.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperrors.NewAppError(404, "no active battle", ErrNoActiveBattle)
		}
		rnd, err := lockBattleRound(tx, claimed.ID)
		if err != nil {
			return err
		}
		sub := rnd.Submission(role)
		if sub.Submitted() {
			return apperrors.NewAppError(400, "round already submitted", round.ErrAlreadySubmitted)
		}
		now := s.now()
		sub.Record(evaluation, now)

		if !current.Active() {
			// Abandoned while the answer was being scored.
			closed = true
			result.HostScore, result.GuestScore = current.HostScore, current.GuestScore
			return recordSubmission(tx, rnd, role)
		}

		completes := rnd.BothSubmitted() && rnd.CompletedAt == nil
		if completes {
			rnd.CompletedAt = &now
		}
		if err := recordSubmission(tx, rnd, role); err != nil {
			return err
		}
		if err := addBattleScore(tx, current.ID, role, evaluation.Score); err != nil {
			return err
		}
		if role == RoleHost {
			current.HostScore += evaluation.Score
		} else {
			current.GuestScore += evaluation.Score
		}
		result.HostScore, result.GuestScore = current.HostScore, current.GuestScore
		result.RoundComplete = completes
		if !completes {
			return nil
		}

		if rnd.Number < current.RoundCount {
			next, err := s.generateRound(ctx, tx, current, rnd.Number+1, prompts.Challenge)
			if err != nil {
				return err
			}
			if err := tx.Create(next).Error; err != nil {
				return err
			}
			result.NextRound = &next.Number
			return nil
		}

		if err := s.finish(tx, current, now); err != nil {
			return err
		}
		result.BattleFinished = true
		finished = current
		return nil
	})
	if err != nil {
		if relErr := releaseSubmission(db, claimed.ID, role); relErr != nil {
			s.logger.Error("failed to release submission claim",
				zap.Uint("round_id", claimed.ID), zap.String("role", string(role)), zap.Error(relErr))
		}
		return nil, wrapInternal(err, "error submitting round")
	}
	if closed {
		return result, nil
	}

	s.notifyProgress(ctx, lobbyID, &battle, role, result, finished)
	if finished != nil {
		s.events.Publish(ctx, battleEvent(finished))
	}
	return result, nil
}

// finish closes the battle, settles both players' stats and marks the lobby
// finished. Runs inside the completing transaction.
func (s *BattleService) finish(tx *gorm.DB, b *Battle, at time.Time) error {
	winner := b.Winner()
	err := tx.Model(&Battle{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{"ended_at": at, "winner_id": winner}).Error
	if err != nil {
		return err
	}
	b.EndedAt = &at
	b.WinnerID = winner

	hostResult, guestResult := user.BattleDraw(), user.BattleDraw()
	if winner != nil && *winner == b.HostID {
		hostResult, guestResult = user.BattleWin(), user.BattleLoss()
	} else if winner != nil {
		hostResult, guestResult = user.BattleLoss(), user.BattleWin()
	}
	if err := user.ApplyMatchResult(tx, b.HostID, hostResult); err != nil {
		return err
	}
	if err := user.ApplyMatchResult(tx, b.GuestID, guestResult); err != nil {
		return err
	}
	return tx.Model(&Lobby{}).Where("id = ?", b.LobbyID).Update("status", LobbyFinished).Error
}

func (s *BattleService) notifyProgress(ctx context.Context, lobbyID uint, b *Battle, role Role, result *SubmitResult, finished *Battle) {
	s.notifier.Notify(ctx, GameMessage{
		Type:    MsgOpponentSubmitted,
		Payload: map[string]interface{}{"lobbyId": lobbyID, "roundNumber": result.RoundNumber},
		Users:   []uint{b.UserID(role.Opponent())},
	})
	players := []uint{b.HostID, b.GuestID}
	switch {
	case finished != nil:
		s.notifier.Notify(ctx, GameMessage{
			Type: MsgBattleFinished,
			Payload: map[string]interface{}{
				"lobbyId":    lobbyID,
				"battleId":   finished.ID,
				"winnerId":   finished.WinnerID,
				"hostScore":  finished.HostScore,
				"guestScore": finished.GuestScore,
			},
			Users: players,
		})
	case result.NextRound != nil:
		s.notifier.Notify(ctx, GameMessage{
			Type: MsgRoundAdvanced,
			Payload: map[string]interface{}{
				"lobbyId":     lobbyID,
				"roundNumber": *result.NextRound,
				"hostScore":   result.HostScore,
				"guestScore":  result.GuestScore,
			},
			Users: players,
		})
	}
}

// State is the polling view of the open battle for one of its players.
func (s *BattleService) State(ctx context.Context, userID, lobbyID uint) (*StateView, error) {
	db := s.db.WithContext(ctx)
	lobby, role, err := s.memberLobby(db, userID, lobbyID)
	if err != nil {
		return nil, err
	}
	open, err := openBattle(db, lobby.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading battle", err)
	}
	if open == nil {
		return nil, apperrors.NewAppError(404, "no active battle", ErrNoActiveBattle)
	}
	rounds, err := loadBattleRounds(db, open.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading battle", err)
	}
	current := currentBattleRound(rounds)
	if current == nil {
		return nil, apperrors.NewAppError(404, "round not found", ErrInvalidRound)
	}
	lv, err := lobbyView(db, lobby, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading battle", err)
	}
	return &StateView{
		Lobby:        *lv,
		Battle:       *open,
		CurrentRound: roundView(current, role, current.CompletedAt != nil),
		IsHost:       role == RoleHost,
	}, nil
}

// Results returns the latest finished battle of the lobby with every answer
// from both players.
func (s *BattleService) Results(ctx context.Context, userID, lobbyID uint) (*ResultsView, error) {
	db := s.db.WithContext(ctx)
	lobby, _, err := s.memberLobby(db, userID, lobbyID)
	if err != nil {
		return nil, err
	}
	done, err := first[Battle](db.Where("lobby_id = ? AND ended_at IS NOT NULL AND abandoned = ?", lobby.ID, false).
		Order("ended_at DESC, id DESC"), "battle")
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading results", err)
	}
	if done == nil {
		return nil, apperrors.NewAppError(404, "no finished battle", ErrNoFinished)
	}
	rounds, err := loadBattleRounds(db, done.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading results", err)
	}
	profiles, err := loadProfiles(db, done.HostID, done.GuestID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading results", err)
	}
	lv, err := lobbyView(db, lobby, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading results", err)
	}

	view := &ResultsView{
		Lobby:  *lv,
		Battle: *done,
		Rounds: rounds,
		Host:   profiles[done.HostID],
		Guest:  profiles[done.GuestID],
	}
	if done.WinnerID != nil {
		winner := profiles[*done.WinnerID]
		view.Winner = &winner
	}
	return view, nil
}

func (s *BattleService) History(ctx context.Context, userID uint, page int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	db := s.db.WithContext(ctx)
	scope := func() *gorm.DB {
		return db.Model(&Battle{}).
			Where("(host_id = ? OR guest_id = ?) AND ended_at IS NOT NULL AND abandoned = ?", userID, userID, false)
	}
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, apperrors.NewAppError(500, "error loading history", err)
	}
	var battles []Battle
	err := scope().Order("ended_at DESC, id DESC").
		Offset((page - 1) * HistoryPageSize).Limit(HistoryPageSize).
		Find(&battles).Error
	if err != nil {
		return nil, apperrors.NewAppError(500, "error loading history", err)
	}

	opponents := make([]uint, 0, len(battles))
	for _, b := range battles {
		opponents = append(opponents, opponentOf(&b, userID))
	}
	profiles := map[uint]user.Profile{}
	if len(opponents) > 0 {
		if profiles, err = loadProfiles(db, opponents...); err != nil {
			return nil, apperrors.NewAppError(500, "error loading history", err)
		}
	}

	entries := make([]HistoryEntry, 0, len(battles))
	for i := range battles {
		b := &battles[i]
		mine, theirs := b.HostScore, b.GuestScore
		if b.GuestID == userID {
			mine, theirs = theirs, mine
		}
		outcome := events.OutcomeDraw
		if b.WinnerID != nil && *b.WinnerID == userID {
			outcome = events.OutcomeWin
		} else if b.WinnerID != nil {
			outcome = events.OutcomeLoss
		}
		entries = append(entries, HistoryEntry{
			ID:              b.ID,
			Opponent:        profiles[opponentOf(b, userID)],
			MyScore:         mine,
			OpponentScore:   theirs,
			Result:          outcome,
			Language:        b.Language,
			Difficulty:      b.Difficulty,
			Type:            b.Type,
			RoundCount:      b.RoundCount,
			DurationMinutes: round.DurationMinutes(b.EndedAt.Sub(b.StartedAt).Seconds()),
			EndedAt:         *b.EndedAt,
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

func (s *BattleService) memberLobby(db *gorm.DB, userID, lobbyID uint) (*Lobby, Role, error) {
	lobby, err := findLobby(db, lobbyID)
	if err != nil {
		return nil, "", apperrors.NewAppError(500, "error loading lobby", err)
	}
	if lobby == nil {
		return nil, "", apperrors.NewAppError(404, "lobby not found", ErrLobbyNotFound)
	}
	role, ok := lobby.RoleOf(userID)
	if !ok {
		return nil, "", apperrors.NewAppError(403, "you are not part of this battle", ErrForbidden)
	}
	return lobby, role, nil
}

func (s *BattleService) generateRound(ctx context.Context, tx *gorm.DB, b *Battle, number int, basePrompt string) (*BattleRound, error) {
	recent, err := recentBattleProblems(tx, b.Difficulty, b.Type)
	if err != nil {
		return nil, err
	}
	generated := s.generator.Generate(ctx, challenge.GenerateRequest{
		Language:       b.Language,
		Difficulty:     b.Difficulty,
		Type:           b.Type,
		Prompt:         basePrompt,
		RecentProblems: recent,
	})
	summary := generated.ProblemSummary
	if summary == "" {
		summary = generated.Title
	}
	return &BattleRound{
		BattleID:       b.ID,
		Number:         number,
		Type:           b.Type,
		Challenge:      generated,
		ProblemSummary: summary,
		InitialCode:    generated.InitialCode(),
	}, nil
}

func roundView(r *BattleRound, role Role, reveal bool) RoundView {
	view := RoundView{
		Number:         r.Number,
		Challenge:      r.Challenge,
		InitialCode:    r.InitialCode,
		Mine:           *r.Submission(role),
		HostSubmitted:  r.Host.Submitted(),
		GuestSubmitted: r.Guest.Submitted(),
		Completed:      r.CompletedAt != nil,
	}
	if reveal {
		opponent := *r.Submission(role.Opponent())
		view.Opponent = &opponent
	}
	return view
}

func opponentOf(b *Battle, userID uint) uint {
	if b.HostID == userID {
		return b.GuestID
	}
	return b.HostID
}

func battleEvent(b *Battle) events.MatchEvent {
	outcome := events.OutcomeDraw
	if b.WinnerID != nil {
		outcome = events.OutcomeWin
	}
	return events.MatchEvent{
		Kind:       events.KindBattle,
		MatchID:    b.ID,
		Users:      []uint{b.HostID, b.GuestID},
		Scores:     []int{b.HostScore, b.GuestScore},
		WinnerID:   b.WinnerID,
		Outcome:    outcome,
		Language:   b.Language,
		Difficulty: b.Difficulty,
		Type:       string(b.Type),
		FinishedAt: *b.EndedAt,
	}
}
