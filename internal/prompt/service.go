package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/challenge"
	"go.uber.org/zap"
)

var ErrPromptNotFound = errors.New("prompt_not_found")

// Resolver is what the engines depend on.
type Resolver interface {
	Resolve(ctx context.Context, t challenge.Type) Set
}

type PromptService struct {
	repo   PromptRepository
	logger *zap.Logger
}

func NewPromptService(repo PromptRepository, logger *zap.Logger) *PromptService {
	return &PromptService{repo: repo, logger: logger}
}

// Resolve prefers the most recently edited prompt row for t. A lookup failure
// is logged and falls back to the built-in prompts.
func (s *PromptService) Resolve(ctx context.Context, t challenge.Type) Set {
	p, err := s.repo.LatestForType(ctx, string(t))
	if err != nil {
		s.logger.Error("prompt lookup failed, using defaults", zap.String("type", string(t)), zap.Error(err))
		return Default(t)
	}
	if p == nil {
		return Default(t)
	}
	return Set{Challenge: p.ChallengePrompt, Scoring: p.ScoringPrompt}
}

func (s *PromptService) List(ctx context.Context) ([]Prompt, error) {
	prompts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error listing prompts", err)
	}
	return prompts, nil
}

func (s *PromptService) Get(ctx context.Context, id uint) (*Prompt, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewAppError(500, "error fetching prompt", err)
	}
	if p == nil {
		return nil, apperrors.NewAppError(404, "prompt not found", ErrPromptNotFound)
	}
	return p, nil
}

func (s *PromptService) Create(ctx context.Context, req PromptRequest) (*Prompt, error) {
	p := &Prompt{}
	apply(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperrors.NewAppError(500, "error creating prompt", err)
	}
	return p, nil
}

func (s *PromptService) Update(ctx context.Context, id uint, req PromptRequest) (*Prompt, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperrors.NewAppError(500, "error updating prompt", err)
	}
	return p, nil
}

func (s *PromptService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewAppError(500, "error deleting prompt", err)
	}
	return nil
}

func apply(p *Prompt, req PromptRequest) {
	p.Type = strings.TrimSpace(req.Type)
	p.ChallengePrompt = req.ChallengePrompt
	p.ScoringPrompt = req.ScoringPrompt
}
