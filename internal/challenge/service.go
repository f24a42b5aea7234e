package challenge

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) Challenge
}

type Evaluator interface {
	Evaluate(ctx context.Context, req EvaluateRequest) Evaluation
}

type GenerateRequest struct {
	Language       string
	Difficulty     string
	Type           Type
	Prompt         string
	RecentProblems []string
}

type EvaluateRequest struct {
	Challenge Challenge
	Code      string
	Language  string
	Type      Type
	Prompt    string
	Elapsed   time.Duration
}

// Service generates and scores challenges through the completion API. It
// never returns an error: every failure is logged and replaced by a fallback.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

func NewService(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

func (s *Service) Generate(ctx context.Context, req GenerateRequest) Challenge {
	content, err := s.completer.Complete(ctx, buildChallengePrompt(req))
	if err != nil {
		s.logger.Error("challenge generation failed",
			zap.Error(err),
			zap.String("language", req.Language),
			zap.String("difficulty", req.Difficulty),
			zap.String("type", string(req.Type)),
		)
		return FallbackChallenge(req.Language, req.Type)
	}

	c, err := parseChallenge(content, req.Type)
	if err != nil {
		s.logger.Error("challenge response rejected",
			zap.Error(err),
			zap.Int("response_length", len(content)),
			zap.String("response_head", truncate(content, 200)),
		)
		return FallbackChallenge(req.Language, req.Type)
	}
	return c
}

func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) Evaluation {
	question, err := json.MarshalIndent(req.Challenge, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode challenge for evaluation", zap.Error(err))
		return FailedEvaluation()
	}

	content, err := s.completer.Complete(ctx, buildScoringPrompt(req, string(question)))
	if err != nil {
		s.logger.Error("code evaluation failed",
			zap.Error(err),
			zap.Int("submitted_code_length", len(req.Code)),
			zap.String("type", string(req.Type)),
		)
		return FailedEvaluation()
	}

	evaluation, err := parseEvaluation(content)
	if err != nil {
		s.logger.Error("evaluation response rejected",
			zap.Error(err),
			zap.Int("response_length", len(content)),
			zap.String("response_head", truncate(content, 200)),
		)
		return FailedEvaluation()
	}
	s.logger.Debug("evaluation parsed", zap.Int("score", evaluation.Score))
	return evaluation
}
