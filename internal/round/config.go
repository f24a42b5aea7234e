package round

import (
	"fmt"
	"strings"

	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/challenge"
)

const (
	MinRounds = 1
	MaxRounds = 7
)

type Language struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Languages = []Language{
	{Value: "python", Label: "Python"},
	{Value: "javascript", Label: "JavaScript"},
	{Value: "typescript", Label: "TypeScript"},
	{Value: "java", Label: "Java"},
	{Value: "cpp", Label: "C++"},
	{Value: "csharp", Label: "C#"},
	{Value: "go", Label: "Go"},
	{Value: "rust", Label: "Rust"},
	{Value: "php", Label: "PHP"},
	{Value: "ruby", Label: "Ruby"},
}

// Config is the game setup chosen before round 1. It is copied onto the
// session row and never read from anywhere else afterwards.
type Config struct {
	Language   string         `json:"language"`
	Difficulty string         `json:"difficulty"`
	RoundCount int            `json:"round_count"`
	Type       challenge.Type `json:"game_type"`
}

func (c *Config) Normalize() {
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	c.Difficulty = strings.ToLower(strings.TrimSpace(c.Difficulty))
}

func (c Config) Validate() error {
	if !SupportedLanguage(c.Language) {
		return apperrors.NewAppError(400, fmt.Sprintf("unsupported language %q", c.Language), ErrInvalidConfig)
	}
	switch c.Difficulty {
	case challenge.DifficultyEasy, challenge.DifficultyMedium, challenge.DifficultyHard:
	default:
		return apperrors.NewAppError(400, "difficulty must be easy, medium or hard", ErrInvalidConfig)
	}
	if c.RoundCount < MinRounds || c.RoundCount > MaxRounds {
		return apperrors.NewAppError(400, fmt.Sprintf("round count must be between %d and %d", MinRounds, MaxRounds), ErrInvalidConfig)
	}
	if !c.Type.Valid() {
		return apperrors.NewAppError(400, "game type must be debug or problem-solving", ErrInvalidConfig)
	}
	return nil
}

func SupportedLanguage(value string) bool {
	for _, l := range Languages {
		if l.Value == value {
			return true
		}
	}
	return false
}
