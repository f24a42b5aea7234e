package challenge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Type string

const (
	TypeDebug          Type = "debug"
	TypeProblemSolving Type = "problem-solving"
)

func (t Type) Valid() bool {
	return t == TypeDebug || t == TypeProblemSolving
}

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Challenge is one generated coding task. Debug challenges carry BuggyCode,
// Hints and ExpectedOutput; problem-solving challenges carry Examples,
// Constraints and StarterCode.
type Challenge struct {
	Type           Type   `json:"type"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ProblemSummary string `json:"problem_summary,omitempty"`

	BuggyCode      string   `json:"buggy_code,omitempty"`
	Hints          []string `json:"hints,omitempty"`
	ExpectedOutput string   `json:"expected_output,omitempty"`

	Examples    []Example `json:"examples,omitempty"`
	Constraints []string  `json:"constraints,omitempty"`
	StarterCode string    `json:"starter_code,omitempty"`
}

type Example struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

var (
	ErrMissingTitle       = errors.New("challenge has no title")
	ErrMissingDescription = errors.New("challenge has no description")
	ErrMissingCode        = errors.New("challenge has no code for its type")
)

func (c Challenge) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(c.Description) == "" {
		return ErrMissingDescription
	}
	switch c.Type {
	case TypeDebug:
		if strings.TrimSpace(c.BuggyCode) == "" {
			return ErrMissingCode
		}
	case TypeProblemSolving:
		if strings.TrimSpace(c.StarterCode) == "" {
			return ErrMissingCode
		}
	default:
		return fmt.Errorf("unknown challenge type %q", c.Type)
	}
	return nil
}

// InitialCode is what the player's editor starts with.
func (c Challenge) InitialCode() string {
	if c.BuggyCode != "" {
		return c.BuggyCode
	}
	return c.StarterCode
}

type Evaluation struct {
	Score       int      `json:"score"`
	Explanation string   `json:"explanation"`
	Feedback    Feedback `json:"feedback"`
}

type Feedback struct {
	Correctness       string   `json:"correctness,omitempty"`
	Quality           string   `json:"quality,omitempty"`
	Efficiency        string   `json:"efficiency,omitempty"`
	Improvements      []string `json:"improvements,omitempty"`
	SuggestedSolution string   `json:"suggested_solution,omitempty"`
}

// flexText accepts any JSON value. Strings are kept as they are, anything else
// keeps its compact JSON text.
type flexText string

func (t *flexText) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = flexText(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return err
	}
	*t = flexText(buf.String())
	return nil
}

// flexList accepts either a list or a single bare value.
type flexList []string

func (l *flexList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []flexText
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, string(item))
		}
		*l = out
		return nil
	}
	var single flexText
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = []string{string(single)}
	return nil
}
