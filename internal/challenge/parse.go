package challenge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const NoSuggestedSolution = "No suggested solution provided."

var (
	ErrMissingScore = errors.New("evaluation has no score")

	fenceOpen  = regexp.MustCompile("(?i)^```json\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

type challengePayload struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	ProblemSummary flexText         `json:"problem_summary"`
	BuggyCode      string           `json:"buggy_code"`
	Hints          flexList         `json:"hints"`
	ExpectedOutput flexText         `json:"expected_output"`
	Examples       []examplePayload `json:"examples"`
	Constraints    flexList         `json:"constraints"`
	StarterCode    string           `json:"starter_code"`
}

type examplePayload struct {
	Input  flexText `json:"input"`
	Output flexText `json:"output"`
}

func parseChallenge(content string, t Type) (Challenge, error) {
	var payload challengePayload
	if err := json.Unmarshal([]byte(cleanJSON(content)), &payload); err != nil {
		return Challenge{}, fmt.Errorf("failed to parse challenge: %w", err)
	}

	c := Challenge{
		Type:           t,
		Title:          strings.TrimSpace(payload.Title),
		Description:    strings.TrimSpace(payload.Description),
		ProblemSummary: strings.TrimSpace(string(payload.ProblemSummary)),
	}
	if t == TypeDebug {
		c.BuggyCode = payload.BuggyCode
		c.Hints = payload.Hints
		c.ExpectedOutput = string(payload.ExpectedOutput)
	} else {
		c.StarterCode = payload.StarterCode
		c.Constraints = payload.Constraints
		for _, ex := range payload.Examples {
			c.Examples = append(c.Examples, Example{Input: string(ex.Input), Output: string(ex.Output)})
		}
	}

	if err := c.Validate(); err != nil {
		return Challenge{}, err
	}
	return c, nil
}

type evaluationPayload struct {
	Score       json.RawMessage `json:"score"`
	Explanation flexText        `json:"explanation"`
	Feedback    json.RawMessage `json:"feedback"`
}

func parseEvaluation(content string) (Evaluation, error) {
	var payload evaluationPayload
	if err := json.Unmarshal([]byte(cleanJSON(content)), &payload); err != nil {
		return Evaluation{}, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	score, err := parseScore(payload.Score)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Score:       clampScore(score),
		Explanation: string(payload.Explanation),
		Feedback:    cleanFeedback(payload.Feedback),
	}, nil
}

func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = fenceOpen.ReplaceAllString(content, "")
	content = fenceClose.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

func parseScore(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, ErrMissingScore
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return 0, fmt.Errorf("invalid score: %w", err)
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid score %q: %w", v, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid score %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("invalid score type %T", value)
	}
}

// clampScore bounds the score before converting, since int() of an
// out-of-range float is implementation-defined.
func clampScore(score float64) int {
	return int(math.Max(0, math.Min(100, score)))
}

// cleanFeedback keeps the recognized feedback keys only. Models sometimes emit
// the suggested solution as an object key; such keys (multi-line or longer than
// 100 characters) are recovered as the suggested solution.
func cleanFeedback(raw json.RawMessage) Feedback {
	var fields map[string]json.RawMessage
	var feedback Feedback
	if err := json.Unmarshal(raw, &fields); err != nil {
		feedback.SuggestedSolution = NoSuggestedSolution
		return feedback
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var recovered string
	for _, key := range keys {
		value := fields[key]
		if strings.Contains(key, "\n") || len(key) > 100 {
			if recovered == "" {
				recovered = strings.TrimSpace(key)
			}
			continue
		}
		switch key {
		case "correctness":
			feedback.Correctness = textOf(value)
		case "quality":
			feedback.Quality = textOf(value)
		case "efficiency":
			feedback.Efficiency = textOf(value)
		case "improvements":
			var list flexList
			if err := json.Unmarshal(value, &list); err == nil {
				feedback.Improvements = list
			}
		case "suggested_solution":
			feedback.SuggestedSolution = textOf(value)
		}
	}

	if feedback.SuggestedSolution == "" {
		feedback.SuggestedSolution = recovered
	}
	if feedback.SuggestedSolution == "" {
		feedback.SuggestedSolution = NoSuggestedSolution
	}
	return feedback
}

func textOf(raw json.RawMessage) string {
	var t flexText
	if err := json.Unmarshal(raw, &t); err != nil {
		return ""
	}
	return string(t)
}
