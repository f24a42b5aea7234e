package challenge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestService_Generate_UsesCompletion(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, "- reverse a linked list") &&
			assert.Contains(t, prompt, "Generate a COMPLETELY DIFFERENT problem") &&
			assert.Contains(t, prompt, "Programming Language: go") &&
			assert.Contains(t, prompt, "Challenge Type: Problem Solving")
	})).Return(`{"title":"Count Vowels","description":"Count vowels","problem_summary":"count vowels in a string","examples":[{"input":"s = \"go\"","output":"1"}],"constraints":["ascii only"],"starter_code":"func countVowels(s string) int {\n}"}`, nil)

	c := svc.Generate(context.Background(), GenerateRequest{
		Language:       "go",
		Difficulty:     DifficultyEasy,
		Type:           TypeProblemSolving,
		Prompt:         "base prompt",
		RecentProblems: []string{"reverse a linked list", "sum of digits"},
	})

	assert.Equal(t, "Count Vowels", c.Title)
	assert.Equal(t, "count vowels in a string", c.ProblemSummary)
	assert.Equal(t, TypeProblemSolving, c.Type)
	completer.AssertExpectations(t)
}

func TestService_Generate_NoRecentProblemsAsksForVariety(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, "Avoid common textbook examples like FizzBuzz") &&
			assert.Contains(t, prompt, "Challenge Type: Debug Challenge") &&
			assert.Contains(t, prompt, "EASY (BEGINNER LEVEL - CRITICAL)")
	})).Return("", errors.New("timeout"))

	c := svc.Generate(context.Background(), GenerateRequest{Language: "python", Difficulty: "easy", Type: TypeDebug, Prompt: "p"})
	assert.Equal(t, "Fix the FizzBuzz", c.Title)
	assert.Contains(t, c.BuggyCode, "if i % 3 = 0")
	completer.AssertExpectations(t)
}

func TestService_Generate_FallsBackOnInvalidPayload(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"title": "No code"}`, nil)

	c := svc.Generate(context.Background(), GenerateRequest{Language: "java", Difficulty: "hard", Type: TypeProblemSolving, Prompt: "p"})
	assert.Equal(t, "Sum of Two Numbers", c.Title)
	assert.Equal(t, "public int sumNumbers(int a, int b) {\n    // Your code here\n}", c.StarterCode)
	assert.Len(t, c.Examples, 2)
}

func TestService_Evaluate_PassesContext(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())

	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, "Fixed Code Submitted by Student (python)") &&
			assert.Contains(t, prompt, "print('fixed')") &&
			assert.Contains(t, prompt, `"title": "Fix the FizzBuzz"`) &&
			assert.Contains(t, prompt, "Submission Time: 42 seconds")
	})).Return(`{"score": 77, "explanation": "decent", "feedback": {"improvements": ["x"]}}`, nil)

	eval := svc.Evaluate(context.Background(), EvaluateRequest{
		Challenge: FallbackChallenge("python", TypeDebug),
		Code:      "print('fixed')",
		Language:  "python",
		Type:      TypeDebug,
		Prompt:    "rubric",
		Elapsed:   42 * time.Second,
	})

	assert.Equal(t, 77, eval.Score)
	assert.Equal(t, []string{"x"}, eval.Feedback.Improvements)
	completer.AssertExpectations(t)
}

func TestService_Evaluate_FailureResult(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"feedback": {}}`, nil)

	eval := svc.Evaluate(context.Background(), EvaluateRequest{Type: TypeProblemSolving, Code: "x"})
	assert.Equal(t, FailedEvaluation(), eval)
	assert.Equal(t, 0, eval.Score)
	assert.Equal(t, "Unable to evaluate submission. API error occurred.", eval.Explanation)
	assert.Equal(t, []string{"Please try submitting again", "Contact support if this persists"}, eval.Feedback.Improvements)
}

func TestService_Generate_FallsBackOnCompletionError(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())
	completer.On("Complete", mock.Anything, mock.Anything).Return("", context.DeadlineExceeded)

	c := svc.Generate(context.Background(), GenerateRequest{Language: "javascript", Difficulty: "medium", Type: TypeDebug, Prompt: "p"})
	assert.Equal(t, FallbackChallenge("javascript", TypeDebug), c)

	c = svc.Generate(context.Background(), GenerateRequest{Language: "java", Difficulty: "medium", Type: TypeProblemSolving, Prompt: "p"})
	assert.Equal(t, FallbackChallenge("java", TypeProblemSolving), c)
	completer.AssertNumberOfCalls(t, "Complete", 2)
}

func TestService_Evaluate_FailsOnCompletionError(t *testing.T) {
	completer := &CompleterMock{}
	svc := NewService(completer, zap.NewNop())
	completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	eval := svc.Evaluate(context.Background(), EvaluateRequest{
		Challenge: FallbackChallenge("python", TypeDebug),
		Code:      "print('fixed')",
		Language:  "python",
		Type:      TypeDebug,
		Prompt:    "rubric",
	})
	assert.Equal(t, FailedEvaluation(), eval)
	completer.AssertExpectations(t)
}
