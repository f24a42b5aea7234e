package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/challenge"
	"github.com/thesrcielos/CodeClash/internal/testdb"
	"go.uber.org/zap"
)

func newService(t *testing.T) *PromptService {
	db := testdb.New(t, &Prompt{})
	return NewPromptService(NewPromptRepository(db), zap.NewNop())
}

func TestResolve_Defaults(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	debug := service.Resolve(ctx, challenge.TypeDebug)
	assert.Contains(t, debug.Challenge, "deliberate bugs")
	assert.Contains(t, debug.Scoring, "fix all the bugs")

	problem := service.Resolve(ctx, challenge.TypeProblemSolving)
	assert.Contains(t, problem.Challenge, "algorithmic problem")
	assert.Contains(t, problem.Scoring, "time and space complexity")

	unknown := service.Resolve(ctx, challenge.Type("trivia"))
	assert.Equal(t, genericChallengePrompt, unknown.Challenge)
	assert.Equal(t, genericScoringPrompt, unknown.Scoring)
}

func TestResolve_PrefersLatestRow(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, PromptRequest{Type: "debug", ChallengePrompt: "old challenge", ScoringPrompt: "old scoring"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = service.Create(ctx, PromptRequest{Type: "debug", ChallengePrompt: "new challenge", ScoringPrompt: "new scoring"})
	require.NoError(t, err)

	set := service.Resolve(ctx, challenge.TypeDebug)
	assert.Equal(t, "new challenge", set.Challenge)
	assert.Equal(t, "new scoring", set.Scoring)

	time.Sleep(5 * time.Millisecond)
	_, err = service.Update(ctx, first.ID, PromptRequest{Type: "debug", ChallengePrompt: "edited", ScoringPrompt: "edited scoring"})
	require.NoError(t, err)
	assert.Equal(t, "edited", service.Resolve(ctx, challenge.TypeDebug).Challenge)

	assert.Contains(t, service.Resolve(ctx, challenge.TypeProblemSolving).Challenge, "algorithmic problem")
}

func TestPromptCRUD(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, PromptRequest{Type: " problem-solving ", ChallengePrompt: "c", ScoringPrompt: "s"})
	require.NoError(t, err)
	assert.Equal(t, "problem-solving", created.Type)

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", got.ChallengePrompt)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPromptNotFound)
	assert.Equal(t, 404, apperrors.Code(err))

	err = service.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPromptNotFound)
}
