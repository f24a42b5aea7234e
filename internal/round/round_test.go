package round

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/CodeClash/internal/apperrors"
	"github.com/thesrcielos/CodeClash/internal/challenge"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{Language: "python", Difficulty: "easy", RoundCount: 3, Type: challenge.TypeDebug}
	assert.NoError(t, valid.Validate())

	cases := map[string]Config{
		"language":   {Language: "cobol", Difficulty: "easy", RoundCount: 3, Type: challenge.TypeDebug},
		"difficulty": {Language: "go", Difficulty: "extreme", RoundCount: 3, Type: challenge.TypeDebug},
		"zero":       {Language: "go", Difficulty: "hard", RoundCount: 0, Type: challenge.TypeDebug},
		"eight":      {Language: "go", Difficulty: "hard", RoundCount: 8, Type: challenge.TypeDebug},
		"type":       {Language: "go", Difficulty: "hard", RoundCount: 2, Type: "quiz"},
	}
	for name, cfg := range cases {
		err := cfg.Validate()
		require.Error(t, err, name)
		assert.Equal(t, 400, apperrors.Code(err), name)
		assert.True(t, errors.Is(err, ErrInvalidConfig), name)
	}
}

func TestConfig_Normalize(t *testing.T) {
	cfg := Config{Language: " Python ", Difficulty: "HARD"}
	cfg.Normalize()
	assert.Equal(t, "python", cfg.Language)
	assert.Equal(t, "hard", cfg.Difficulty)
}

func TestSubmission_ClaimOnce(t *testing.T) {
	var s Submission
	now := time.Now()

	require.NoError(t, s.Claim("print(1)", now))
	assert.True(t, s.Pending())
	assert.ErrorIs(t, s.Claim("print(2)", now), ErrAlreadySubmitted)
	assert.Equal(t, "print(1)", s.Code)

	s.Record(challenge.Evaluation{Score: 64}, now)
	assert.True(t, s.Submitted())
	assert.False(t, s.Pending())
	assert.Equal(t, 64, s.Score)
	assert.ErrorIs(t, s.Claim("print(3)", now), ErrAlreadySubmitted)
}

func TestRate(t *testing.T) {
	assert.Equal(t, "Excellent", Rate(510, 6).Rating)
	assert.Equal(t, "Great", Rate(70, 1).Rating)
	assert.Equal(t, "Good", Rate(150, 3).Rating)
	assert.Equal(t, "Keep Practicing", Rate(149, 3).Rating)
	assert.Equal(t, "Keep Practicing", Rate(0, 0).Rating)
}

func TestAverageAndDuration(t *testing.T) {
	assert.Equal(t, 66.7, AverageScore(200, 3))
	assert.Equal(t, 0.0, AverageScore(10, 0))
	assert.Equal(t, 1, DurationMinutes(5))
	assert.Equal(t, 2, DurationMinutes(61))
	assert.Equal(t, 0, DurationMinutes(0))
}
