package round

import (
	"errors"
	"time"

	"github.com/thesrcielos/CodeClash/internal/challenge"
)

var (
	ErrInvalidConfig    = errors.New("invalid_config")
	ErrAlreadySubmitted = errors.New("already_submitted")
)

// Submission is one participant's answer to a round. ClaimedAt is set when
// the answer is accepted for evaluation, SubmittedAt once it is scored.
type Submission struct {
	Code        string                `gorm:"type:text" json:"code,omitempty"`
	ClaimedAt   *time.Time            `json:"claimed_at,omitempty"`
	SubmittedAt *time.Time            `json:"submitted_at,omitempty"`
	Score       int                   `gorm:"not null;default:0" json:"score"`
	Evaluation  *challenge.Evaluation `gorm:"type:text;serializer:json" json:"evaluation,omitempty"`
}

func (s *Submission) Submitted() bool {
	return s.SubmittedAt != nil
}

// Pending reports an answer under evaluation.
func (s *Submission) Pending() bool {
	return s.ClaimedAt != nil && s.SubmittedAt == nil
}

// Claim reserves the submission slot. It fails if the slot was already
// claimed or submitted.
func (s *Submission) Claim(code string, at time.Time) error {
	if s.ClaimedAt != nil || s.SubmittedAt != nil {
		return ErrAlreadySubmitted
	}
	s.Code = code
	s.ClaimedAt = &at
	return nil
}

func (s *Submission) Record(eval challenge.Evaluation, at time.Time) {
	s.SubmittedAt = &at
	s.Score = eval.Score
	s.Evaluation = &eval
}
