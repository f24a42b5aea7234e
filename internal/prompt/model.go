package prompt

import "time"

type Prompt struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Type            string    `gorm:"size:255;not null;index" json:"type"`
	ChallengePrompt string    `gorm:"type:text;not null" json:"challenge_prompt"`
	ScoringPrompt   string    `gorm:"type:text;not null" json:"scoring_prompt"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type PromptRequest struct {
	Type            string `json:"type" validate:"required,max=255"`
	ChallengePrompt string `json:"challenge_prompt" validate:"required"`
	ScoringPrompt   string `json:"scoring_prompt" validate:"required"`
}

// Set is the pair of base prompts the engines hand to the AI adapters.
type Set struct {
	Challenge string
	Scoring   string
}
