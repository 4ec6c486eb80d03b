package entities

import (
	"encoding/json"
	"time"
)

// Assessment is a persisted record of a dispatched AI request and its
// normalized result: a symptom analysis, chat exchange, nutrition
// analysis, mental health assessment, fitness plan or education article.
type Assessment struct {
	ID             string          `json:"id" db:"id"`
	Kind           string          `json:"kind" db:"kind"`
	Specialization string          `json:"specialization" db:"specialization"`
	Input          json.RawMessage `json:"input" db:"input"`
	Result         json.RawMessage `json:"result,omitempty" db:"result"`
	Provider       string          `json:"provider" db:"provider"`
	Model          string          `json:"model,omitempty" db:"model"`
	ElapsedMS      int64           `json:"elapsed_ms" db:"elapsed_ms"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
