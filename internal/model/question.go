package model

import "time"

// Category labels a generated question set. Empty means a general mix.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryBehavioral  Category = "behavioral"
	CategorySituational Category = "situational"
)

// ValidCategory reports whether c is an accepted category label
func ValidCategory(c Category) bool {
	switch c {
	case "", CategoryTechnical, CategoryBehavioral, CategorySituational:
		return true
	}
	return false
}

// QuestionRecord is a single validated interview question.
// IDs are 1-based and sequential within a response; they are assigned
// during validation, never taken from model output.
type QuestionRecord struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tips     []string `json:"tips,omitempty"`
}

// AttemptOutcome classifies how a single generation attempt ended
type AttemptOutcome string

const (
	OutcomeSuccess      AttemptOutcome = "success"
	OutcomeParseFailure AttemptOutcome = "parse_failure"
	OutcomeTimeout      AttemptOutcome = "timeout"
	OutcomeModelError   AttemptOutcome = "model_error"
	OutcomeEmpty        AttemptOutcome = "empty"
)

// GenerationAttempt records one try against the model. Kept only for
// the duration of a request to drive retry decisions and logging.
type GenerationAttempt struct {
	Number  int
	Elapsed time.Duration
	RawLen  int
	Outcome AttemptOutcome
}

// GenerateRequest is the request body for question generation
type GenerateRequest struct {
	TalentID string   `json:"talentId"`
	Category Category `json:"category,omitempty"`
}

// CareerPathMeta is the career path portion of response metadata,
// null in the payload when the talent has no resolvable path
type CareerPathMeta struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// QuestionSetResponse is the payload returned to the caller
type QuestionSetResponse struct {
	Success      bool             `json:"success"`
	Questions    []QuestionRecord `json:"questions,omitempty"`
	Error        string           `json:"error,omitempty"`
	RequestID    string           `json:"requestId"`
	TalentID     string           `json:"talentId"`
	TalentName   string           `json:"talentName,omitempty"`
	CareerStage  CareerStage      `json:"careerStage,omitempty"`
	CareerPath   *CareerPathMeta  `json:"careerPath"`
	Category     Category         `json:"category,omitempty"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	ElapsedMS    int64            `json:"elapsedMs"`
	UsedFallback bool             `json:"usedFallback"`
}
