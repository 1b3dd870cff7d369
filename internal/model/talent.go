package model

// CareerStage describes a talent's professional maturity level
type CareerStage string

const (
	StagePathfinder     CareerStage = "Pathfinder"      // Students and fresh graduates
	StageTrailblazer    CareerStage = "Trailblazer"     // Early-to-mid career professionals
	StageHorizonChanger CareerStage = "Horizon Changer" // Professionals switching fields
)

// Talent is a user profile document from the talents collection
type Talent struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	Name           string      `json:"name" bson:"name"`
	CareerStage    CareerStage `json:"careerStage" bson:"careerStage"`
	SelectedPathID string      `json:"selectedPathId,omitempty" bson:"selectedPath,omitempty"`
	Skills         []string    `json:"skills,omitempty" bson:"skills,omitempty"`
	Degrees        []string    `json:"degrees,omitempty" bson:"degrees,omitempty"`
	Interests      []string    `json:"interests,omitempty" bson:"interests,omitempty"`
	Certifications []string    `json:"certifications,omitempty" bson:"certifications,omitempty"`
}

// CareerPath is a named field/discipline a talent targets
type CareerPath struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}
