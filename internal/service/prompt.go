package service

import (
	"fmt"
	"strings"

	"talentprep/internal/model"
)

var categoryFocus = map[model.Category]string{
	model.CategoryTechnical:   "technical knowledge, tools, and problem-solving in the field",
	model.CategoryBehavioral:  "past behavior, teamwork, and soft skills (STAR-style questions)",
	model.CategorySituational: "hypothetical workplace scenarios and judgment",
}

// buildQuestionPrompt constructs the generation prompt from the talent
// profile and resolved career field.
func buildQuestionPrompt(talent *model.Talent, field string, category model.Category, count int) string {
	focus := "a balanced mix of technical, behavioral, and situational questions"
	if f, ok := categoryFocus[category]; ok {
		focus = f
	}
	if strings.TrimSpace(field) == "" {
		field = "their chosen field"
	}

	profile := profileSummary(talent)

	return fmt.Sprintf(`You are an experienced interview coach preparing a candidate for interviews in %s.
Return ONLY a valid JSON array, no markdown, no backticks, no explanation. Each element must match:
{
  "question": "the interview question",
  "answer": "a strong sample answer written in the candidate's voice",
  "tips": ["tip 1", "tip 2", "tip 3"]
}

Candidate profile:
%s

Generate exactly %d interview questions focused on %s.
Requirements:
1. Tailor questions to the candidate's career stage and profile.
2. Sample answers must be specific and usable, not generic filler.
3. Each question must have exactly 3 short, actionable tips.
4. Output must start with [ and end with ]. Nothing else.`,
		field, profile, count, focus)
}

func profileSummary(talent *model.Talent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Name: %s\n", talent.Name)
	fmt.Fprintf(&sb, "- Career stage: %s", stageDescription(talent.CareerStage))

	if len(talent.Skills) > 0 {
		fmt.Fprintf(&sb, "\n- Skills: %s", strings.Join(talent.Skills, ", "))
	}
	if len(talent.Degrees) > 0 {
		fmt.Fprintf(&sb, "\n- Degrees: %s", strings.Join(talent.Degrees, ", "))
	}
	if len(talent.Certifications) > 0 {
		fmt.Fprintf(&sb, "\n- Certifications: %s", strings.Join(talent.Certifications, ", "))
	}
	if len(talent.Interests) > 0 {
		fmt.Fprintf(&sb, "\n- Interests: %s", strings.Join(talent.Interests, ", "))
	}
	return sb.String()
}

func stageDescription(stage model.CareerStage) string {
	switch stage {
	case model.StagePathfinder:
		return "Pathfinder (student or fresh graduate, expect entry-level questions)"
	case model.StageTrailblazer:
		return "Trailblazer (working professional growing in their field)"
	case model.StageHorizonChanger:
		return "Horizon Changer (experienced professional switching fields, probe transferable skills)"
	}
	return string(stage)
}
