// Package question turns parsed model output into canonical
// QuestionRecords and owns the static fallback set.
package question

import (
	"fmt"
	"strings"

	"talentprep/internal/model"
)

// ValidationError reports a structurally unusable item in parsed model
// output, identified by array index and offending field.
type ValidationError struct {
	Index int
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d: invalid or missing %q", e.Index, e.Field)
}

// Config controls the shape the validator enforces
type Config struct {
	TargetCount int
	RequireTips bool
	MaxTips     int
	TipMaxWords int
}

// Validator normalizes arbitrary parsed objects into QuestionRecords.
// Output always has exactly TargetCount records: surplus items are
// truncated in order, deficits are padded from the fallback set.
type Validator struct {
	cfg      Config
	fallback *FallbackProvider
}

func NewValidator(cfg Config, fallback *FallbackProvider) *Validator {
	if cfg.MaxTips <= 0 {
		cfg.MaxTips = 3
	}
	return &Validator{cfg: cfg, fallback: fallback}
}

// Validate applies per-item rules in array order. The category, talent
// and field arguments only matter when fallback padding is needed.
// Unknown fields on items are dropped.
func (v *Validator) Validate(items []interface{}, category model.Category, talent *model.Talent, field string) ([]model.QuestionRecord, error) {
	records := make([]model.QuestionRecord, 0, v.cfg.TargetCount)

	for i, item := range items {
		if len(records) >= v.cfg.TargetCount {
			break
		}

		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, &ValidationError{Index: i, Field: "item"}
		}

		q := strings.TrimSpace(stringField(obj, "question"))
		if q == "" {
			return nil, &ValidationError{Index: i, Field: "question"}
		}
		a := strings.TrimSpace(stringField(obj, "answer"))
		if a == "" {
			return nil, &ValidationError{Index: i, Field: "answer"}
		}

		tips, err := v.coerceTips(obj, i)
		if err != nil {
			return nil, err
		}

		records = append(records, model.QuestionRecord{
			ID:       len(records) + 1,
			Question: q,
			Answer:   a,
			Tips:     tips,
		})
	}

	// Pad up to the target count from the fallback set, cycling when
	// the set is smaller than the deficit.
	if len(records) < v.cfg.TargetCount {
		pool := v.fallback.Provide(category, talent, field)
		for i := 0; len(records) < v.cfg.TargetCount; i++ {
			fb := pool[i%len(pool)]
			fb.ID = len(records) + 1
			records = append(records, fb)
		}
	}

	return records, nil
}

// coerceTips extracts and normalizes the tips array: every entry is
// coerced to trimmed text, the list is capped at MaxTips, and long
// tips are cut at the word ceiling with an ellipsis.
func (v *Validator) coerceTips(obj map[string]interface{}, index int) ([]string, error) {
	raw, present := obj["tips"]
	if !present || raw == nil {
		if v.cfg.RequireTips {
			return nil, &ValidationError{Index: index, Field: "tips"}
		}
		return nil, nil
	}

	arr, ok := raw.([]interface{})
	if !ok {
		if v.cfg.RequireTips {
			return nil, &ValidationError{Index: index, Field: "tips"}
		}
		return nil, nil
	}

	tips := make([]string, 0, v.cfg.MaxTips)
	for _, entry := range arr {
		if len(tips) >= v.cfg.MaxTips {
			break
		}
		text := strings.TrimSpace(coerceString(entry))
		if text == "" {
			continue
		}
		tips = append(tips, truncateWords(text, v.cfg.TipMaxWords))
	}

	if v.cfg.RequireTips && len(tips) == 0 {
		return nil, &ValidationError{Index: index, Field: "tips"}
	}
	return tips, nil
}

func stringField(obj map[string]interface{}, key string) string {
	if v, ok := obj[key]; ok {
		return coerceString(v)
	}
	return ""
}

// coerceString renders non-text values as text rather than rejecting
// them; numbers arrive as float64 from the JSON decoder.
func coerceString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truncateWords(s string, maxWords int) string {
	if maxWords <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
