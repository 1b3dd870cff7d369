// Package extract recovers a JSON array from free-form model output.
//
// Generative models routinely wrap JSON in markdown fences, prepend
// prose, emit single-quoted or bare-key pseudo-JSON, or truncate the
// tail. Extraction runs a fixed sequence of attempts: direct parse,
// fence strip, bracket slice, then the textual repair pipeline.
package extract

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// ExtractionError reports raw model output from which no JSON array
// could be recovered. Head and Tail carry short previews so failures
// can be diagnosed without replaying the request.
type ExtractionError struct {
	Reason string
	RawLen int
	Head   string
	Tail   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %s (raw %d bytes, head %q, tail %q)",
		e.Reason, e.RawLen, e.Head, e.Tail)
}

// Transform is a single named text repair pass
type Transform struct {
	Name  string
	Apply func(string) string
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment   = regexp.MustCompile(`(?m)^\s*//[^\n]*$`)
	reBareKey       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	reSingleQKey    = regexp.MustCompile(`([{,]\s*)'([^']*)'(\s*:)`)
	reSingleQValue  = regexp.MustCompile(`([:,\[{]\s*)'((?:[^'\\]|\\.)*)'`)
	reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)
	reWhitespaceRun = regexp.MustCompile(`[ \t]{2,}`)
)

// Repairs is the ordered repair pipeline applied to sliced candidate
// text. Order matters: comments go first so their contents cannot be
// re-quoted, key quoting precedes value quoting, and trailing-comma
// stripping runs last so earlier passes cannot reintroduce one.
var Repairs = []Transform{
	{"strip_comments", stripComments},
	{"collapse_newlines", collapseNewlines},
	{"quote_bare_keys", quoteBareKeys},
	{"single_to_double_quotes", singleToDoubleQuotes},
	{"strip_trailing_commas", stripTrailingCommas},
	{"normalize_whitespace", normalizeWhitespace},
}

// Repair runs the full repair pipeline over s
func Repair(s string) string {
	for _, t := range Repairs {
		s = t.Apply(s)
	}
	return s
}

// Array locates and repairs a JSON array inside raw model output.
// A lone top-level object is wrapped into a one-element array;
// concatenated top-level objects are split and rejoined. Returns an
// *ExtractionError when nothing recoverable is found.
func Array(raw string) ([]interface{}, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, newError("empty input", raw)
	}

	if arr, err := tryParse(text); err == nil {
		return arr, nil
	}

	cleaned := strings.TrimSpace(stripFences(text))
	if arr, err := tryParse(cleaned); err == nil {
		return arr, nil
	}
	log.Printf("[Extract] direct parse failed, attempting recovery (preview: %q)", preview(cleaned, 80))

	candidate, ok := sliceCandidate(cleaned)
	if !ok {
		return nil, newError("no JSON array or object found", raw)
	}

	if arr, err := tryParse(candidate); err == nil {
		return arr, nil
	}

	repaired := Repair(candidate)
	arr, err := tryParse(repaired)
	if err != nil {
		log.Printf("[Extract] repair failed: %v (preview: %q)", err, preview(repaired, 80))
		return nil, newError("text not parseable after repair", raw)
	}
	return arr, nil
}

// tryParse accepts a JSON array verbatim and wraps a single object
// into a one-element array. Anything else is an error.
func tryParse(s string) ([]interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case []interface{}:
		return val, nil
	case map[string]interface{}:
		return []interface{}{val}, nil
	}
	return nil, fmt.Errorf("parsed value is neither array nor object")
}

// stripFences removes markdown code-block markers, both "```json"
// tagged and bare
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```"); idx >= 0 {
		start := idx + 3
		// Skip a short language tag like "json" on the fence line
		if nl := strings.Index(s[start:], "\n"); nl >= 0 && nl < 20 {
			start += nl + 1
		}
		if end := strings.Index(s[start:], "```"); end >= 0 {
			return s[start : start+end]
		}
		// Opening fence without a closing one (truncated output)
		return s[start:]
	}
	return s
}

// sliceCandidate cuts the text down to something array-shaped: the
// outermost [...] if bracket boundaries exist, otherwise top-level
// {...} objects wrapped (and comma-joined) inside [ ].
func sliceCandidate(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start >= 0 && end > start {
		return s[start : end+1], true
	}

	objs := splitObjects(s)
	if len(objs) == 0 {
		return "", false
	}
	return "[" + strings.Join(objs, ",") + "]", true
}

// splitObjects scans character-by-character tracking brace depth and
// returns each top-level {...} object as its own string. String
// literals and escapes are honored so braces inside values don't
// confuse the depth count.
func splitObjects(s string) []string {
	var objs []string
	depth := 0
	objStart := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			if depth == 0 {
				objStart = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && objStart >= 0 {
					objs = append(objs, s[objStart:i+1])
					objStart = -1
				}
			}
		}
	}
	return objs
}

func stripComments(s string) string {
	s = reBlockComment.ReplaceAllString(s, "")
	return reLineComment.ReplaceAllString(s, "")
}

func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

func quoteBareKeys(s string) string {
	return reBareKey.ReplaceAllString(s, `$1"$2":`)
}

func singleToDoubleQuotes(s string) string {
	s = reSingleQKey.ReplaceAllString(s, `$1"$2"$3`)
	return reSingleQValue.ReplaceAllString(s, `$1"$2"`)
}

func stripTrailingCommas(s string) string {
	return reTrailingComma.ReplaceAllString(s, "$1")
}

func normalizeWhitespace(s string) string {
	return reWhitespaceRun.ReplaceAllString(s, " ")
}

func newError(reason, raw string) *ExtractionError {
	return &ExtractionError{
		Reason: reason,
		RawLen: len(raw),
		Head:   preview(raw, 60),
		Tail:   tail(raw, 60),
	}
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return "..." + s[len(s)-n:]
	}
	return s
}
