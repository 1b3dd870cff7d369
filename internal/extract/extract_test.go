package extract

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestArray_CleanJSON(t *testing.T) {
	arr, err := Array(`[{"question": "Tell me about yourself", "answer": "I am...", "tips": ["a", "b", "c"]}]`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 1 {
		t.Fatalf("expected 1 item, got %d", len(arr))
	}
	obj, ok := arr[0].(map[string]interface{})
	if !ok {
		t.Fatalf("expected object item, got %T", arr[0])
	}
	if obj["question"] != "Tell me about yourself" {
		t.Errorf("unexpected question: %v", obj["question"])
	}
}

func TestArray_SingleObjectWrapped(t *testing.T) {
	arr, err := Array(`{"question": "Why us?", "answer": "Because...", "tips": []}`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 1 {
		t.Fatalf("expected lone object wrapped into 1-element array, got %d items", len(arr))
	}
}

func TestArray_MarkdownFences(t *testing.T) {
	clean := `[{"question": "Q", "answer": "A", "tips": ["t"]}]`
	cases := []struct {
		name string
		raw  string
	}{
		{"json tagged", "```json\n" + clean + "\n```"},
		{"bare fence", "```\n" + clean + "\n```"},
		{"unterminated fence", "```json\n" + clean},
		{"fence with preamble", "Sure, here you go:\n```json\n" + clean + "\n```"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			arr, err := Array(tc.raw)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if len(arr) != 1 {
				t.Errorf("expected 1 item, got %d", len(arr))
			}
		})
	}
}

// Scenario from the original function: prose preamble, fenced block,
// bare keys and single-quoted values all at once.
func TestArray_ProseFenceAndPseudoJSON(t *testing.T) {
	raw := "Here is the list:\n```json\n[{question:'Tell me about yourself', answer:'Start with your background.', tips:['a','b','c']}]\n```"

	arr, err := Array(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 1 {
		t.Fatalf("expected 1 item, got %d", len(arr))
	}
	obj := arr[0].(map[string]interface{})
	if obj["question"] != "Tell me about yourself" {
		t.Errorf("unexpected question: %v", obj["question"])
	}
	tips, ok := obj["tips"].([]interface{})
	if !ok || len(tips) != 3 {
		t.Errorf("expected 3 tips, got %v", obj["tips"])
	}
}

func TestArray_TrailingCommas(t *testing.T) {
	arr, err := Array(`[{"question": "Q", "answer": "A",}, {"question": "Q2", "answer": "A2"},]`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 2 {
		t.Errorf("expected 2 items, got %d", len(arr))
	}
}

func TestArray_ConcatenatedObjects(t *testing.T) {
	raw := `{"question": "Q1", "answer": "A1"}` + "\n" + `{"question": "Q2", "answer": "A2"}`

	arr, err := Array(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 items from concatenated objects, got %d", len(arr))
	}
	second := arr[1].(map[string]interface{})
	if second["question"] != "Q2" {
		t.Errorf("order not preserved: %v", second["question"])
	}
}

func TestArray_BracesInsideStrings(t *testing.T) {
	raw := `{"question": "What does {} mean in Go?", "answer": "An empty block"}` +
		`{"question": "Q2", "answer": "A2"}`

	arr, err := Array(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 items, got %d", len(arr))
	}
}

func TestArray_PreambleAndTrailingProse(t *testing.T) {
	raw := `Of course! [{"question": "Q", "answer": "A"}] Hope this helps.`

	arr, err := Array(raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 1 {
		t.Errorf("expected 1 item, got %d", len(arr))
	}
}

func TestArray_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"no brackets at all", "I could not generate any questions, sorry."},
		{"hopelessly malformed", `[{"question": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Array(tc.raw)
			if err == nil {
				t.Fatal("expected extraction error")
			}
			var ee *ExtractionError
			if !errors.As(err, &ee) {
				t.Fatalf("expected *ExtractionError, got %T", err)
			}
			if ee.RawLen != len(tc.raw) {
				t.Errorf("RawLen = %d, want %d", ee.RawLen, len(tc.raw))
			}
		})
	}
}

// Round-trip property: records serialized with single quotes, bare keys
// and trailing commas come back semantically identical.
func TestArray_RoundTripDirtySerialization(t *testing.T) {
	dirty := `[
		{question:'Q one', answer:'A one', tips:['t1','t2','t3'],},
		{question:'Q two', answer:'A two', tips:['u1','u2','u3'],},
	]`

	arr, err := Array(dirty)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(arr) != 2 {
		t.Fatalf("expected 2 items, got %d", len(arr))
	}
	for i, want := range []string{"Q one", "Q two"} {
		obj := arr[i].(map[string]interface{})
		if obj["question"] != want {
			t.Errorf("item %d question = %v, want %q", i, obj["question"], want)
		}
		if tips := obj["tips"].([]interface{}); len(tips) != 3 {
			t.Errorf("item %d expected 3 tips, got %d", i, len(tips))
		}
	}
}

// Idempotence: extracting from already-clean JSON twice matches one pass.
func TestArray_Idempotent(t *testing.T) {
	clean := `[{"question": "Q", "answer": "A", "tips": ["a", "b"]}]`

	first, err := Array(clean)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	reserialized, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := Array(string(reserialized))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass diverged:\nfirst:  %#v\nsecond: %#v", first, second)
	}
}

func TestRepairTransforms(t *testing.T) {
	cases := []struct {
		transform string
		in        string
		want      string
	}{
		{"strip_comments", "[/* note */{\"a\": 1}]", "[{\"a\": 1}]"},
		{"collapse_newlines", "{\"a\":\n1}", "{\"a\": 1}"},
		{"quote_bare_keys", `{question: "Q", answer: "A"}`, `{"question": "Q", "answer": "A"}`},
		{"single_to_double_quotes", `{'q': 'v'}`, `{"q": "v"}`},
		{"strip_trailing_commas", `[{"a": 1,},]`, `[{"a": 1}]`},
		{"normalize_whitespace", `{"a":   1}`, `{"a": 1}`},
	}

	byName := make(map[string]Transform)
	for _, tr := range Repairs {
		byName[tr.Name] = tr
	}

	for _, tc := range cases {
		t.Run(tc.transform, func(t *testing.T) {
			tr, ok := byName[tc.transform]
			if !ok {
				t.Fatalf("transform %q not registered", tc.transform)
			}
			got := tr.Apply(tc.in)
			if got != tc.want {
				t.Errorf("Apply(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRepair_FullPipelineParses(t *testing.T) {
	dirty := `[{id: 1, question:'What are your strengths?', answer:'I focus on...', tips:['short','specific','honest'],}]`

	repaired := Repair(dirty)
	if !json.Valid([]byte(repaired)) {
		t.Fatalf("repaired text is not valid JSON: %s", repaired)
	}
	if strings.Contains(repaired, "'") {
		t.Errorf("single quotes survived repair: %s", repaired)
	}
}
