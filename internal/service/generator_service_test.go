package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"talentprep/internal/config"
	"talentprep/internal/model"
)

type fakeTalents struct {
	talent *model.Talent
	err    error
	calls  int
}

func (f *fakeTalents) GetByID(ctx context.Context, id string) (*model.Talent, error) {
	f.calls++
	return f.talent, f.err
}

type fakePaths struct {
	path *model.CareerPath
	err  error
}

func (f *fakePaths) GetByID(ctx context.Context, id string) (*model.CareerPath, error) {
	return f.path, f.err
}

// fakeModel replays a scripted sequence of responses; the last entry
// repeats once the script runs out.
type fakeModel struct {
	mu      sync.Mutex
	texts   []string
	errs    []error
	block   time.Duration
	calls   int
}

func (f *fakeModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	if f.block > 0 {
		time.Sleep(f.block)
	}
	if i >= len(f.texts) {
		i = len(f.texts) - 1
	}
	return f.texts[i], f.errs[i]
}

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	entries map[string]*model.QuestionSetResponse
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.QuestionSetResponse)}
}

func (c *fakeCache) Set(ctx context.Context, talentID string, category model.Category, resp *model.QuestionSetResponse) error {
	c.entries[talentID+":"+string(category)] = resp
	return nil
}

func (c *fakeCache) Get(ctx context.Context, talentID string, category model.Category) (*model.QuestionSetResponse, error) {
	return c.entries[talentID+":"+string(category)], nil
}

func (c *fakeCache) Delete(ctx context.Context, talentID string, category model.Category) error {
	delete(c.entries, talentID+":"+string(category))
	return nil
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		TimeoutMS:            100,
		MaxAttempts:          3,
		BackoffBaseMS:        1,
		JitterMaxMS:          0,
		BudgetMS:             60000,
		BudgetGuardPct:       30,
		TargetCount:          5,
		RequireTips:          true,
		MaxTips:              3,
		TipMaxWords:          25,
		FallbackOnExhaustion: true,
	}
}

func testTalent() *model.Talent {
	return &model.Talent{
		ID:             "talent-1",
		Name:           "Amara",
		CareerStage:    model.StageTrailblazer,
		SelectedPathID: "path-1",
		Skills:         []string{"Go", "SQL"},
	}
}

func questionsJSON(n int) string {
	items := make([]model.QuestionRecord, n)
	for i := range items {
		items[i] = model.QuestionRecord{
			Question: fmt.Sprintf("Question %d?", i+1),
			Answer:   fmt.Sprintf("Answer %d.", i+1),
			Tips:     []string{"a", "b", "c"},
		}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func newTestService(m ModelClient, cfg *config.AIConfig) *GeneratorService {
	s := NewGeneratorService(
		&fakeTalents{talent: testTalent()},
		&fakePaths{path: &model.CareerPath{ID: "path-1", Title: "Software Engineering"}},
		nil,
		m,
		cfg,
	)
	s.SetScheduler(func(int) time.Duration { return 0 })
	return s
}

func TestGenerateQuestions_Success(t *testing.T) {
	m := &fakeModel{texts: []string{questionsJSON(5)}, errs: []error{nil}}
	s := newTestService(m, testAIConfig())

	resp, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !resp.Success || resp.UsedFallback {
		t.Errorf("expected success without fallback, got success=%t usedFallback=%t", resp.Success, resp.UsedFallback)
	}
	if len(resp.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(resp.Questions))
	}
	for i, q := range resp.Questions {
		if q.ID != i+1 {
			t.Errorf("question %d has id %d", i, q.ID)
		}
	}
	if resp.TalentName != "Amara" || resp.CareerStage != model.StageTrailblazer {
		t.Errorf("talent metadata missing: %+v", resp)
	}
	if resp.CareerPath == nil || resp.CareerPath.Title != "Software Engineering" {
		t.Errorf("career path metadata missing: %+v", resp.CareerPath)
	}
	if m.callCount() != 1 {
		t.Errorf("expected 1 model call, got %d", m.callCount())
	}
}

// Empty model output is an attempt failure, not an extractor call.
func TestGenerateQuestions_RetriesOnEmptyResponse(t *testing.T) {
	m := &fakeModel{
		texts: []string{"   \n", questionsJSON(5)},
		errs:  []error{nil, nil},
	}
	s := newTestService(m, testAIConfig())

	resp, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.UsedFallback {
		t.Error("second attempt succeeded, fallback should not be used")
	}
	if m.callCount() != 2 {
		t.Errorf("expected 2 model calls, got %d", m.callCount())
	}
}

func TestGenerateQuestions_RetriesOnMalformedOutput(t *testing.T) {
	m := &fakeModel{
		texts: []string{"I'm sorry, I can't help with that.", questionsJSON(5)},
		errs:  []error{nil, nil},
	}
	s := newTestService(m, testAIConfig())

	resp, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.UsedFallback || m.callCount() != 2 {
		t.Errorf("expected recovery on attempt 2, got usedFallback=%t calls=%d", resp.UsedFallback, m.callCount())
	}
}

// All attempts time out -> fallback-backed success per the default policy.
func TestGenerateQuestions_FallbackAfterTimeouts(t *testing.T) {
	cfg := testAIConfig()
	cfg.TimeoutMS = 10
	m := &fakeModel{
		texts: []string{questionsJSON(5)},
		errs:  []error{nil},
		block: 200 * time.Millisecond,
	}
	s := newTestService(m, cfg)

	resp, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if err != nil {
		t.Fatalf("expected fallback response, got error: %v", err)
	}
	if !resp.Success || !resp.UsedFallback {
		t.Errorf("expected success=true usedFallback=true, got %t/%t", resp.Success, resp.UsedFallback)
	}
	if len(resp.Questions) != cfg.TargetCount {
		t.Errorf("fallback response has %d questions, want %d", len(resp.Questions), cfg.TargetCount)
	}
	if m.callCount() != cfg.MaxAttempts {
		t.Errorf("expected %d attempts, got %d", cfg.MaxAttempts, m.callCount())
	}
}

func TestGenerateQuestions_PropagatesWhenFallbackDisabled(t *testing.T) {
	cfg := testAIConfig()
	cfg.FallbackOnExhaustion = false
	m := &fakeModel{
		texts: []string{""},
		errs:  []error{errors.New("gemini API error 429: quota exceeded")},
	}
	s := newTestService(m, cfg)

	_, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if err == nil {
		t.Fatal("expected generation error")
	}
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %T: %v", err, err)
	}
	if !ge.RateLimited {
		t.Error("429/quota error should be classified as rate limited")
	}
	if ge.Attempts != cfg.MaxAttempts {
		t.Errorf("attempts = %d, want %d", ge.Attempts, cfg.MaxAttempts)
	}
}

// Talent miss returns before any model call is made.
func TestGenerateQuestions_TalentNotFound(t *testing.T) {
	m := &fakeModel{texts: []string{questionsJSON(5)}, errs: []error{nil}}
	s := NewGeneratorService(&fakeTalents{talent: nil}, &fakePaths{}, nil, m, testAIConfig())
	s.SetScheduler(func(int) time.Duration { return 0 })

	_, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "missing"})
	if !errors.Is(err, ErrTalentNotFound) {
		t.Fatalf("expected ErrTalentNotFound, got: %v", err)
	}
	if m.callCount() != 0 {
		t.Errorf("model should never be called on a lookup miss, got %d calls", m.callCount())
	}
}

func TestGenerateQuestions_InputErrors(t *testing.T) {
	m := &fakeModel{texts: []string{questionsJSON(5)}, errs: []error{nil}}
	s := newTestService(m, testAIConfig())

	if _, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "  "}); !errors.Is(err, ErrMissingTalentID) {
		t.Errorf("expected ErrMissingTalentID, got: %v", err)
	}
	if _, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1", Category: "astrology"}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got: %v", err)
	}
	if m.callCount() != 0 {
		t.Errorf("input errors must not reach the model, got %d calls", m.callCount())
	}
}

// A broken career-path lookup degrades to a generic prompt, never fails
// the request.
func TestGenerateQuestions_PathLookupFailureAbsorbed(t *testing.T) {
	m := &fakeModel{texts: []string{questionsJSON(5)}, errs: []error{nil}}
	s := NewGeneratorService(
		&fakeTalents{talent: testTalent()},
		&fakePaths{err: errors.New("mongo: connection reset")},
		nil,
		m,
		testAIConfig(),
	)
	s.SetScheduler(func(int) time.Duration { return 0 })

	resp, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if resp.CareerPath != nil {
		t.Errorf("career path should be null after lookup failure, got %+v", resp.CareerPath)
	}
}

func TestGenerateQuestions_CacheHitSkipsModel(t *testing.T) {
	m := &fakeModel{texts: []string{questionsJSON(5)}, errs: []error{nil}}
	c := newFakeCache()
	s := NewGeneratorService(
		&fakeTalents{talent: testTalent()},
		&fakePaths{path: &model.CareerPath{ID: "path-1", Title: "Software Engineering"}},
		c,
		m,
		testAIConfig(),
	)
	s.SetScheduler(func(int) time.Duration { return 0 })

	req := &model.GenerateRequest{TalentID: "talent-1", Category: model.CategoryTechnical}
	first, err := s.GenerateQuestions(context.Background(), req)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := s.GenerateQuestions(context.Background(), req)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if m.callCount() != 1 {
		t.Errorf("expected cached second response, got %d model calls", m.callCount())
	}
	if second.RequestID != first.RequestID {
		t.Errorf("cached response should be returned verbatim")
	}
}

// A zero-percent guard trips as soon as any time at all has been spent
// before generation, and the model is never called.
func TestGenerateQuestions_BudgetGuard(t *testing.T) {
	cfg := testAIConfig()
	cfg.BudgetGuardPct = 0
	m := &fakeModel{texts: []string{questionsJSON(5)}, errs: []error{nil}}
	s := newTestService(m, cfg)

	_, err := s.GenerateQuestions(context.Background(), &model.GenerateRequest{TalentID: "talent-1"})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got: %v", err)
	}
	if m.callCount() != 0 {
		t.Errorf("budget guard must fire before the first model call, got %d calls", m.callCount())
	}
}

// Backoff property: the deterministic base component never decreases.
func TestDefaultScheduler_Monotonic(t *testing.T) {
	sched := DefaultScheduler(100*time.Millisecond, 0)

	prev := time.Duration(0)
	for attempt := 1; attempt <= 5; attempt++ {
		d := sched(attempt)
		if d < prev {
			t.Fatalf("delay decreased at attempt %d: %s < %s", attempt, d, prev)
		}
		prev = d
	}
	if sched(1) != 100*time.Millisecond {
		t.Errorf("attempt 1 delay = %s, want 100ms", sched(1))
	}
	if sched(3) != 400*time.Millisecond {
		t.Errorf("attempt 3 delay = %s, want 400ms", sched(3))
	}
}

func TestDefaultScheduler_JitterBounded(t *testing.T) {
	base := 50 * time.Millisecond
	jitter := 20 * time.Millisecond
	sched := DefaultScheduler(base, jitter)

	for i := 0; i < 50; i++ {
		d := sched(1)
		if d < base || d >= base+jitter {
			t.Fatalf("jittered delay %s outside [%s, %s)", d, base, base+jitter)
		}
	}
}

func TestIsRateLimitError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("gemini API error 429: slow down"), true},
		{errors.New("RESOURCE_EXHAUSTED: quota exceeded for model"), true},
		{errors.New("Too Many Requests"), true},
		{errors.New("connection refused"), false},
		{errors.New("gemini API error 500: internal"), false},
	}
	for _, tc := range cases {
		if got := IsRateLimitError(tc.err); got != tc.want {
			t.Errorf("IsRateLimitError(%v) = %t, want %t", tc.err, got, tc.want)
		}
	}
}
