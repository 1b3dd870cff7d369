package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"talentprep/internal/cache"
	"talentprep/internal/config"
	"talentprep/internal/extract"
	"talentprep/internal/model"
	"talentprep/internal/question"
	"talentprep/internal/repository"
)

var (
	ErrMissingTalentID = errors.New("talentId is required")
	ErrInvalidCategory = errors.New("invalid category")
	ErrTalentNotFound  = errors.New("talent not found")
	ErrBudgetExceeded  = errors.New("insufficient time budget to attempt generation")

	errAttemptTimeout = errors.New("model call timed out")
	errEmptyResponse  = errors.New("model returned empty response")
)

// GenerationError reports exhausted attempts. RateLimited and TimedOut
// tag the dominant failure cause for status-code mapping.
type GenerationError struct {
	Attempts    int
	RateLimited bool
	TimedOut    bool
	LastErr     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *GenerationError) Unwrap() error { return e.LastErr }

// Scheduler maps a 1-based attempt number to the delay before the next
// attempt. Tests substitute a zero-delay scheduler.
type Scheduler func(attempt int) time.Duration

// DefaultScheduler returns exponential backoff with bounded jitter:
// base * 2^(attempt-1) + random in [0, jitterMax).
func DefaultScheduler(base, jitterMax time.Duration) Scheduler {
	return func(attempt int) time.Duration {
		backoff := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
		if jitterMax > 0 {
			backoff += time.Duration(rand.Int63n(int64(jitterMax)))
		}
		return backoff
	}
}

// GeneratorService orchestrates the full pipeline: lookups, prompt,
// bounded model attempts, extraction, validation, and the fallback
// policy. One instance serves all requests; all state is per-call.
type GeneratorService struct {
	talents   repository.TalentRepo
	paths     repository.CareerPathRepo
	cache     cache.QuestionCache
	model     ModelClient
	validator *question.Validator
	fallback  *question.FallbackProvider
	cfg       *config.AIConfig
	delay     Scheduler
}

// NewGeneratorService wires the orchestrator. The cache may be nil.
func NewGeneratorService(talents repository.TalentRepo, paths repository.CareerPathRepo, qcache cache.QuestionCache, modelClient ModelClient, cfg *config.AIConfig) *GeneratorService {
	fallback := question.NewFallbackProvider()
	return &GeneratorService{
		talents: talents,
		paths:   paths,
		cache:   qcache,
		model:   modelClient,
		validator: question.NewValidator(question.Config{
			TargetCount: cfg.TargetCount,
			RequireTips: cfg.RequireTips,
			MaxTips:     cfg.MaxTips,
			TipMaxWords: cfg.TipMaxWords,
		}, fallback),
		fallback: fallback,
		cfg:      cfg,
		delay:    DefaultScheduler(time.Duration(cfg.BackoffBaseMS)*time.Millisecond, time.Duration(cfg.JitterMaxMS)*time.Millisecond),
	}
}

// SetScheduler replaces the backoff scheduler (used by tests)
func (s *GeneratorService) SetScheduler(d Scheduler) {
	s.delay = d
}

// GenerateQuestions runs one full generation request.
func (s *GeneratorService) GenerateQuestions(ctx context.Context, req *model.GenerateRequest) (*model.QuestionSetResponse, error) {
	started := time.Now()

	if strings.TrimSpace(req.TalentID) == "" {
		return nil, ErrMissingTalentID
	}
	if !model.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}

	talent, err := s.talents.GetByID(ctx, req.TalentID)
	if err != nil {
		return nil, fmt.Errorf("talent lookup: %w", err)
	}
	if talent == nil {
		return nil, ErrTalentNotFound
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req.TalentID, req.Category); err == nil && cached != nil {
			log.Printf("[Generator] cache hit for talent %s category %q", req.TalentID, req.Category)
			return cached, nil
		}
	}

	pathMeta, field := s.resolveField(ctx, talent)

	// Fail fast when lookups already ate too much of the wall budget;
	// better a clean 408 than the platform killing us mid-generation.
	budget := time.Duration(s.cfg.BudgetMS) * time.Millisecond
	if elapsed := time.Since(started); elapsed > budget*time.Duration(s.cfg.BudgetGuardPct)/100 {
		log.Printf("[Generator] budget guard tripped: %s elapsed of %s budget", elapsed, budget)
		return nil, ErrBudgetExceeded
	}

	prompt := buildQuestionPrompt(talent, field, req.Category, s.cfg.TargetCount)

	records, usedFallback, genErr := s.generateWithRetries(ctx, prompt, req.Category, talent, field)
	if genErr != nil {
		return nil, genErr
	}

	resp := &model.QuestionSetResponse{
		Success:      true,
		Questions:    records,
		RequestID:    uuid.New().String(),
		TalentID:     talent.ID,
		TalentName:   talent.Name,
		CareerStage:  talent.CareerStage,
		CareerPath:   pathMeta,
		Category:     req.Category,
		GeneratedAt:  time.Now().UTC(),
		ElapsedMS:    time.Since(started).Milliseconds(),
		UsedFallback: usedFallback,
	}

	// Fallback-backed sets are not cached; the next request should get
	// another shot at real generation.
	if s.cache != nil && !usedFallback {
		if err := s.cache.Set(ctx, req.TalentID, req.Category, resp); err != nil {
			log.Printf("[Generator] cache store failed: %v", err)
		}
	}

	return resp, nil
}

// resolveField resolves the talent's selected career path. Lookup
// failures are absorbed: generation proceeds with a generic field.
func (s *GeneratorService) resolveField(ctx context.Context, talent *model.Talent) (*model.CareerPathMeta, string) {
	if talent.SelectedPathID == "" {
		return nil, ""
	}

	path, err := s.paths.GetByID(ctx, talent.SelectedPathID)
	if err != nil {
		log.Printf("[Generator] career path lookup failed for %s: %v", talent.SelectedPathID, err)
		return nil, ""
	}
	if path == nil {
		log.Printf("[Generator] career path %s not found, using generic field", talent.SelectedPathID)
		return nil, ""
	}

	return &model.CareerPathMeta{ID: path.ID, Title: path.Title}, path.Title
}

// generateWithRetries drives the attempt state machine. On exhaustion
// it either serves the fallback set (default policy) or returns a
// *GenerationError, depending on configuration.
func (s *GeneratorService) generateWithRetries(ctx context.Context, prompt string, category model.Category, talent *model.Talent, field string) ([]model.QuestionRecord, bool, error) {
	var lastErr error
	rateLimited := false
	timedOut := false

	for n := 1; n <= s.cfg.MaxAttempts; n++ {
		att := model.GenerationAttempt{Number: n}
		start := time.Now()
		raw, err := s.callWithTimeout(ctx, prompt)
		att.Elapsed = time.Since(start)
		att.RawLen = len(raw)

		switch {
		case err != nil:
			if errors.Is(err, errAttemptTimeout) {
				att.Outcome = model.OutcomeTimeout
				timedOut = true
			} else {
				att.Outcome = model.OutcomeModelError
				if IsRateLimitError(err) {
					rateLimited = true
				}
			}
			lastErr = err

		case strings.TrimSpace(raw) == "":
			// Empty output never reaches the extractor.
			att.Outcome = model.OutcomeEmpty
			lastErr = errEmptyResponse

		default:
			items, xerr := extract.Array(raw)
			if xerr != nil {
				att.Outcome = model.OutcomeParseFailure
				lastErr = xerr
				break
			}
			records, verr := s.validator.Validate(items, category, talent, field)
			if verr != nil {
				att.Outcome = model.OutcomeParseFailure
				lastErr = verr
				break
			}
			log.Printf("[Generator] attempt %d/%d succeeded in %s (%d bytes raw, %d records)",
				n, s.cfg.MaxAttempts, att.Elapsed, att.RawLen, len(records))
			return records, false, nil
		}

		log.Printf("[Generator] attempt %d/%d failed (%s) after %s: %v",
			att.Number, s.cfg.MaxAttempts, att.Outcome, att.Elapsed, lastErr)

		if n < s.cfg.MaxAttempts {
			wait := s.delay(n)
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				n = s.cfg.MaxAttempts // stop retrying
			case <-time.After(wait):
			}
		}
	}

	genErr := &GenerationError{
		Attempts:    s.cfg.MaxAttempts,
		RateLimited: rateLimited,
		TimedOut:    timedOut,
		LastErr:     lastErr,
	}

	if s.cfg.FallbackOnExhaustion {
		log.Printf("[Generator] attempts exhausted, serving fallback set: %v", genErr)
		// An empty item list makes the validator pad entirely from the
		// fallback provider, honoring the target count invariant.
		records, err := s.validator.Validate(nil, category, talent, field)
		if err != nil {
			return nil, false, genErr
		}
		return records, true, nil
	}

	return nil, false, genErr
}

// callWithTimeout races one model call against the per-attempt timer.
// The losing call is abandoned, not cancelled; it may keep consuming
// upstream quota until the platform's own timeout reaps it.
func (s *GeneratorService) callWithTimeout(ctx context.Context, prompt string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		text, err := s.model.GenerateContent(ctx, prompt)
		ch <- result{text, err}
	}()

	timeout := time.Duration(s.cfg.TimeoutMS) * time.Millisecond
	select {
	case r := <-ch:
		return r.text, r.err
	case <-time.After(timeout):
		return "", errAttemptTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
