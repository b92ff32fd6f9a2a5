// Package pipeline orchestrates a GEO generation run: cache check, quota
// reservation, question collection, two-stage generation with ordered
// model fallback, and best-effort persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/RoyWG925/geo-dashboard-demo/internal/compliance"
	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
)

// Collector produces related-question strings for a keyword. An empty
// list is a valid outcome; errors mean the scraping service itself
// failed.
type Collector interface {
	Collect(ctx context.Context, keyword string) ([]string, error)
}

// TextGenerator is the uniform single-model surface the fallback loop
// drives.
type TextGenerator interface {
	Generate(ctx context.Context, modelName, prompt string) (string, error)
	GenerateStream(ctx context.Context, modelName, prompt string, onChunk func(string) error) (string, error)
}

// UsageStore gates runs against the per-user quota.
type UsageStore interface {
	GetOrCreate(ctx context.Context, userID int64, email string) (*models.UsageRecord, error)
	Reserve(ctx context.Context, userID int64) (*models.UsageRecord, bool, error)
}

// ResultStore persists and serves analysis rows.
type ResultStore interface {
	Insert(ctx context.Context, result *models.AnalysisResult) error
	FindLatest(ctx context.Context, keyword string) (*models.AnalysisResult, error)
}

// RefinementStore records manual edit audit rows.
type RefinementStore interface {
	Insert(ctx context.Context, ref *models.Refinement) error
}

// Settings carries the tunables the pipeline needs from config.
type Settings struct {
	ModelFallback      []string
	DefaultStreamModel string
	ContactEmail       string
	ScrapeTimeout      time.Duration
	GenerateTimeout    time.Duration
}

type Pipeline struct {
	usage       UsageStore
	results     ResultStore
	refinements RefinementStore
	collector   Collector
	generator   TextGenerator
	settings    Settings
}

func New(usage UsageStore, results ResultStore, refinements RefinementStore, collector Collector, generator TextGenerator, settings Settings) *Pipeline {
	return &Pipeline{
		usage:       usage,
		results:     results,
		refinements: refinements,
		collector:   collector,
		generator:   generator,
		settings:    settings,
	}
}

// Options tune one generation run.
type Options struct {
	Model             string `json:"model"`
	CustomInstruction string `json:"customInstruction"`
	ForceRefresh      bool   `json:"forceRefresh"`
}

// Result is what a successful run (fresh or cache-sourced) returns.
type Result struct {
	Keyword      string             `json:"keyword"`
	PAA          []string           `json:"paa"`
	Content      string             `json:"content"`
	DraftContent string             `json:"draftContent,omitempty"`
	UsedModel    string             `json:"usedModel,omitempty"`
	Cached       bool               `json:"cached"`
	Compliance   []compliance.Check `json:"compliance,omitempty"`
}

// useCache reports whether the run may be served from the keyword cache.
// A custom instruction changes the output, so it must never be answered
// from a cache keyed only on the keyword.
func (o Options) useCache() bool {
	return !o.ForceRefresh && o.CustomInstruction == ""
}

// Run executes the full pipeline for one keyword.
func (p *Pipeline) Run(ctx context.Context, userID int64, email, keyword string, opts Options) (*Result, error) {
	// 1. Cache check: a hit costs no quota and triggers no external call.
	if opts.useCache() {
		if cached, err := p.lookupCache(ctx, keyword); err != nil {
			log.Printf("⚠️ cache lookup failed for %q: %v", keyword, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	// 2. Quota check.
	if err := p.reserve(ctx, userID, email); err != nil {
		return nil, err
	}

	// 3. Collect related questions.
	paa, err := p.collect(ctx, keyword)
	if err != nil {
		return nil, &ExternalServiceError{Err: err}
	}

	// 4. Drafting, with ordered model fallback.
	draft, usedModel, err := p.tryModels(ctx, opts.Model, func(ctx context.Context, model string) (string, error) {
		return p.generator.Generate(ctx, model, draftPrompt(keyword, paa))
	})
	if err != nil {
		return nil, &GenerationFailedError{PAA: paa, Err: err}
	}

	// 5. Refining: same model that won drafting, retryable down the list.
	prompt := refinePrompt(keyword, draft, paa)
	if opts.CustomInstruction != "" {
		prompt = customPrompt(keyword, opts.CustomInstruction, paa)
	}
	content, usedModel, err := p.tryModels(ctx, usedModel, func(ctx context.Context, model string) (string, error) {
		return p.generator.Generate(ctx, model, prompt)
	})
	if err != nil {
		return nil, &GenerationFailedError{PAA: paa, Err: err}
	}

	// 6. Persist, best-effort: the caller still gets the content when the
	// write fails.
	p.persist(ctx, keyword, paa, content)

	return &Result{
		Keyword:      keyword,
		PAA:          paa,
		Content:      content,
		DraftContent: draft,
		UsedModel:    usedModel,
		Compliance:   compliance.Evaluate(content),
	}, nil
}

func (p *Pipeline) lookupCache(ctx context.Context, keyword string) (*Result, error) {
	row, err := p.results.FindLatest(ctx, keyword)
	if err != nil || row == nil {
		return nil, err
	}
	return &Result{
		Keyword:    keyword,
		PAA:        row.PAAQuestions,
		Content:    row.Content,
		Cached:     true,
		Compliance: compliance.Evaluate(row.Content),
	}, nil
}

func (p *Pipeline) reserve(ctx context.Context, userID int64, email string) error {
	if _, err := p.usage.GetOrCreate(ctx, userID, email); err != nil {
		return fmt.Errorf("load usage record: %w", err)
	}
	rec, ok, err := p.usage.Reserve(ctx, userID)
	if err != nil {
		return fmt.Errorf("reserve usage: %w", err)
	}
	if !ok {
		return &QuotaExceededError{
			UsageCount:   rec.UsageCount,
			MaxUsage:     rec.MaxUsage,
			ContactEmail: p.settings.ContactEmail,
		}
	}
	return nil
}

func (p *Pipeline) collect(ctx context.Context, keyword string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.settings.ScrapeTimeout)
	defer cancel()
	paa, err := p.collector.Collect(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if paa == nil {
		paa = []string{}
	}
	return paa, nil
}

// tryModels invokes fn against each candidate model in order until one
// succeeds. preferred (when set) is tried first; the configured fallback
// list follows. The winning model name is returned with the text.
func (p *Pipeline) tryModels(ctx context.Context, preferred string, fn func(ctx context.Context, model string) (string, error)) (string, string, error) {
	var lastErr error
	for _, model := range p.modelOrder(preferred) {
		callCtx, cancel := context.WithTimeout(ctx, p.settings.GenerateTimeout)
		text, err := fn(callCtx, model)
		cancel()
		if err == nil {
			return text, model, nil
		}
		lastErr = err
		log.Printf("⚠️ model %s failed: %v", model, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", "", lastErr
}

func (p *Pipeline) modelOrder(preferred string) []string {
	if preferred == "" {
		return p.settings.ModelFallback
	}
	order := []string{preferred}
	for _, model := range p.settings.ModelFallback {
		if model != preferred {
			order = append(order, model)
		}
	}
	return order
}

func (p *Pipeline) persist(ctx context.Context, keyword string, paa []string, content string) {
	row := &models.AnalysisResult{Keyword: keyword, PAAQuestions: paa, Content: content}
	if err := p.results.Insert(ctx, row); err != nil {
		log.Printf("⚠️ failed to persist analysis for %q: %v", keyword, err)
	}
}

// RefineInput is a manual edit request against previously generated
// content.
type RefineInput struct {
	Keyword          string
	OriginalContent  string
	RefinementPrompt string
}

// RefineOutput carries the rewritten content and the model that
// produced it.
type RefineOutput struct {
	RefinedContent string `json:"refinedContent"`
	UsedModel      string `json:"usedModel"`
}

// Refine reserves quota, rewrites the content per the user's
// instruction with the usual fallback policy, and records an audit row.
func (p *Pipeline) Refine(ctx context.Context, userID int64, email string, in RefineInput) (*RefineOutput, error) {
	if err := p.reserve(ctx, userID, email); err != nil {
		return nil, err
	}

	refined, usedModel, err := p.tryModels(ctx, "", func(ctx context.Context, model string) (string, error) {
		return p.generator.Generate(ctx, model, refinementPrompt(in.OriginalContent, in.RefinementPrompt))
	})
	if err != nil {
		return nil, &GenerationFailedError{Err: err}
	}

	keyword := in.Keyword
	if keyword == "" {
		keyword = "Unknown"
	}
	audit := &models.Refinement{
		UserID:           userID,
		Keyword:          keyword,
		OriginalContent:  in.OriginalContent,
		RefinementPrompt: in.RefinementPrompt,
		RefinedContent:   refined,
		ModelUsed:        usedModel,
	}
	if err := p.refinements.Insert(ctx, audit); err != nil {
		log.Printf("⚠️ failed to save refinement audit: %v", err)
	}

	return &RefineOutput{RefinedContent: refined, UsedModel: usedModel}, nil
}

// IsQuotaExceeded is a convenience for handlers classifying errors.
func IsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
