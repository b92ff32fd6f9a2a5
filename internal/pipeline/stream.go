package pipeline

import (
	"context"
	"log"

	"github.com/RoyWG925/geo-dashboard-demo/internal/compliance"
)

// StreamRun is a prepared streaming generation: cache already missed,
// quota already reserved, questions already collected. The collected
// questions are available before the body streams so the caller can ship
// them out-of-band (a response header), since the text stream has no
// channel for structured metadata.
type StreamRun struct {
	pipeline *Pipeline
	keyword  string
	paa      []string
	prompt   string
	model    string
}

// PAA returns the questions collected before streaming begins.
func (r *StreamRun) PAA() []string { return r.paa }

// PrepareStream performs the pre-stream stages. When the cache answers,
// the cached Result is returned and no StreamRun is created.
func (p *Pipeline) PrepareStream(ctx context.Context, userID int64, email, keyword string, opts Options) (*StreamRun, *Result, error) {
	if opts.useCache() {
		if cached, err := p.lookupCache(ctx, keyword); err != nil {
			log.Printf("⚠️ cache lookup failed for %q: %v", keyword, err)
		} else if cached != nil {
			return nil, cached, nil
		}
	}

	if err := p.reserve(ctx, userID, email); err != nil {
		return nil, nil, err
	}

	paa, err := p.collect(ctx, keyword)
	if err != nil {
		return nil, nil, &ExternalServiceError{Err: err}
	}

	prompt := streamPrompt(keyword, paa)
	if opts.CustomInstruction != "" {
		prompt = customPrompt(keyword, opts.CustomInstruction, paa)
	}

	model := opts.Model
	if model == "" {
		model = p.settings.DefaultStreamModel
	}

	return &StreamRun{pipeline: p, keyword: keyword, paa: paa, prompt: prompt, model: model}, nil, nil
}

// Stream produces the content incrementally via onChunk and persists the
// full text once the stream completes. Fallback models are only tried
// while nothing has been emitted yet: once bytes are on the wire the
// stream cannot be restarted with another model.
func (r *StreamRun) Stream(ctx context.Context, onChunk func(string) error) (*Result, error) {
	p := r.pipeline

	emitted := false
	wrapped := func(chunk string) error {
		emitted = true
		if onChunk != nil {
			return onChunk(chunk)
		}
		return nil
	}

	var content, usedModel string
	var lastErr error
	for _, model := range p.modelOrder(r.model) {
		callCtx, cancel := context.WithTimeout(ctx, p.settings.GenerateTimeout)
		text, err := p.generator.GenerateStream(callCtx, model, r.prompt, wrapped)
		cancel()
		if err == nil {
			content, usedModel = text, model
			break
		}
		lastErr = err
		log.Printf("⚠️ model %s failed: %v", model, err)
		if emitted || ctx.Err() != nil {
			break
		}
	}
	if content == "" {
		return nil, &GenerationFailedError{PAA: r.paa, Err: lastErr}
	}

	p.persist(ctx, r.keyword, r.paa, content)

	return &Result{
		Keyword:    r.keyword,
		PAA:        r.paa,
		Content:    content,
		UsedModel:  usedModel,
		Compliance: compliance.Evaluate(content),
	}, nil
}
