package styleflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outfit-backend/internal/bodyshape"
	"outfit-backend/internal/outfits"
	"outfit-backend/internal/recommendation"
	"outfit-backend/internal/shared/metrics"
)

// Pacing used by interactive callers between visible stages.
const (
	DefaultAnalyzeDelay = 800 * time.Millisecond
	DefaultRevealDelay  = 500 * time.Millisecond
)

// ErrInvalidMeasurements is returned before any stage runs when input is unusable.
var ErrInvalidMeasurements = errors.New("invalid measurements")

// Provider turns a body shape and gender into a recommendation and images.
type Provider interface {
	Generate(ctx context.Context, clientID string, req outfits.Request) (outfits.Response, error)
}

// Flow runs classify, then the provider call, then reveal.
type Flow struct {
	Provider     Provider
	AnalyzeDelay time.Duration
	RevealDelay  time.Duration
}

// Result is what one successful run produced.
type Result struct {
	BodyShape      bodyshape.Shape  `json:"bodyShape"`
	Ratios         bodyshape.Ratios `json:"ratios"`
	Recommendation string           `json:"recommendation"`
	Images         []string         `json:"images"`
}

// Sections parses the recommendation text.
func (r Result) Sections() []recommendation.Section {
	return recommendation.ParseSections(r.Recommendation)
}

// Description explains the body shape.
func (r Result) Description() string {
	return bodyshape.Describe(r.BodyShape)
}

// Run executes one style-guide request. observe, if non-nil, sees every stage
// transition in order, ending with StageDone or StageFailed.
func (f *Flow) Run(ctx context.Context, clientID string, m bodyshape.Measurements, observe func(Stage)) (Result, error) {
	emit := func(s Stage) {
		if observe != nil {
			observe(s)
		}
	}
	fail := func(err error) (Result, error) {
		emit(StageFailed)
		return Result{}, err
	}

	if err := m.Validate(); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrInvalidMeasurements, err))
	}
	if f.Provider == nil {
		return fail(outfits.ErrNotConfigured)
	}

	emit(StageAnalyzing)
	if err := pause(ctx, f.AnalyzeDelay); err != nil {
		return fail(err)
	}
	shape := bodyshape.Classify(m)
	metrics.IncClassification(string(shape))

	emit(StageGeneratingText)
	resp, err := f.Provider.Generate(ctx, clientID, outfits.Request{
		BodyShape: string(shape),
		Gender:    string(m.Gender),
	})
	if err != nil {
		return fail(err)
	}

	emit(StageGeneratingImages)
	if err := pause(ctx, f.RevealDelay); err != nil {
		return fail(err)
	}

	images := resp.Images
	if images == nil {
		images = []string{}
	}
	emit(StageDone)
	return Result{
		BodyShape:      shape,
		Ratios:         bodyshape.ComputeRatios(m),
		Recommendation: resp.Recommendation,
		Images:         images,
	}, nil
}

// UserMessage maps a Run error to the notification shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, outfits.ErrRateLimited):
		return outfits.MessageRateLimited
	case errors.Is(err, outfits.ErrQuotaExhausted):
		return outfits.MessageQuotaExhausted
	case errors.Is(err, ErrInvalidMeasurements):
		return "Please enter positive values for every measurement."
	default:
		return "Something went wrong. Please try again."
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
