package outfits

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"outfit-backend/internal/bodyshape"
	"outfit-backend/internal/llm"
	"outfit-backend/internal/shared/metrics"
	"outfit-backend/internal/shared/storage/object"
	"outfit-backend/internal/shared/telemetry"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service generates styling recommendations and outfit images through the AI gateway.
type Service struct {
	LLM llm.Client
	// Store persists data: image URLs; nil returns gateway URLs unchanged.
	Store object.ImageStore
	// Repo records every generation; nil disables the ledger.
	Repo Repo
	// ImageAttempts is how many looks to render, 1 to 3. Other values mean 3.
	ImageAttempts int
	Now           func() time.Time
}

// Generate returns a recommendation and whatever subset of outfit images succeeded.
// Image failures never fail the call.
func (s *Service) Generate(ctx context.Context, clientID string, req Request) (Response, error) {
	shape, gender, err := normalizeRequest(req)
	if err != nil {
		return Response{}, err
	}
	if s.LLM == nil {
		return Response{}, ErrNotConfigured
	}

	start := s.now()
	rec := Record{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		BodyShape: string(shape),
		Gender:    string(gender),
		CreatedAt: start.UTC(),
	}
	telemetry.Info("outfits.generate.start", map[string]any{
		"generation_id": rec.ID,
		"client_id":     clientID,
		"body_shape":    rec.BodyShape,
		"gender":        rec.Gender,
	})

	text, err := s.LLM.GenerateText(ctx, llm.SystemPrompt(), llm.RecommendationPrompt(rec.Gender, rec.BodyShape))
	if err != nil {
		mapped := mapGatewayError(err)
		rec.Outcome = outcomeFor(mapped)
		rec.ErrorMessage = err.Error()
		s.finish(ctx, rec, start)
		return Response{}, mapped
	}

	images := s.generateImages(ctx, rec.ID, clientID, rec.Gender, rec.BodyShape)

	rec.Outcome = metrics.OutcomeSuccess
	rec.Recommendation = text
	rec.ImageCount = len(images)
	rec.Images = ledgerURLs(images)
	s.finish(ctx, rec, start)

	return Response{Recommendation: text, Images: images}, nil
}

// List returns recent generation records.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if s.Repo == nil {
		return []Record{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *Service) generateImages(ctx context.Context, generationID, clientID, gender, shape string) []string {
	prompts := llm.ImagePrompts(gender, shape)
	if n := s.ImageAttempts; n > 0 && n < len(prompts) {
		prompts = prompts[:n]
	}

	slots := make([]string, len(prompts))
	var g errgroup.Group
	for i, prompt := range prompts {
		g.Go(func() error {
			fields := map[string]any{"generation_id": generationID, "look": llm.ImageLooks[i]}

			imageURL, err := s.LLM.GenerateImage(ctx, prompt)
			if err != nil {
				fields["error"] = err.Error()
				telemetry.Warn("outfits.image.failed", fields)
				metrics.IncImage(metrics.ImageFailed)
				return nil
			}
			if imageURL == "" {
				telemetry.Warn("outfits.image.empty", fields)
				metrics.IncImage(metrics.ImageEmpty)
				return nil
			}

			stored, err := s.persist(ctx, clientID, llm.ImageLooks[i], imageURL)
			if err != nil {
				fields["error"] = err.Error()
				telemetry.Warn("outfits.image.store_failed", fields)
				metrics.IncImage(metrics.ImageFailed)
				return nil
			}
			slots[i] = stored
			metrics.IncImage(metrics.ImageOK)
			return nil
		})
	}
	_ = g.Wait()

	images := make([]string, 0, len(slots))
	for _, u := range slots {
		if u != "" {
			images = append(images, u)
		}
	}
	return images
}

// persist stores data: URLs and returns the stored object's URL. Other URLs pass through.
func (s *Service) persist(ctx context.Context, clientID, look, imageURL string) (string, error) {
	if s.Store == nil || !strings.HasPrefix(imageURL, "data:") {
		return imageURL, nil
	}
	data, err := decodeDataURL(imageURL)
	if err != nil {
		return "", err
	}
	obj, err := s.Store.Save(ctx, clientID, "look-"+look, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return s.Store.URL(ctx, obj.Key)
}

func (s *Service) finish(ctx context.Context, rec Record, start time.Time) {
	elapsed := s.now().Sub(start)
	rec.DurationMs = elapsed.Milliseconds()
	metrics.IncGeneration(rec.Outcome)
	metrics.ObserveGenerationDuration(elapsed)

	fields := map[string]any{
		"generation_id": rec.ID,
		"client_id":     rec.ClientID,
		"body_shape":    rec.BodyShape,
		"outcome":       rec.Outcome,
		"image_count":   rec.ImageCount,
		"duration_ms":   rec.DurationMs,
	}
	if rec.Outcome == metrics.OutcomeSuccess {
		telemetry.Info("outfits.generate.complete", fields)
	} else {
		fields["error"] = rec.ErrorMessage
		telemetry.Error("outfits.generate.failed", fields)
	}

	if s.Repo == nil {
		return
	}
	if err := s.Repo.Create(context.WithoutCancel(ctx), rec); err != nil {
		telemetry.Error("outfits.ledger.write_failed", map[string]any{
			"generation_id": rec.ID,
			"error":         err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func normalizeRequest(req Request) (bodyshape.Shape, bodyshape.Gender, error) {
	shape, err := bodyshape.ParseShape(req.BodyShape)
	if err != nil {
		return "", "", fmt.Errorf("%w: bodyShape must be one of Hourglass, Pear, Apple, Rectangle, Inverted Triangle", ErrInvalidRequest)
	}
	gender, err := bodyshape.ParseGender(req.Gender)
	if err != nil {
		return "", "", fmt.Errorf("%w: gender must be Female or Male", ErrInvalidRequest)
	}
	return shape, gender, nil
}

func mapGatewayError(err error) error {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case errors.Is(err, llm.ErrQuotaExhausted):
		return fmt.Errorf("%w: %w", ErrQuotaExhausted, err)
	case errors.Is(err, llm.ErrNotConfigured):
		return fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}
	msg := "Text generation failed"
	var se *llm.StatusError
	if errors.As(err, &se) {
		msg += ": " + se.Error()
	}
	return &ProviderError{Message: msg, Cause: err}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, ErrQuotaExhausted):
		return metrics.OutcomeQuotaExceeded
	default:
		return metrics.OutcomeFailed
	}
}

// ledgerURLs drops inline data: URLs, which are too large to keep in the ledger.
func ledgerURLs(images []string) []string {
	out := []string{}
	for _, u := range images {
		if !strings.HasPrefix(u, "data:") {
			out = append(out, u)
		}
	}
	return out
}

func decodeDataURL(raw string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data url")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data url: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return []byte(data), nil
}
