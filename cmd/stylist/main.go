package main

// Run a style guide from the terminal:
//   go run ./cmd/stylist -gender female -shoulder 90 -bust 92 -waist 65 -hip 94 -height 168
//   go run ./cmd/stylist -endpoint https://host/functions/v1/generate-outfit -api-key ... (remote provider)
//   go run ./cmd/stylist -classify-only ...                                               (no AI calls)

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"outfit-backend/internal/bodyshape"
	"outfit-backend/internal/llm"
	"outfit-backend/internal/llm/openai"
	"outfit-backend/internal/outfits"
	"outfit-backend/internal/shared/config"
	"outfit-backend/internal/shared/telemetry"
	"outfit-backend/internal/styleflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitErr(fmt.Sprintf("load config: %v", err))
	}
	telemetry.Setup("warn", "console")

	endpoint := flag.String("endpoint", "", "Remote generate-outfit URL (default: call the AI gateway directly)")
	apiKey := flag.String("api-key", "", "API key sent to the remote endpoint")
	gender := flag.String("gender", "female", "female or male")
	shoulder := flag.Float64("shoulder", 0, "Shoulder width (cm)")
	bust := flag.Float64("bust", 0, "Bust or chest (cm)")
	waist := flag.Float64("waist", 0, "Waist (cm)")
	hip := flag.Float64("hip", 0, "Hip (cm)")
	height := flag.Float64("height", 0, "Height (cm)")
	classifyOnly := flag.Bool("classify-only", false, "Only classify the body shape")
	timeout := flag.Duration("timeout", 3*time.Minute, "Overall timeout")
	flag.Parse()

	g, err := bodyshape.ParseGender(*gender)
	if err != nil {
		exitErr(err.Error())
	}
	m := bodyshape.Measurements{Gender: g, Shoulder: *shoulder, Bust: *bust, Waist: *waist, Hip: *hip, Height: *height}
	if err := m.Validate(); err != nil {
		exitErr(err.Error())
	}

	if *classifyOnly {
		printShape(os.Stdout, bodyshape.Classify(m), bodyshape.ComputeRatios(m))
		return
	}

	provider, err := buildProvider(cfg, *endpoint, *apiKey)
	if err != nil {
		exitErr(err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	flow := &styleflow.Flow{
		Provider:     provider,
		AnalyzeDelay: styleflow.DefaultAnalyzeDelay,
		RevealDelay:  styleflow.DefaultRevealDelay,
	}
	result, err := flow.Run(ctx, "cli", m, func(s styleflow.Stage) {
		if s.InProgress() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", s.Title(), s.Description())
		}
	})
	if err != nil {
		exitErr(styleflow.UserMessage(err) + " (" + err.Error() + ")")
	}

	printShape(os.Stdout, result.BodyShape, result.Ratios)
	for _, section := range result.Sections() {
		fmt.Printf("\n%s\n", section.Title)
		for _, item := range section.Items {
			fmt.Printf("  • %s\n", item)
		}
	}
	if len(result.Images) > 0 {
		fmt.Println("\nLooks")
		for i, img := range result.Images {
			fmt.Printf("  %d. %s\n", i+1, shorten(img))
		}
	}
}

func buildProvider(cfg config.Config, endpoint, apiKey string) (styleflow.Provider, error) {
	if strings.TrimSpace(endpoint) != "" {
		return styleflow.NewHTTPProvider(endpoint, apiKey, cfg.Gateway.Timeout), nil
	}
	client, err := openai.NewClient(openai.Config{
		BaseURL:    cfg.Gateway.URL,
		APIKey:     cfg.Gateway.APIKey,
		TextModel:  cfg.Gateway.TextModel,
		ImageModel: cfg.Gateway.ImageModel,
		Timeout:    cfg.Gateway.Timeout,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, fmt.Errorf("set AI_GATEWAY_API_KEY or pass -endpoint")
		}
		return nil, err
	}
	return &outfits.Service{LLM: client, ImageAttempts: cfg.ImageAttempts}, nil
}

func printShape(w io.Writer, shape bodyshape.Shape, r bodyshape.Ratios) {
	fmt.Fprintf(w, "Body shape: %s\n", shape)
	fmt.Fprintf(w, "%s\n", bodyshape.Describe(shape))
	fmt.Fprintf(w, "waist/hip %.2f  bust/hip %.2f  shoulder/hip %.2f\n", r.WaistToHip, r.BustToHip, r.ShoulderToHip)
}

// shorten keeps inline data: URLs from flooding the terminal.
func shorten(url string) string {
	if strings.HasPrefix(url, "data:") && len(url) > 64 {
		return url[:64] + "..."
	}
	return url
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
