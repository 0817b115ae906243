package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"

	"github.com/nickverneck/FrameForge/internal/config"
	"github.com/nickverneck/FrameForge/internal/imaging"
)

// GeminiEditor edits images through Google's Gemini image model via a
// streamed generation call. Without an API key it runs in degraded mode and
// echoes the input, so local development works with no secrets configured.
type GeminiEditor struct {
	eff config.Effective
}

func NewGeminiEditor(eff config.Effective) *GeminiEditor {
	return &GeminiEditor{eff: eff}
}

// apiKey resolves the Gemini credential: per-request override first, then the
// baseline configuration, then the two alternate environment variable names.
func (g *GeminiEditor) apiKey() string {
	if g.eff.KeyOverride != "" {
		return g.eff.KeyOverride
	}
	if k := g.eff.Providers.Google.APIKey; k != "" {
		return k
	}
	if k := os.Getenv("GOOGLE_API_KEY"); k != "" {
		return k
	}
	return os.Getenv("GEMINI_API_KEY")
}

func (g *GeminiEditor) modelID() string {
	if m := g.eff.Providers.Google.ModelID; m != "" {
		return m
	}
	return "gemini-2.5-flash-image-preview"
}

func (g *GeminiEditor) EditImage(ctx context.Context, images [][]byte, prompt string, opts map[string]string) (Result, error) {
	key := g.apiKey()
	if key == "" {
		slog.Warn("gemini editor fallback: no API key configured, returning original image")
		return echo(images), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return Result{}, &ProviderError{Provider: "google", Err: fmt.Errorf("create client: %w", err)}
	}

	first := images[0]
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: imaging.DetectMIME(first), Data: first}},
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	genCfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	model := g.modelID()
	var data []byte
	var mime string
	for resp, err := range client.Models.GenerateContentStream(ctx, model, contents, genCfg) {
		if err != nil {
			return Result{}, &ProviderError{Provider: "google", Err: fmt.Errorf("stream generation: %w", err)}
		}
		// Earlier chunks may carry low-resolution previews; keep the last
		// image seen.
		if d, m, ok := lastInlineImage(resp); ok {
			data, mime = d, m
		}
	}

	if data == nil {
		return Result{}, &ProviderError{Provider: "google", Err: errors.New("no edited image returned from stream")}
	}

	slog.Info("gemini edit complete", "model", model, "result_bytes", len(data), "mime", mime)
	return Result{Data: data, MIME: mime}, nil
}

// lastInlineImage scans a streamed response chunk and returns the last inline
// image part it carries, if any.
func lastInlineImage(resp *genai.GenerateContentResponse) ([]byte, string, bool) {
	if resp == nil {
		return nil, "", false
	}
	var data []byte
	var mime string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				data = part.InlineData.Data
				mime = part.InlineData.MIMEType
			}
		}
	}
	return data, mime, data != nil
}
