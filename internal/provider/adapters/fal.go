package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nickverneck/FrameForge/internal/config"
	"github.com/nickverneck/FrameForge/internal/imaging"
)

const defaultFalBaseURL = "https://fal.run"

// FalEditor is the generic broker adapter for fal.ai-hosted models. It is
// parameterized by an opaque model path (e.g. "fal-ai/qwen-image-edit") taken
// verbatim from the provider identifier, and submits synchronous jobs over
// the fal.run HTTP API.
type FalEditor struct {
	modelPath string
	eff       config.Effective
	client    *http.Client
}

func NewFalEditor(modelPath string, eff config.Effective) *FalEditor {
	timeout := eff.Providers.Fal.FetchTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &FalEditor{
		modelPath: modelPath,
		eff:       eff,
		client:    &http.Client{Timeout: timeout},
	}
}

func (f *FalEditor) apiKey() string {
	if f.eff.KeyOverride != "" {
		return f.eff.KeyOverride
	}
	if k := f.eff.Providers.Fal.APIKey; k != "" {
		return k
	}
	return os.Getenv("FAL_KEY")
}

func (f *FalEditor) baseURL() string {
	if u := f.eff.Providers.Fal.BaseURL; u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return defaultFalBaseURL
}

// recoverableError marks a pipeline failure that is handled by falling back
// to the original image instead of failing the request.
type recoverableError struct {
	stage string
	err   error
}

func (e *recoverableError) Error() string {
	return fmt.Sprintf("%s: %v", e.stage, e.err)
}

func (e *recoverableError) Unwrap() error { return e.err }

type falRequest struct {
	Prompt       string   `json:"prompt"`
	ImageURL     string   `json:"image_url,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`
	OutputFormat string   `json:"output_format"`
	SyncMode     bool     `json:"sync_mode"`
}

type falImage struct {
	URL string `json:"url"`
}

type falResponse struct {
	Image  *falImage  `json:"image"`
	Images []falImage `json:"images"`
	Result *falImage  `json:"result"`
}

func (f *FalEditor) EditImage(ctx context.Context, images [][]byte, prompt string, opts map[string]string) (Result, error) {
	key := f.apiKey()
	if key == "" {
		slog.Warn("fal editor fallback: FAL_KEY missing, returning original image", "model", f.modelPath)
		return echo(images), nil
	}

	uris := make([]string, len(images))
	for i, img := range images {
		uris[i] = dataURI(img)
	}

	req := falRequest{
		Prompt:       prompt,
		OutputFormat: "png",
		SyncMode:     true,
	}
	// Some model families accept only a single input image under a different
	// argument name.
	if singleImageModel(f.modelPath) {
		req.ImageURL = uris[0]
	} else {
		req.ImageURLs = uris
	}

	res, err := f.run(ctx, key, req)
	if err != nil {
		var rec *recoverableError
		if errors.As(err, &rec) {
			slog.Warn("fal editor fallback: recoverable failure, returning original image",
				"model", f.modelPath, "stage", rec.stage, "error", rec.err)
			return echo(images), nil
		}
		return Result{}, err
	}

	slog.Info("fal edit complete", "model", f.modelPath, "result_bytes", len(res.Data), "mime", res.MIME)
	return res, nil
}

// run executes the submit -> extract -> decode-or-fetch pipeline. Submission
// failures are hard provider errors; extraction and fetch failures come back
// as recoverable markers.
func (f *FalEditor) run(ctx context.Context, key string, req falRequest) (Result, error) {
	resp, err := f.submit(ctx, key, req)
	if err != nil {
		return Result{}, err
	}

	url := extractImageURL(resp)
	if url == "" {
		return Result{}, &recoverableError{stage: "extract", err: fmt.Errorf("no image URL in %s response", f.modelPath)}
	}

	if strings.HasPrefix(url, "data:") {
		data, mime, err := decodeDataURI(url)
		if err != nil {
			return Result{}, &recoverableError{stage: "decode", err: err}
		}
		return Result{Data: data, MIME: mime}, nil
	}

	data, mime, err := f.fetch(ctx, url)
	if err != nil {
		return Result{}, &recoverableError{stage: "fetch", err: err}
	}
	return Result{Data: data, MIME: mime}, nil
}

// submit POSTs the job to fal.run and waits for the synchronous result.
func (f *FalEditor) submit(ctx context.Context, key string, req falRequest) (*falResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ProviderError{Provider: "fal", Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := f.baseURL() + "/" + f.modelPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: "fal", Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Key "+key)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: "fal", Err: fmt.Errorf("invoke %s: %w", f.modelPath, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "fal", Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Provider: "fal", Err: fmt.Errorf("%s returned status %d: %s", f.modelPath, resp.StatusCode, truncate(data, 512))}
	}

	var out falResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ProviderError{Provider: "fal", Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return &out, nil
}

// fetch downloads a result image from an HTTP(S) URL.
func (f *FalEditor) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create fetch request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch result image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("result image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read result image: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// extractImageURL finds the result URL in a fal response. Shapes differ per
// model; the list field wins, then the singular image, then the result
// wrapper.
func extractImageURL(resp *falResponse) string {
	if len(resp.Images) > 0 && resp.Images[0].URL != "" {
		return resp.Images[0].URL
	}
	if resp.Image != nil && resp.Image.URL != "" {
		return resp.Image.URL
	}
	if resp.Result != nil && resp.Result.URL != "" {
		return resp.Result.URL
	}
	return ""
}

// singleImageModel reports whether the model family takes a lone image_url
// argument instead of image_urls.
func singleImageModel(modelPath string) bool {
	return strings.Contains(modelPath, "flux-kontext") || strings.Contains(modelPath, "qwen-image-edit")
}

// dataURI encodes image bytes as a base64 data URI, defaulting to image/jpeg
// when the format is not recognized.
func dataURI(img []byte) string {
	mime := imaging.DetectMIME(img)
	if mime == imaging.OctetStream {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// decodeDataURI parses a "data:<mime>;base64,<payload>" URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI: missing comma separator")
	}

	mime := "image/png"
	if strings.HasPrefix(header, "data:") {
		if i := strings.Index(header, ";"); i > 5 {
			mime = header[5:i]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI payload: %w", err)
	}
	return data, mime, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
