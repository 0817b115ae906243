// Package gateway implements the public HTTP surface: the multipart edit
// endpoint, provider listing, and health. It owns request validation and the
// mapping from adapter errors to transport status codes.
package gateway

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/semaphore"

	"github.com/nickverneck/FrameForge/internal/auth"
	"github.com/nickverneck/FrameForge/internal/config"
	"github.com/nickverneck/FrameForge/internal/httputil"
	"github.com/nickverneck/FrameForge/internal/provider"
	"github.com/nickverneck/FrameForge/internal/provider/adapters"
	"github.com/nickverneck/FrameForge/internal/telemetry"
)

// DefaultPrompt is the staging instruction applied when the caller supplies
// no prompt.
const DefaultPrompt = "Stage this room with minimalist modern furniture in neutral tones. " +
	"Preserve architecture and lighting; add realistic shadows and reflections."

// Server handles the gateway's API routes. Configuration is read through a
// getter so hot reloads apply to new requests without a restart.
type Server struct {
	cfg     func() *config.Config
	metrics *telemetry.Metrics

	mu  sync.RWMutex
	sem *semaphore.Weighted
}

func NewServer(cfg func() *config.Config, metrics *telemetry.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		metrics: metrics,
	}
	s.ReloadLimits()
	return s
}

// ReloadLimits rebuilds the provider-call gate from the current
// max_concurrent setting. A semaphore's weight is fixed at construction, so
// config reloads must call this for the new value to take effect; requests
// already holding the old gate drain against it.
func (s *Server) ReloadLimits() {
	max := s.cfg().Providers.MaxConcurrent
	if max <= 0 {
		max = 8
	}
	s.mu.Lock()
	s.sem = semaphore.NewWeighted(max)
	s.mu.Unlock()
}

func (s *Server) gate() *semaphore.Weighted {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sem
}

// Routes mounts the API on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleBanner)
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/providers", s.handleProviders)
	r.Post("/api/edit", s.handleEdit)
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "frameforge",
		"status":  "running",
		"docs":    "/api/providers",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"default":   provider.Default,
		"available": provider.Static(),
	})
}

// upload is one validated image part.
type upload struct {
	data        []byte
	contentType string
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg := s.cfg()

	r.Body = http.MaxBytesReader(w, r.Body, cfg.Server.MaxUploadBytes)

	uploads, ok := s.parseUploads(w, r)
	if !ok {
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		prompt = DefaultPrompt
	}
	providerID := strings.TrimSpace(r.FormValue("provider"))
	if providerID == "" {
		providerID = provider.Default
	}
	label := provider.Canonical(providerID)

	eff := auth.Effective(cfg, r.Header.Get("Authorization"))
	editor := provider.Resolve(providerID, eff)

	// Provider calls are slow and expensive; bound how many run at once.
	// Acquire and release pair against the same gate instance even if a
	// reload swaps it mid-request.
	sem := s.gate()
	if err := sem.Acquire(r.Context(), 1); err != nil {
		slog.Info("edit request canceled while queued", "provider", label)
		return
	}
	defer sem.Release(1)

	images := make([][]byte, len(uploads))
	for i, u := range uploads {
		images[i] = u.data
	}

	res, err := editor.EditImage(r.Context(), images, prompt, nil)
	if err != nil {
		status := s.writeEditError(w, err)
		s.metrics.ObserveEdit(label, status, float64(time.Since(start).Milliseconds()))
		return
	}

	mime := res.MIME
	if mime == "" {
		mime = uploads[0].contentType
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(res.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		slog.Warn("failed to write edit response", "error", err)
	}

	slog.Info("edit complete",
		"provider", label,
		"images", len(images),
		"result_bytes", len(res.Data),
		"duration_ms", time.Since(start).Milliseconds())
	s.metrics.ObserveEdit(label, http.StatusOK, float64(time.Since(start).Milliseconds()))
}

// parseUploads reads and validates the multipart image parts. On failure it
// writes the 400 response itself and returns ok=false.
func (s *Server) parseUploads(w http.ResponseWriter, r *http.Request) ([]upload, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.WriteBadRequest(w, fmt.Sprintf("Failed to read multipart form: %v", err))
		return nil, false
	}

	// The web client historically posted a singular "image" field.
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = append(headers, r.MultipartForm.File["images"]...)
		headers = append(headers, r.MultipartForm.File["image"]...)
	}

	if len(headers) == 0 {
		httputil.WriteBadRequest(w, "At least one image is required")
		return nil, false
	}

	uploads := make([]upload, 0, len(headers))
	var total int64
	for _, fh := range headers {
		ct := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			httputil.WriteBadRequest(w, "Please upload a valid image file.")
			return nil, false
		}

		data, err := readPart(fh)
		if err != nil {
			httputil.WriteBadRequest(w, fmt.Sprintf("Failed to read image data: %v", err))
			return nil, false
		}
		if len(data) == 0 {
			httputil.WriteBadRequest(w, "Uploaded image is empty.")
			return nil, false
		}

		total += int64(len(data))
		uploads = append(uploads, upload{data: data, contentType: ct})
	}

	s.metrics.AddUploadBytes(total)
	return uploads, true
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeEditError maps an adapter error to its transport status and writes the
// response, returning the status for metrics.
func (s *Server) writeEditError(w http.ResponseWriter, err error) int {
	var nse *adapters.NotSupportedError
	if errors.As(err, &nse) {
		slog.Warn("provider not implemented", "provider", nse.Provider)
		httputil.WriteNotImplemented(w, err.Error())
		return http.StatusNotImplemented
	}

	slog.Error("edit failed", "error", err)
	httputil.WriteInternal(w, fmt.Sprintf("Editing failed: %v", err))
	return http.StatusInternalServerError
}

