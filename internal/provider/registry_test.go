package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/nickverneck/FrameForge/internal/config"
	"github.com/nickverneck/FrameForge/internal/provider/adapters"
)

func eff() config.Effective {
	return config.DefaultConfig().Effective()
}

func TestResolve_StaticNames(t *testing.T) {
	tests := []struct {
		identifier string
		want       any
	}{
		{"google", &adapters.GeminiEditor{}},
		{"nano-banana", &adapters.GeminiEditor{}},
		{"qwen", &adapters.PlaceholderEditor{}},
		{"kontext", &adapters.PlaceholderEditor{}},
		{"GOOGLE", &adapters.GeminiEditor{}},
		{"  Nano-Banana  ", &adapters.GeminiEditor{}},
	}

	for _, tt := range tests {
		got := Resolve(tt.identifier, eff())
		if reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
			t.Errorf("Resolve(%q) = %T, want %T", tt.identifier, got, tt.want)
		}
	}
}

func TestResolve_UnknownFallsBackToDefault(t *testing.T) {
	for _, id := range []string{"", "unknown", "openai", "   "} {
		got := Resolve(id, eff())
		if _, ok := got.(*adapters.GeminiEditor); !ok {
			t.Errorf("Resolve(%q) = %T, want default *adapters.GeminiEditor", id, got)
		}
	}
}

func TestResolve_FalPrefix(t *testing.T) {
	for _, id := range []string{"fal:fal-ai/qwen-image-edit", "FAL:fal-ai/qwen-image-edit", "  fal:fal-ai/qwen-image-edit  "} {
		got := Resolve(id, eff())
		if _, ok := got.(*adapters.FalEditor); !ok {
			t.Errorf("Resolve(%q) = %T, want *adapters.FalEditor", id, got)
		}
	}

	// A bare "fal:" with no model path is not a valid dynamic identifier.
	if _, ok := Resolve("fal:", eff()).(*adapters.GeminiEditor); !ok {
		t.Error(`Resolve("fal:") should fall back to the default provider`)
	}
}

// The model path after the prefix must reach the broker verbatim, with its
// original case, even though the prefix match itself is case-insensitive.
func TestResolve_FalModelPathVerbatim(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"images":[{"url":"data:image/png;base64,aGk="}]}`)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Providers.Fal.APIKey = "sk-test"
	cfg.Providers.Fal.BaseURL = srv.URL

	ed := Resolve("FAL:Fal-AI/Qwen-Image-Edit", cfg.Effective())
	if _, err := ed.EditImage(context.Background(), [][]byte{{0xFF}}, "prompt", nil); err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if gotPath != "/Fal-AI/Qwen-Image-Edit" {
		t.Errorf("broker path = %q, want the identifier remainder untouched", gotPath)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	a := Resolve("qwen", eff())
	b := Resolve("qwen", eff())
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		t.Error("repeated resolution should produce the same adapter type")
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"google", "google"},
		{"Nano-Banana", "nano-banana"},
		{"fal:fal-ai/qwen-image-edit", "fal"},
		{"FAL:whatever/model", "fal"},
		{"unknown", "google"},
		{"", "google"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.identifier); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestStatic(t *testing.T) {
	want := []string{"google", "kontext", "nano-banana", "qwen"}
	if got := Static(); !reflect.DeepEqual(got, want) {
		t.Errorf("Static() = %v, want %v", got, want)
	}
}
