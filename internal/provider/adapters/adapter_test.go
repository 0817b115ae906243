package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/nickverneck/FrameForge/internal/config"
)

func TestPlaceholderEditor(t *testing.T) {
	ed := NewPlaceholderEditor("qwen", config.DefaultConfig().Effective())
	_, err := ed.EditImage(context.Background(), [][]byte{{0xFF}}, "prompt", nil)

	var nse *NotSupportedError
	if !errors.As(err, &nse) {
		t.Fatalf("expected *NotSupportedError, got %T: %v", err, err)
	}
	if nse.Provider != "qwen" {
		t.Errorf("Provider = %q, want qwen", nse.Provider)
	}
	if got := err.Error(); got != "qwen provider not implemented yet" {
		t.Errorf("Error() = %q", got)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ProviderError{Provider: "fal", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ProviderError should unwrap to its cause")
	}
	if got := err.Error(); got != "fal provider: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}
