package adapters

import (
	"context"

	"github.com/nickverneck/FrameForge/internal/config"
)

// PlaceholderEditor reserves a provider name in the registry before its
// adapter exists. Every call fails with NotSupportedError.
type PlaceholderEditor struct {
	name string
}

func NewPlaceholderEditor(name string, _ config.Effective) *PlaceholderEditor {
	return &PlaceholderEditor{name: name}
}

func (p *PlaceholderEditor) EditImage(ctx context.Context, images [][]byte, prompt string, opts map[string]string) (Result, error) {
	return Result{}, &NotSupportedError{Provider: p.name}
}
