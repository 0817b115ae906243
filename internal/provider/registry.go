// Package provider maps client-facing provider identifiers to editor
// adapters. The registry is deliberately lenient: unknown names resolve to
// the default provider instead of failing, and the fal: prefix opens the
// whole fal.ai catalog without a registry entry per model.
package provider

import (
	"sort"
	"strings"

	"github.com/nickverneck/FrameForge/internal/config"
	"github.com/nickverneck/FrameForge/internal/provider/adapters"
)

// Default is the provider used when the request names none, or names one the
// registry does not know.
const Default = "google"

type factory func(eff config.Effective) adapters.ImageEditor

var registry = map[string]factory{
	"google": func(eff config.Effective) adapters.ImageEditor {
		return adapters.NewGeminiEditor(eff)
	},
	"nano-banana": func(eff config.Effective) adapters.ImageEditor {
		return adapters.NewGeminiEditor(eff)
	},
	"qwen": func(eff config.Effective) adapters.ImageEditor {
		return adapters.NewPlaceholderEditor("qwen", eff)
	},
	"kontext": func(eff config.Effective) adapters.ImageEditor {
		return adapters.NewPlaceholderEditor("kontext", eff)
	},
}

// Resolve builds the editor for a provider identifier.
//
// The identifier is trimmed, then checked for the dynamic "fal:" prefix
// (case-insensitive); everything after the first colon is passed verbatim as
// the fal model path. Static names match case-insensitively. Anything else
// falls back to the default provider.
func Resolve(identifier string, eff config.Effective) adapters.ImageEditor {
	id := strings.TrimSpace(identifier)

	if len(id) > 4 && strings.EqualFold(id[:4], "fal:") {
		modelPath := id[strings.Index(id, ":")+1:]
		return adapters.NewFalEditor(modelPath, eff)
	}

	if f, ok := registry[strings.ToLower(id)]; ok {
		return f(eff)
	}
	return registry[Default](eff)
}

// Canonical returns the normalized provider name used for logging and
// metrics labels. All fal: identifiers collapse to "fal" to keep label
// cardinality bounded.
func Canonical(identifier string) string {
	id := strings.TrimSpace(identifier)
	if len(id) > 4 && strings.EqualFold(id[:4], "fal:") {
		return "fal"
	}
	lower := strings.ToLower(id)
	if _, ok := registry[lower]; ok {
		return lower
	}
	return Default
}

// Static returns the fixed provider names, sorted, for the listing endpoint.
// Dynamic fal: identifiers are open-ended and not enumerated.
func Static() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
