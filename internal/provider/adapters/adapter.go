// Package adapters contains the image editor contract and one adapter per
// upstream provider. Adapters translate the uniform edit request into a
// provider-specific call and normalize every failure to a typed error before
// it reaches the HTTP layer.
package adapters

import (
	"context"
	"fmt"
)

// Result is the uniform output of an edit operation. An empty MIME means the
// adapter could not determine the output type and the caller should reuse the
// declared content type of the first input image.
type Result struct {
	Data []byte
	MIME string
}

// ImageEditor is the capability every provider adapter implements.
//
// Implementations must not mutate the input slices. images always holds at
// least one non-empty buffer (the HTTP layer validates uploads before any
// adapter runs). Adapters that lack required credentials do not fail; they
// return the first input unchanged with an empty MIME, the degraded mode
// that keeps the gateway usable without secrets.
type ImageEditor interface {
	EditImage(ctx context.Context, images [][]byte, prompt string, opts map[string]string) (Result, error)
}

// NotSupportedError marks a provider that is recognized but intentionally not
// implemented yet, so callers can distinguish "never will work" from "try
// again". The HTTP layer maps it to 501.
type NotSupportedError struct {
	Provider string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s provider not implemented yet", e.Provider)
}

// ProviderError wraps a remote or setup failure from an upstream provider.
// The HTTP layer maps it to 500.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// echo is the degraded fallback shared by adapters: the first input comes
// back byte-for-byte with no MIME, and the caller propagates the declared
// type of that input.
func echo(images [][]byte) Result {
	return Result{Data: images[0]}
}
