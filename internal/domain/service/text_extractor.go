package service

import (
	"context"
	"io"
)

// TextExtractor defines the interface for recovering text from an image
// through an external OCR provider.
type TextExtractor interface {
	// ExtractText sends the image bytes to the provider and returns the raw
	// recovered text. Implementations must bound the call with the context
	// and surface provider failures as domain upstream errors.
	ExtractText(ctx context.Context, filename string, image io.Reader) (string, error)
}
