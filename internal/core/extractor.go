package core

import (
	"context"
	"errors"
)

// ErrUnsupportedMediaType is returned for uploads that are neither PDF nor PowerPoint.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// DocumentExtractor converts an uploaded document into plain text, in document order.
type DocumentExtractor interface {
	// ExtractText returns the concatenated text of every page or slide.
	// The contentType decides the parser; unknown types fail with ErrUnsupportedMediaType.
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}

// TextSplitter cuts long text into bounded, overlapping segments.
type TextSplitter interface {
	Split(text string) ([]string, error)
}
