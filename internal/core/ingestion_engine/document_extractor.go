package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"code.sajari.com/docconv"
	"github.com/markdave123-py/Cluster/internal/core"
)

const (
	MimePDF        = "application/pdf"
	MimePPTX       = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimePowerPoint = "application/vnd.ms-powerpoint"
)

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{useReadability: useReadability}
}

// IsSupportedMediaType reports whether contentType is a PDF or PowerPoint type.
func IsSupportedMediaType(contentType string) bool {
	_, ok := parserType(contentType)
	return ok
}

// parserType maps an upload content type to the type docconv should parse it as.
func parserType(contentType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	}
	switch strings.ToLower(mt) {
	case MimePDF:
		return MimePDF, true
	case MimePPTX, MimePowerPoint:
		return MimePPTX, true
	}
	return "", false
}

// ExtractText uses docconv to extract the text of every page or slide, in document order.
func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	mt, ok := parserType(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedMediaType, contentType)
	}

	res, err := docconv.Convert(bytes.NewReader(data), mt, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv: extract %s: %w", mt, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return res.Body, nil
}
