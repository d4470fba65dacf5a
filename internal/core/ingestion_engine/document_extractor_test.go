package ingestion_engine

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/markdave123-py/Cluster/internal/core"
)

func TestIsSupportedMediaType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/pdf", true},
		{"APPLICATION/PDF", true},
		{"application/pdf; charset=binary", true},
		{MimePPTX, true},
		{MimePowerPoint, true},
		{"text/plain", false},
		{"image/png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSupportedMediaType(tt.contentType); got != tt.want {
			t.Fatalf("IsSupportedMediaType(%q)=%v want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestExtractTextRejectsUnsupportedType(t *testing.T) {
	e := NewDocconvExtractor(false)
	_, err := e.ExtractText(context.Background(), []byte("hello"), "text/plain")
	if !errors.Is(err, core.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

const slideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

// buildDeck zips a minimal presentation with one text run per slide.
func buildDeck(t *testing.T, slides ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var types strings.Builder
	types.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	for i := range slides {
		fmt.Fprintf(&types, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	types.WriteString(`</Types>`)

	files := []struct{ name, body string }{{"[Content_Types].xml", types.String()}}
	for i, text := range slides {
		files = append(files, struct{ name, body string }{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), fmt.Sprintf(slideXML, text)})
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.body)); err != nil {
			t.Fatalf("zip write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextPresentationInSlideOrder(t *testing.T) {
	deck := buildDeck(t, "First slide", "Second slide")
	e := NewDocconvExtractor(false)

	for _, ct := range []string{MimePPTX, MimePowerPoint} {
		got, err := e.ExtractText(context.Background(), deck, ct)
		if err != nil {
			t.Fatalf("%s: ExtractText: %v", ct, err)
		}
		first, second := strings.Index(got, "First slide"), strings.Index(got, "Second slide")
		if first < 0 || second < 0 || first > second {
			t.Fatalf("%s: slides missing or out of order: %q", ct, got)
		}
	}
}

func TestExtractTextCorruptDocument(t *testing.T) {
	e := NewDocconvExtractor(false)
	_, err := e.ExtractText(context.Background(), []byte("not a zip"), MimePPTX)
	if err == nil {
		t.Fatalf("expected error for corrupt presentation")
	}
	if errors.Is(err, core.ErrUnsupportedMediaType) {
		t.Fatalf("corrupt input should not be reported as unsupported: %v", err)
	}
}
