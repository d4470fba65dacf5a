package ingestion_engine

import (
	"strings"

	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/tmc/langchaingo/textsplitter"
)

var _ core.TextSplitter = (*Chunker)(nil)

// separators are tried in order: paragraph, line, sentence, word, then characters.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

func NewChunker(cfg ChunkConfig) *Chunker {
	return &Chunker{cfg: cfg}
}

// Split cuts text into chunks of at most ChunkSize approximate tokens with
// ChunkOverlap tokens carried between neighbours. Blank input yields no chunks.
func (c *Chunker) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if approxTokens(text) <= c.cfg.ChunkSize {
		return []string{text}, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.cfg.ChunkSize),
		textsplitter.WithChunkOverlap(c.cfg.ChunkOverlap),
		textsplitter.WithSeparators(separators),
		textsplitter.WithLenFunc(approxTokens),
	)
	parts, err := splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks, nil
}

// approxTokens is a cheap token estimator (~4 chars ≈ 1 token).
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
