package services

import (
	"context"
	"errors"
	"sync"

	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/core/ingestion_engine"
	"github.com/markdave123-py/Cluster/internal/core/persona"
)

type llmCall struct {
	system, user string
}

// fakeLLM answers every call with reply(system, user).
type fakeLLM struct {
	mu    sync.Mutex
	calls []llmCall
	reply func(system, user string) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, llmCall{systemPrompt, userPrompt})
	f.mu.Unlock()
	if f.reply == nil {
		return "ok", nil
	}
	return f.reply(systemPrompt, userPrompt)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if !ingestion_engine.IsSupportedMediaType(contentType) {
		return "", core.ErrUnsupportedMediaType
	}
	return f.text, f.err
}

// lineSplitter returns one chunk per non-empty line so tests control chunking.
type lineSplitter struct{}

func (lineSplitter) Split(text string) ([]string, error) {
	var out []string
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if line := text[start:i]; line != "" {
				out = append(out, line)
			}
			start = i + 1
		}
	}
	return out, nil
}

type fakeArchiver struct {
	mu   sync.Mutex
	jobs []ingestion_engine.ArchiveJob
}

func (f *fakeArchiver) Start(ctx context.Context, numWorkers int) {}

func (f *fakeArchiver) Enqueue(job ingestion_engine.ArchiveJob) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return true
}

// fixedPicker always returns the same index.
type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

var errBackend = errors.New("backend down")

func testPersonas() *persona.Store {
	return persona.New(map[string]string{
		persona.DefaultStudent:   "You are a student.",
		persona.EvaluateResponse: "Grade the answer.",
		persona.Summarise:        "Summarise the text.",
		"curious_persona":        "Curious and eager.",
	}, fixedPicker(0))
}
