package services

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/core/ingestion_engine"
	"github.com/markdave123-py/Cluster/internal/logger"
)

func newLectureService(llm *fakeLLM, ext *fakeExtractor, arch ingestion_engine.Archiver, picker fixedPicker) *LectureService {
	return NewLectureService(ext, lineSplitter{}, NewTutorService(llm, testPersonas()), arch, picker,
		LectureServiceConfig{SummariseConcurrency: 4}, logger.Nop())
}

func echo(system, user string) (string, error) { return "S(" + user + ")", nil }

func TestSummariseRawTextOnly(t *testing.T) {
	svc := newLectureService(&fakeLLM{reply: echo}, &fakeExtractor{}, nil, 0)
	got, err := svc.Summarise(context.Background(), "Test sentence.", nil)
	if err != nil {
		t.Fatalf("Summarise: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"S(Test sentence.)"}) {
		t.Fatalf("unexpected summaries: %q", got)
	}
}

func TestSummariseOrdersRawBeforeFile(t *testing.T) {
	arch := &fakeArchiver{}
	ext := &fakeExtractor{text: "f1\nf2\nf3\nf4\nf5"}
	svc := newLectureService(&fakeLLM{reply: echo}, ext, arch, 0)

	file := &UploadedFile{Name: "slides.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	got, err := svc.Summarise(context.Background(), "r1\nr2", file)
	if err != nil {
		t.Fatalf("Summarise: %v", err)
	}
	want := []string{"S(r1)", "S(r2)", "S(f1)", "S(f2)", "S(f3)", "S(f4)", "S(f5)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
	if len(arch.jobs) != 1 || arch.jobs[0].FileName != "slides.pdf" {
		t.Fatalf("upload not archived: %+v", arch.jobs)
	}
}

func TestSummariseNothingGiven(t *testing.T) {
	llm := &fakeLLM{}
	svc := newLectureService(llm, &fakeExtractor{}, nil, 0)
	got, err := svc.Summarise(context.Background(), "  ", nil)
	if err != nil {
		t.Fatalf("Summarise: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
	if llm.callCount() != 0 {
		t.Fatalf("model should not be called")
	}
}

func TestSummariseUnsupportedType(t *testing.T) {
	llm := &fakeLLM{}
	svc := newLectureService(llm, &fakeExtractor{text: "x"}, nil, 0)
	_, err := svc.Summarise(context.Background(), "raw text", &UploadedFile{Name: "a.txt", ContentType: "text/plain"})
	if apierr.StatusOf(err) != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %v", err)
	}
	if llm.callCount() != 0 {
		t.Fatalf("model should not be called for rejected uploads")
	}
}

func TestSummariseAbortsOnChunkFailure(t *testing.T) {
	llm := &fakeLLM{reply: func(system, user string) (string, error) {
		if user == "r2" {
			return "", errBackend
		}
		return "ok", nil
	}}
	svc := newLectureService(llm, &fakeExtractor{}, nil, 0)
	got, err := svc.Summarise(context.Background(), "r1\nr2\nr3", nil)
	if got != nil {
		t.Fatalf("expected no partial results, got %q", got)
	}
	if apierr.StatusOf(err) != http.StatusInternalServerError || !errors.Is(err, errBackend) {
		t.Fatalf("expected wrapped backend failure, got %v", err)
	}
}

func TestSummariseExtractionFailure(t *testing.T) {
	svc := newLectureService(&fakeLLM{}, &fakeExtractor{err: errors.New("corrupt pdf")}, nil, 0)
	_, err := svc.Summarise(context.Background(), "", &UploadedFile{ContentType: "application/pdf"})
	if apierr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestQuizPicksExactlyOneSummary(t *testing.T) {
	summaries := []string{"A", "B", "C"}
	for idx := range summaries {
		llm := &fakeLLM{reply: func(system, user string) (string, error) { return user, nil }}
		svc := newLectureService(llm, &fakeExtractor{}, nil, fixedPicker(idx))
		got, err := svc.Quiz(context.Background(), summaries)
		if err != nil {
			t.Fatalf("Quiz: %v", err)
		}
		if want := "Lecture Content: " + summaries[idx]; got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestQuizSentinel(t *testing.T) {
	tests := []struct {
		name  string
		reply func(system, user string) (string, error)
	}{
		{"backend failure", func(string, string) (string, error) { return "", errBackend }},
		{"empty reply", func(string, string) (string, error) { return "  ", nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newLectureService(&fakeLLM{reply: tt.reply}, &fakeExtractor{}, nil, 0)
			got, err := svc.Quiz(context.Background(), []string{"A"})
			if err != nil {
				t.Fatalf("Quiz: %v", err)
			}
			if got != NoResponseFromLLM {
				t.Fatalf("expected sentinel, got %q", got)
			}
		})
	}
}

func TestQuizEmpty(t *testing.T) {
	svc := newLectureService(&fakeLLM{}, &fakeExtractor{}, nil, 0)
	if _, err := svc.Quiz(context.Background(), nil); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	llm := &fakeLLM{reply: func(system, user string) (string, error) { return "Good answer.", nil }}
	svc := newLectureService(llm, &fakeExtractor{}, nil, 0)

	got, err := svc.Evaluate(context.Background(), EvaluateInput{Question: "q", Answer: "a"})
	if err != nil || got != "Good answer." {
		t.Fatalf("Evaluate: %q %v", got, err)
	}
	if _, err := svc.Evaluate(context.Background(), EvaluateInput{Question: "q"}); apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing answer, got %v", err)
	}

	failing := newLectureService(&fakeLLM{reply: func(string, string) (string, error) { return "", errBackend }}, &fakeExtractor{}, nil, 0)
	if _, err := failing.Evaluate(context.Background(), EvaluateInput{Question: "q", Answer: "a"}); apierr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestParseSummaries(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr int
	}{
		{"repeated values", []string{"A", "B", "C"}, []string{"A", "B", "C"}, 0},
		{"repeated values keep blanks", []string{"", "x"}, []string{"", "x"}, 0},
		{"json list", []string{`["A","B","C"]`}, []string{"A", "B", "C"}, 0},
		{"json list with other values", []string{`["A", 2, null, {"k":"v"}]`}, []string{"A", "2", "null", `{"k":"v"}`}, 0},
		{"json string stays raw", []string{`"hello"`}, []string{`"hello"`}, 0},
		{"plain single value", []string{"Just one summary"}, nil, http.StatusBadRequest},
		{"broken json list", []string{`["A", "B"`}, nil, http.StatusBadRequest},
		{"empty json list", []string{`[]`}, nil, http.StatusBadRequest},
		{"no values", nil, nil, http.StatusBadRequest},
		{"blank value", []string{"  "}, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSummaries(tt.in)
			if tt.wantErr != 0 {
				if apierr.StatusOf(err) != tt.wantErr {
					t.Fatalf("expected %d, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSummaries: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
	if _, err := ParseSummaries([]string{"hello"}); err == nil || !strings.Contains(err.Error(), "valid JSON") {
		t.Fatalf("unexpected detail: %v", err)
	}
}
