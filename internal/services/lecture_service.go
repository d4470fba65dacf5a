package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/core/ingestion_engine"
	"github.com/markdave123-py/Cluster/internal/logger"
)

const (
	NoResponseFromLLM = "No response from LLM"

	msgUnsupportedType   = "Unsupported file type. Please upload a PDF or PowerPoint file."
	msgInvalidSummaries  = "Invalid format for summaries. Ensure it is a valid JSON string."
	msgEmptySummaries    = "The summaries list is empty. Please provide valid summaries."
	msgInternal          = "Internal Server Error"
	lectureContentPrefix = "Lecture Content: "
)

// UploadedFile is a document received with a summarise request.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type LectureServiceConfig struct {
	// SummariseConcurrency bounds the model calls in flight for one request.
	SummariseConcurrency int
}

// LectureService runs the extract, chunk, summarise and quiz workflow.
type LectureService struct {
	extractor core.DocumentExtractor
	splitter  core.TextSplitter
	tutor     *TutorService
	archiver  ingestion_engine.Archiver
	picker    core.Picker
	cfg       LectureServiceConfig
	log       *logger.Logger
}

// NewLectureService wires the workflow. archiver may be nil.
func NewLectureService(
	extractor core.DocumentExtractor,
	splitter core.TextSplitter,
	tutor *TutorService,
	archiver ingestion_engine.Archiver,
	picker core.Picker,
	cfg LectureServiceConfig,
	log *logger.Logger,
) *LectureService {
	if picker == nil {
		picker = core.DefaultPicker
	}
	if cfg.SummariseConcurrency <= 0 {
		cfg.SummariseConcurrency = 1
	}
	return &LectureService{
		extractor: extractor,
		splitter:  splitter,
		tutor:     tutor,
		archiver:  archiver,
		picker:    picker,
		cfg:       cfg,
		log:       log,
	}
}

// Summarise returns one summary per chunk, raw-text chunks first and file
// chunks after. Any failed chunk fails the whole request.
func (s *LectureService) Summarise(ctx context.Context, rawText string, file *UploadedFile) ([]string, error) {
	if file != nil && !ingestion_engine.IsSupportedMediaType(file.ContentType) {
		return nil, apierr.UnsupportedMediaType(msgUnsupportedType)
	}

	var chunks []string
	if strings.TrimSpace(rawText) != "" {
		parts, err := s.splitter.Split(rawText)
		if err != nil {
			return nil, apierr.Upstream(msgInternal, err)
		}
		chunks = append(chunks, parts...)
	}

	if file != nil {
		text, err := s.extractor.ExtractText(ctx, file.Data, file.ContentType)
		if errors.Is(err, core.ErrUnsupportedMediaType) {
			return nil, apierr.UnsupportedMediaType(msgUnsupportedType)
		}
		if err != nil {
			return nil, apierr.Upstream(msgInternal, err)
		}
		parts, err := s.splitter.Split(text)
		if err != nil {
			return nil, apierr.Upstream(msgInternal, err)
		}
		chunks = append(chunks, parts...)
		s.archive(file)
	}

	summaries := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SummariseConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			out, err := s.tutor.Summarise(gctx, chunk)
			if err != nil {
				return err
			}
			summaries[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("summarise failed", "chunks", len(chunks), "error", err)
		return nil, apierr.Upstream(msgInternal, err)
	}
	return summaries, nil
}

func (s *LectureService) archive(file *UploadedFile) {
	if s.archiver == nil {
		return
	}
	s.archiver.Enqueue(ingestion_engine.ArchiveJob{
		FileName:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
}

// Quiz picks one summary at random and asks the student persona about it.
// A failed or empty reply becomes NoResponseFromLLM.
func (s *LectureService) Quiz(ctx context.Context, summaries []string) (string, error) {
	if len(summaries) == 0 {
		return "", apierr.BadRequest(msgEmptySummaries)
	}
	chosen := summaries[s.picker.IntN(len(summaries))]

	reply, err := s.tutor.Query(ctx, lectureContentPrefix+chosen, "")
	if err != nil {
		s.log.Warn("quiz query failed", "error", err)
		return NoResponseFromLLM, nil
	}
	if strings.TrimSpace(reply) == "" {
		return NoResponseFromLLM, nil
	}
	return reply, nil
}

// Evaluate grades a student's answer.
func (s *LectureService) Evaluate(ctx context.Context, in EvaluateInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", apierr.BadRequest(msgAllFieldsRequired)
	}
	out, err := s.tutor.Evaluate(ctx, in.Question, in.Answer)
	if err != nil {
		s.log.Error("evaluate failed", "error", err)
		return "", apierr.Upstream(msgInternal, err)
	}
	return out, nil
}

type EvaluateInput struct {
	Question string `validate:"required"`
	Answer   string `validate:"required"`
}

// ParseSummaries accepts the summaries form values: either several values,
// or one value holding JSON. A single value must parse as JSON; a JSON list
// is expanded, any other JSON value keeps the raw string as the only summary.
func ParseSummaries(values []string) ([]string, error) {
	if len(values) == 1 {
		var decoded any
		if err := json.Unmarshal([]byte(values[0]), &decoded); err != nil {
			return nil, apierr.BadRequest(msgInvalidSummaries)
		}
		if list, ok := decoded.([]any); ok {
			values = stringify(list)
		}
	}
	if len(values) == 0 {
		return nil, apierr.BadRequest(msgEmptySummaries)
	}
	return values, nil
}

func stringify(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		out = append(out, string(b))
	}
	return out
}
