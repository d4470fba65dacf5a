package handlers

import (
	"net/http"

	"github.com/markdave123-py/Cluster/internal/api/response"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/services"
)

type LectureHandler struct {
	lectures  *services.LectureService
	maxUpload int64
	log       *logger.Logger
}

func NewLectureHandler(lectures *services.LectureService, maxUploadBytes int64, log *logger.Logger) *LectureHandler {
	return &LectureHandler{lectures: lectures, maxUpload: maxUploadBytes, log: log.With("handler", "lecture")}
}

// Summarise handles POST /summarise with an optional file and optional lecture_summary.
func (h *LectureHandler) Summarise(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	if err := parseForm(r); err != nil {
		response.Error(w, h.log, err)
		return
	}

	header, data, err := formFile(r, "file")
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	var file *services.UploadedFile
	if header != nil {
		file = &services.UploadedFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	summaries, err := h.lectures.Summarise(r.Context(), r.FormValue("lecture_summary"), file)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, map[string][]string{"summaries": summaries})
}

// Upload handles POST /upload: quiz the student persona on one of the summaries.
func (h *LectureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		response.Error(w, h.log, err)
		return
	}

	summaries, err := services.ParseSummaries(r.Form["summaries"])
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	msg, err := h.lectures.Quiz(r.Context(), summaries)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, map[string]string{"message": msg})
}

// Evaluate handles POST /evaluate.
func (h *LectureHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		response.Error(w, h.log, err)
		return
	}

	evaluation, err := h.lectures.Evaluate(r.Context(), services.EvaluateInput{
		Question: r.FormValue("question"),
		Answer:   r.FormValue("answer"),
	})
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, map[string]string{"evaluation": evaluation})
}
