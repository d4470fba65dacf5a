package handlers

import (
	"net/http"

	middleware "github.com/markdave123-py/Cluster/internal/api/middlewares"
	"github.com/markdave123-py/Cluster/internal/api/response"
	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/models"
	"github.com/markdave123-py/Cluster/internal/services"
)

type HistoryHandler struct {
	history *services.HistoryService
	log     *logger.Logger
}

func NewHistoryHandler(history *services.HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, log: log.With("handler", "history")}
}

// StoreLecture handles POST /store-lecture.
func (h *HistoryHandler) StoreLecture(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := parseForm(r); err != nil {
		response.Error(w, h.log, err)
		return
	}

	id, err := h.history.StoreLecture(r.Context(), user, services.StoreLectureInput{
		LectureSummary:  r.FormValue("lecture_summary"),
		LectureFileName: r.FormValue("lecture_file_name"),
	})
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, map[string]string{"message": "Lecture stored successfully", "lecture_id": id})
}

// StoreStudentResponse handles POST /store-student-response.
func (h *HistoryHandler) StoreStudentResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := parseForm(r); err != nil {
		response.Error(w, h.log, err)
		return
	}

	err := h.history.StoreStudentResponse(r.Context(), user, services.StudentResponseInput{
		LectureID:  r.FormValue("lecture_id"),
		Question:   r.FormValue("question"),
		Response:   r.FormValue("response"),
		Evaluation: r.FormValue("evaluation"),
	})
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, map[string]string{"message": "Student response stored successfully"})
}

// UploadHistory handles GET /upload-history.
func (h *HistoryHandler) UploadHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}
	lectures, err := h.history.History(r.Context(), user)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, map[string][]models.LectureEntry{"lectures": lectures})
}

func (h *HistoryHandler) user(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, h.log, apierr.Unauthorized("Not authenticated"))
	}
	return u, ok
}
