package services

import (
	"context"
	"errors"

	"github.com/markdave123-py/Cluster/internal/apierr"
	db "github.com/markdave123-py/Cluster/internal/core/database"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/models"
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgLectureNotFound   = "Lecture not found"
	msgNoHistory         = "No upload history found for this user"
)

type StoreLectureInput struct {
	LectureSummary  string `validate:"required"`
	LectureFileName string `validate:"required"`
}

type StudentResponseInput struct {
	LectureID  string `validate:"required"`
	Question   string `validate:"required"`
	Response   string `validate:"required"`
	Evaluation string `validate:"required"`
}

// HistoryService records what each user studied and answered.
type HistoryService struct {
	db  db.DbClient
	log *logger.Logger
}

func NewHistoryService(store db.DbClient, log *logger.Logger) *HistoryService {
	return &HistoryService{db: store, log: log}
}

// StoreLecture appends a new lecture to the user's history and returns its id.
func (s *HistoryService) StoreLecture(ctx context.Context, user *models.User, in StoreLectureInput) (string, error) {
	if err := validate.Struct(in); err != nil {
		return "", apierr.BadRequest(msgAllFieldsRequired)
	}
	lecture := &models.LectureEntry{
		LectureSummary:  in.LectureSummary,
		LectureFileName: in.LectureFileName,
	}
	if err := s.db.AppendLecture(ctx, user, lecture); err != nil {
		return "", apierr.Upstream(msgInternal, err)
	}
	s.log.Info("lecture stored", "user_id", user.ID, "lecture_id", lecture.ID)
	return lecture.ID, nil
}

// StoreStudentResponse appends a question, answer and evaluation to one lecture.
func (s *HistoryService) StoreStudentResponse(ctx context.Context, user *models.User, in StudentResponseInput) error {
	if err := validate.Struct(in); err != nil {
		return apierr.BadRequest(msgAllFieldsRequired)
	}
	rec := models.StudentRecord{
		Question:   in.Question,
		Response:   in.Response,
		Evaluation: in.Evaluation,
	}
	err := s.db.AppendStudentRecord(ctx, user.ID, in.LectureID, rec)
	if errors.Is(err, db.ErrLectureNotFound) {
		return apierr.NotFound(msgLectureNotFound)
	}
	if err != nil {
		return apierr.Upstream(msgInternal, err)
	}
	return nil
}

// History returns every lecture the user stored, oldest first.
func (s *HistoryService) History(ctx context.Context, user *models.User) ([]models.LectureEntry, error) {
	h, err := s.db.GetUserHistory(ctx, user.ID)
	if err != nil {
		return nil, apierr.Upstream(msgInternal, err)
	}
	if h == nil {
		return nil, apierr.NotFound(msgNoHistory)
	}
	return h.Lectures, nil
}
