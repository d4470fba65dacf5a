package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/models"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrLectureNotFound = errors.New("lecture not found")
)

// DbClient defines all persistence operations the services need.
// Lookups return (nil, nil) when nothing matches.
type DbClient interface {
	// CreateUser stores a new user and fills in user.ID.
	// A second user with the same email fails with ErrEmailTaken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// AppendLecture assigns lecture.ID and appends the entry to the user's
	// history, creating the history on first use.
	AppendLecture(ctx context.Context, user *models.User, lecture *models.LectureEntry) error
	// AppendStudentRecord appends rec to one lecture of the user's history.
	// It fails with ErrLectureNotFound when the user has no such lecture.
	AppendStudentRecord(ctx context.Context, userID, lectureID string, rec models.StudentRecord) error
	GetUserHistory(ctx context.Context, userID string) (*models.UserHistory, error)

	Close() error
}

// NewDatabaseClient opens the store selected by cfg.StoreBackend.
func NewDatabaseClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	switch cfg.StoreBackend {
	case config.StoreMongo:
		c, err := NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		log.Info("connected to mongo", "database", cfg.MongoDBName)
		return c, nil
	case config.StorePostgres:
		c, err := NewPostgresClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("connected to postgres")
		return c, nil
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemoryClient(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// prepareLecture fills in the fields every backend sets before storing a lecture.
func prepareLecture(lecture *models.LectureEntry, newID func() string, now func() time.Time) {
	if lecture.ID == "" {
		lecture.ID = newID()
	}
	if lecture.CreatedAt.IsZero() {
		lecture.CreatedAt = now().UTC()
	}
	if lecture.Students == nil {
		lecture.Students = []models.StudentRecord{}
	}
}
