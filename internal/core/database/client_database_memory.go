package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Cluster/internal/models"
)

// MemoryClient keeps everything in process memory. Used for local development and tests.
type MemoryClient struct {
	mu        sync.Mutex
	users     map[string]models.User
	byEmail   map[string]string
	histories map[string]*models.UserHistory
}

var _ DbClient = (*MemoryClient)(nil)

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		users:     map[string]models.User{},
		byEmail:   map[string]string{},
		histories: map[string]*models.UserHistory{},
	}
}

func (c *MemoryClient) Close() error { return nil }

func (c *MemoryClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	key := user.Email

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.byEmail[key]; taken {
		return ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	c.users[user.ID] = *user
	c.byEmail[key] = user.ID
	return nil
}

func (c *MemoryClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := c.users[id]
	return &u, nil
}

func (c *MemoryClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (c *MemoryClient) AppendLecture(ctx context.Context, user *models.User, lecture *models.LectureEntry) error {
	if user == nil || lecture == nil {
		return errors.New("nil user or lecture")
	}
	prepareLecture(lecture, uuid.NewString, time.Now)

	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.histories[user.ID]
	if !ok {
		h = &models.UserHistory{UserID: user.ID, Username: user.Username, Email: user.Email}
		c.histories[user.ID] = h
	}
	h.Lectures = append(h.Lectures, copyLecture(*lecture))
	return nil
}

func (c *MemoryClient) AppendStudentRecord(ctx context.Context, userID, lectureID string, rec models.StudentRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.histories[userID]
	if !ok {
		return ErrLectureNotFound
	}
	l, ok := h.Lecture(lectureID)
	if !ok {
		return ErrLectureNotFound
	}
	l.Students = append(l.Students, rec)
	return nil
}

func (c *MemoryClient) GetUserHistory(ctx context.Context, userID string) (*models.UserHistory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.histories[userID]
	if !ok {
		return nil, nil
	}
	out := *h
	out.Lectures = make([]models.LectureEntry, len(h.Lectures))
	for i, l := range h.Lectures {
		out.Lectures[i] = copyLecture(l)
	}
	return &out, nil
}

func copyLecture(l models.LectureEntry) models.LectureEntry {
	students := make([]models.StudentRecord, len(l.Students))
	copy(students, l.Students)
	l.Students = students
	return l
}
