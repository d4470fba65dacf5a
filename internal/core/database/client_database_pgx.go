package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/models"
)

// maxCASAttempts bounds the read-modify-write loop of AppendStudentRecord.
const maxCASAttempts = 16

var errCASExhausted = errors.New("history kept changing, giving up")

// PostgresClient keeps each history as one row with the lectures in a JSONB
// column. Nested appends use compare-and-swap on the row version.
type PostgresClient struct {
	db *sql.DB
}

var _ DbClient = (*PostgresClient)(nil)

func NewPostgresClient(ctx context.Context, cfg *config.Config) (*PostgresClient, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	dsn, err := postgresDSN(cfg.DatabaseURL, cfg.SslCertPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &PostgresClient{db: db}, nil
}

// postgresDSN appends certificate verification parameters when a CA cert is configured.
func postgresDSN(databaseURL, sslCertPath string) (string, error) {
	if sslCertPath == "" {
		return databaseURL, nil
	}
	if _, err := os.Stat(sslCertPath); err != nil {
		return "", fmt.Errorf("ssl cert not accessible at %q: %w", sslCertPath, err)
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("sslmode", "verify-ca")
	q.Set("sslrootcert", sslCertPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := c.db.ExecContext(ctx, q, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (c *PostgresClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE email = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, email))
}

func (c *PostgresClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	const q = `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, id))
}

func (c *PostgresClient) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *PostgresClient) AppendLecture(ctx context.Context, user *models.User, lecture *models.LectureEntry) error {
	if user == nil || lecture == nil {
		return errors.New("nil user or lecture")
	}
	prepareLecture(lecture, uuid.NewString, time.Now)
	entry, err := json.Marshal(lecture)
	if err != nil {
		return fmt.Errorf("encode lecture: %w", err)
	}

	const q = `
		INSERT INTO user_histories (user_id, username, email, lectures, version)
		VALUES ($1, $2, $3, jsonb_build_array($4::jsonb), 1)
		ON CONFLICT (user_id) DO UPDATE
		SET lectures = user_histories.lectures || jsonb_build_array($4::jsonb),
		    version = user_histories.version + 1,
		    updated_at = now()
	`
	_, err = c.db.ExecContext(ctx, q, user.ID, user.Username, user.Email, string(entry))
	return err
}

func (c *PostgresClient) AppendStudentRecord(ctx context.Context, userID, lectureID string, rec models.StudentRecord) error {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		lectures, version, err := c.loadLectures(ctx, userID)
		if err != nil {
			return err
		}
		if lectures == nil {
			return ErrLectureNotFound
		}

		h := models.UserHistory{Lectures: lectures}
		l, ok := h.Lecture(lectureID)
		if !ok {
			return ErrLectureNotFound
		}
		l.Students = append(l.Students, rec)

		swapped, err := c.swapLectures(ctx, userID, version, h.Lectures)
		if err != nil {
			return err
		}
		if swapped {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return errCASExhausted
}

func (c *PostgresClient) loadLectures(ctx context.Context, userID string) ([]models.LectureEntry, int64, error) {
	var (
		raw     []byte
		version int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT lectures, version FROM user_histories WHERE user_id = $1`, userID,
	).Scan(&raw, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	lectures, err := decodeLectures(raw)
	if err != nil {
		return nil, 0, err
	}
	return lectures, version, nil
}

// swapLectures writes lectures only if the row is still at version.
func (c *PostgresClient) swapLectures(ctx context.Context, userID string, version int64, lectures []models.LectureEntry) (bool, error) {
	out, err := json.Marshal(lectures)
	if err != nil {
		return false, fmt.Errorf("encode lectures: %w", err)
	}
	const q = `
		UPDATE user_histories
		SET lectures = $1::jsonb, version = version + 1, updated_at = now()
		WHERE user_id = $2 AND version = $3
	`
	res, err := c.db.ExecContext(ctx, q, string(out), userID, version)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *PostgresClient) GetUserHistory(ctx context.Context, userID string) (*models.UserHistory, error) {
	const q = `
		SELECT user_id, username, email, lectures
		FROM user_histories WHERE user_id = $1
	`
	var (
		h   models.UserHistory
		raw []byte
	)
	err := c.db.QueryRowContext(ctx, q, userID).Scan(&h.UserID, &h.Username, &h.Email, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if h.Lectures, err = decodeLectures(raw); err != nil {
		return nil, err
	}
	return &h, nil
}

func decodeLectures(raw []byte) ([]models.LectureEntry, error) {
	lectures := []models.LectureEntry{}
	if len(raw) == 0 {
		return lectures, nil
	}
	if err := json.Unmarshal(raw, &lectures); err != nil {
		return nil, fmt.Errorf("decode lectures: %w", err)
	}
	for i := range lectures {
		if lectures[i].Students == nil {
			lectures[i].Students = []models.StudentRecord{}
		}
	}
	return lectures, nil
}

// isUniqueViolation reports a unique_violation (23505) from Postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
