// Package session persists browser sessions. Each session maps an opaque
// cookie ID to the backend-issued bearer token; this is the server-side
// equivalent of the token the SPA kept in browser local storage.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("session not found")

// Session is one stored browser session.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is a SQLite-backed session repository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (creating if needed) the session database at dbPath and
// runs pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run session migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create stores a new session for the given bearer token and returns it.
func (s *Store) Create(ctx context.Context, token string, ttl time.Duration) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Token, sess.CreatedAt.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	slog.InfoContext(ctx, "Session created", "session_id", sess.ID, "expires_at", sess.ExpiresAt)
	return sess, nil
}

// Get looks a session up by ID. Expired sessions are deleted on sight and
// reported as not found.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var (
		sess      Session
		createdAt int64
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, created_at, expires_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Token, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("select session: %w", err)
	}

	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	sess.ExpiresAt = time.Unix(expiresAt, 0).UTC()

	if !sess.ExpiresAt.After(s.now().UTC()) {
		if err := s.Delete(ctx, sess.ID); err != nil {
			slog.WarnContext(ctx, "Failed to prune expired session", "session_id", sess.ID, "error", err)
		}
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PruneExpired removes every expired session and returns how many went.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, s.now().UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned sessions: %w", err)
	}
	return n, nil
}
