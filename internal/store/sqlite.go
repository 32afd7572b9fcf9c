package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Load when no game has the requested id.
var ErrNotFound = errors.New("game not found")

// Record is the persisted form of a game: its starting position and the
// moves played from it, in coordinate notation.
type Record struct {
	ID        string
	StartFEN  string
	Moves     []string
	UpdatedAt time.Time
}

// Store keeps game records in a SQLite database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store operations.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Info().Str("path", path).Msg("Game store opened")
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			start_fen TEXT NOT NULL,
			moves TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Save inserts or replaces the record with r.ID.
func (s *Store) Save(ctx context.Context, r Record) error {
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, start_fen, moves, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_fen = excluded.start_fen,
			moves = excluded.moves,
			updated_at = excluded.updated_at
	`, r.ID, r.StartFEN, string(moves), r.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", r.ID, err)
	}

	s.logger.Debug().Str("gameId", r.ID).Int("moves", len(r.Moves)).Msg("Game saved")
	return nil
}

// Load returns the record for id, or ErrNotFound.
func (s *Store) Load(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, start_fen, moves, updated_at FROM games WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return r, nil
}

// List returns all records, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, start_fen, moves, updated_at FROM games ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return records, nil
}

// Delete removes the record for id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r       Record
		moves   string
		updated int64
	)
	if err := row.Scan(&r.ID, &r.StartFEN, &moves, &updated); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(moves), &r.Moves); err != nil {
		return Record{}, fmt.Errorf("corrupt move list: %w", err)
	}
	r.UpdatedAt = time.Unix(0, updated)
	return r, nil
}
