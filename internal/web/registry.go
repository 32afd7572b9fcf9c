package web

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justinabrahms/chessrules/internal/chess"
	"github.com/justinabrahms/chessrules/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrTooManyGames = errors.New("too many active games")
)

// Archive persists games so they outlive eviction and restarts.
// *store.Store satisfies it.
type Archive interface {
	Save(ctx context.Context, r store.Record) error
	Load(ctx context.Context, id string) (store.Record, error)
	List(ctx context.Context) ([]store.Record, error)
	Delete(ctx context.Context, id string) error
}

// entry is one live game. The game is only touched with mu held.
type entry struct {
	mu         sync.Mutex
	id         string
	game       *chess.GameState
	startFEN   string
	lastActive time.Time
	// dropped is set once the entry leaves the map. Holders of a dropped
	// entry must look the game up again.
	dropped bool
}

func (e *entry) record(now time.Time) store.Record {
	log := e.game.MoveLog()
	moves := make([]string, len(log))
	for i, m := range log {
		moves[i] = m.Notation()
	}
	return store.Record{ID: e.id, StartFEN: e.startFEN, Moves: moves, UpdatedAt: now}
}

// Registry holds the games served over HTTP.
type Registry struct {
	mu      sync.Mutex
	games   map[string]*entry
	archive Archive
	// restoreMu serializes loads from the archive so a stale record never
	// replaces a live entry.
	restoreMu sync.Mutex

	idleTimeout time.Duration
	maxGames    int
	now         func() time.Time
	logger      zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithArchive persists every change to a and restores unknown games from it.
func WithArchive(a Archive) RegistryOption {
	return func(r *Registry) {
		r.archive = a
	}
}

// WithIdleTimeout evicts games untouched for d. Zero disables eviction.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTimeout = d
	}
}

// WithMaxGames caps the number of games held in memory. Zero means no cap.
func WithMaxGames(n int) RegistryOption {
	return func(r *Registry) {
		r.maxGames = n
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		games:  make(map[string]*entry),
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a game from fen, or from the standard position when fen is
// empty, and returns its id.
func (r *Registry) Create(ctx context.Context, fen string) (string, error) {
	var (
		game *chess.GameState
		err  error
	)
	if fen == "" {
		game = chess.NewGame(chess.WithLogger(r.logger))
	} else {
		game, err = chess.ParseFEN(fen, chess.WithLogger(r.logger))
		if err != nil {
			return "", err
		}
	}

	e := &entry{
		id:         uuid.NewString(),
		game:       game,
		startFEN:   game.FEN(),
		lastActive: r.now(),
	}

	r.mu.Lock()
	if r.maxGames > 0 && len(r.games) >= r.maxGames {
		r.evictLocked(r.now())
	}
	if r.maxGames > 0 && len(r.games) >= r.maxGames {
		r.mu.Unlock()
		return "", ErrTooManyGames
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	r.games[e.id] = e
	r.mu.Unlock()

	if err := r.persist(ctx, e); err != nil {
		r.drop(e)
		return "", err
	}
	r.logger.Info().Str("gameId", e.id).Str("fen", e.startFEN).Msg("Game created")
	return e.id, nil
}

// View runs fn with exclusive access to the game. fn must not keep the
// pointer after returning.
func (r *Registry) View(ctx context.Context, id string, fn func(*chess.GameState) error) error {
	e, err := r.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	e.lastActive = r.now()
	return fn(e.game)
}

// Update is View for changes: when fn succeeds the game is persisted. If
// persisting fails the in-memory game is dropped, so the next access
// restores the last archived state and the change is lost.
func (r *Registry) Update(ctx context.Context, id string, fn func(*chess.GameState) error) error {
	e, err := r.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	e.lastActive = r.now()
	if err := fn(e.game); err != nil {
		return err
	}
	if err := r.persist(ctx, e); err != nil {
		r.drop(e)
		r.logger.Warn().Err(err).Str("gameId", id).Msg("Game dropped after failed save")
		return err
	}
	return nil
}

// Delete removes the game from memory and from the archive.
func (r *Registry) Delete(ctx context.Context, id string) error {
	e, err := r.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	r.restoreMu.Lock()
	defer r.restoreMu.Unlock()
	r.drop(e)
	if r.archive != nil {
		if err := r.archive.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete game %s: %w", id, err)
		}
	}
	r.logger.Info().Str("gameId", id).Msg("Game deleted")
	return nil
}

// IDs returns the ids of every game in memory or in the archive, sorted.
func (r *Registry) IDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	ids := maps.Keys(r.games)
	r.mu.Unlock()

	if r.archive != nil {
		records, err := r.archive.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list archived games: %w", err)
		}
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Len returns the number of games in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}

// Evict drops games idle for longer than the idle timeout and returns how
// many were dropped. Archived games can still be restored later.
func (r *Registry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictLocked(r.now())
}

func (r *Registry) evictLocked(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}
	evicted := 0
	for id, e := range r.games {
		// skip games in use
		if !e.mu.TryLock() {
			continue
		}
		idle := now.Sub(e.lastActive)
		if idle > r.idleTimeout {
			e.dropped = true
			delete(r.games, id)
			evicted++
			r.logger.Info().Str("gameId", id).Dur("idle", idle).Msg("Game evicted")
		}
		e.mu.Unlock()
	}
	return evicted
}

// Run evicts idle games periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(r.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				r.logger.Debug().Int("evicted", n).Int("remaining", r.Len()).Msg("Eviction pass")
			}
		}
	}
}

// acquire returns the entry for id with its lock held, retrying when the
// entry was dropped while the caller waited for the lock.
func (r *Registry) acquire(ctx context.Context, id string) (*entry, error) {
	for {
		e, err := r.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		if !e.dropped {
			return e, nil
		}
		e.mu.Unlock()
	}
}

// drop removes e from the map. e.mu must be held.
func (r *Registry) drop(e *entry) {
	e.dropped = true
	r.mu.Lock()
	if r.games[e.id] == e {
		delete(r.games, e.id)
	}
	r.mu.Unlock()
}

func (r *Registry) cached(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.games[id]
	return e, ok
}

func (r *Registry) lookup(ctx context.Context, id string) (*entry, error) {
	if e, ok := r.cached(id); ok {
		return e, nil
	}
	if r.archive == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}

	r.restoreMu.Lock()
	defer r.restoreMu.Unlock()
	// another request may have restored it while we waited
	if e, ok := r.cached(id); ok {
		return e, nil
	}
	rec, err := r.archive.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	restored, err := r.restore(rec)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[id] = restored
	r.logger.Info().Str("gameId", id).Int("moves", len(rec.Moves)).Msg("Game restored")
	return restored, nil
}

// restore rebuilds a game by replaying its move list from the start position.
func (r *Registry) restore(rec store.Record) (*entry, error) {
	game, err := chess.ParseFEN(rec.StartFEN, chess.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", rec.ID, err)
	}
	for i, n := range rec.Moves {
		if len(n) != 4 {
			return nil, fmt.Errorf("failed to restore game %s: bad move %q at ply %d", rec.ID, n, i)
		}
		if _, err := game.MakeMove(n[:2], n[2:]); err != nil {
			return nil, fmt.Errorf("failed to restore game %s at ply %d: %w", rec.ID, i, err)
		}
	}
	return &entry{
		id:         rec.ID,
		game:       game,
		startFEN:   rec.StartFEN,
		lastActive: r.now(),
	}, nil
}

func (r *Registry) persist(ctx context.Context, e *entry) error {
	if r.archive == nil {
		return nil
	}
	if err := r.archive.Save(ctx, e.record(r.now())); err != nil {
		return fmt.Errorf("failed to persist game %s: %w", e.id, err)
	}
	return nil
}
