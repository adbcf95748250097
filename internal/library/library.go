// Package library keeps the game catalog and the per-game stats in memory,
// mirrors every change into a key-value backend and tells subscribers about it.
package library

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"games_library/internal/models"
	"games_library/internal/storage"
)

const DefaultDebounce = 100 * time.Millisecond

type Options struct {
	SchemaVersion int
	// Debounce is the quiet period before a change is written.
	Debounce time.Duration
	// PruneOrphans drops, on load, stats whose id has no catalog entry.
	PruneOrphans bool
}

type Library struct {
	mu    sync.Mutex
	kv    storage.KV
	log   *slog.Logger
	opts  Options
	games []models.Game
	stats map[int64]models.GameStats

	closed bool

	catalog   *Catalog
	userStats *Stats
	events    *notifier
	gamesTask *debouncer
	statsTask *debouncer
}

// New builds a library over kv. A nil kv gives a detached library: it serves
// the seed data and ignores mutations with a warning.
func New(kv storage.KV, log *slog.Logger, opts Options) *Library {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.SchemaVersion < 1 {
		opts.SchemaVersion = 1
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	l := &Library{
		kv:     kv,
		log:    log,
		opts:   opts,
		games:  []models.Game{},
		stats:  map[int64]models.GameStats{},
		events: newNotifier(),
	}
	l.catalog = &Catalog{lib: l}
	l.userStats = &Stats{lib: l}
	l.gamesTask = newDebouncer(opts.Debounce, l.persistGames)
	l.statsTask = newDebouncer(opts.Debounce, l.persistStats)

	return l
}

// Load reads both collections. It is called once before use; storage faults
// fall back to the seed data and are only logged.
func (l *Library) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.kv == nil {
		l.games = models.DefaultGames()
		l.stats = models.DefaultStats()
		l.log.Info("library is detached, changes will not be saved")
	} else {
		l.load(ctx)
	}

	l.log.Debug("library loaded",
		slog.Int("games", len(l.games)),
		slog.Int("stats", len(l.stats)))
}

// Detached reports whether the library has no backend.
func (l *Library) Detached() bool {
	return l.kv == nil
}

func (l *Library) Games() *Catalog {
	return l.catalog
}

func (l *Library) Stats() *Stats {
	return l.userStats
}

// Subscribe delivers the given events (all when none are given) until the
// returned cancel func is called or the library is closed.
func (l *Library) Subscribe(events ...Event) (<-chan Event, func()) {
	return l.events.subscribe(events...)
}

// Flush writes pending changes now instead of waiting for the debounce window.
func (l *Library) Flush() {
	l.gamesTask.Flush()
	l.statsTask.Flush()
}

// Close flushes pending writes and closes every subscription. The backend
// stays open; its owner closes it.
func (l *Library) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.Flush()
	l.gamesTask.Stop()
	l.statsTask.Stop()
	l.events.close()

	return nil
}

// DeleteGame removes the first entry with id and, whether or not one was
// found, the stats for id.
func (l *Library) DeleteGame(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("DeleteGame"); !ok {
		return err
	}

	l.removeGameLocked(id)
	l.deleteStatsLocked(id)

	return nil
}

// UpdateGameStats merges patch onto the current stats for id (or onto an
// empty record) and stores the result as one assignment.
func (l *Library) UpdateGameStats(id int64, patch models.StatsPatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("UpdateGameStats"); !ok {
		return err
	}

	merged := patch.Apply(l.stats[id])
	return l.setStatsLocked(id, merged)
}

func (l *Library) DeleteGameStats(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("DeleteGameStats"); !ok {
		return err
	}

	l.deleteStatsLocked(id)
	return nil
}

// AddGame appends g, and stats when given, after checking that the id is
// not taken. Nothing is stored if any check fails.
func (l *Library) AddGame(g models.Game, stats *models.GameStats) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("AddGame"); !ok {
		return err
	}

	if err := validateGame(g); err != nil {
		return err
	}
	if stats != nil {
		if err := validateStats(g.ID, *stats); err != nil {
			return err
		}
	}
	if l.indexLocked(g.ID) >= 0 {
		return ErrExists
	}

	l.games = append(l.games, g.Clone())
	l.gamesTask.Schedule()

	if stats != nil {
		l.stats[g.ID] = stats.Clone()
		l.statsTask.Schedule()
	}

	return nil
}

// writable reports whether a mutation may proceed. After Close it fails with
// ErrClosed; a detached library rejects it with a warning and a nil error.
func (l *Library) writable(op string) (bool, error) {
	if l.closed {
		return false, ErrClosed
	}
	if l.kv == nil {
		l.log.Warn("library is detached, mutation ignored", slog.String("operation", op))
		return false, nil
	}
	return true, nil
}

func (l *Library) persistGames() {
	l.mu.Lock()
	if l.kv != nil {
		l.save(context.Background(), KeyGames, l.gamesSnapshotLocked())
	}
	l.mu.Unlock()

	l.events.publish(EventGamesUpdated)
}

func (l *Library) persistStats() {
	l.mu.Lock()
	if l.kv != nil {
		l.save(context.Background(), KeyStats, encodeStats(l.stats))
	}
	l.mu.Unlock()

	l.events.publish(EventStatsUpdated)
}

func (l *Library) gamesSnapshotLocked() []models.Game {
	out := make([]models.Game, len(l.games))
	for i, g := range l.games {
		out[i] = g.Clone()
	}
	return out
}
