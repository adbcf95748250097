package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"games_library/internal/models"
	"games_library/internal/storage"

	"github.com/xeipuuv/gojsonschema"
)

const (
	KeyGames   = "games"
	KeyStats   = "userStats"
	KeyVersion = "data_version"
)

var (
	gamesSchema = mustSchema(`{
		"type": "array",
		"items": {"type": "object"}
	}`)
	statsSchema = mustSchema(`{
		"type": "object",
		"propertyNames": {"pattern": "^[0-9]+$"},
		"additionalProperties": {"type": "object"}
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

func checkShape(schema *gojsonschema.Schema, raw []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if !res.Valid() {
		var msgs []string
		for i, e := range res.Errors() {
			if i >= 5 {
				break
			}
			msgs = append(msgs, e.String())
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

func decodeGames(raw []byte) ([]models.Game, error) {
	if err := checkShape(gamesSchema, raw); err != nil {
		return nil, err
	}

	var games []models.Game
	if err := json.Unmarshal(raw, &games); err != nil {
		return nil, err
	}
	if games == nil {
		games = []models.Game{}
	}

	return games, nil
}

func decodeStats(raw []byte) (map[int64]models.GameStats, error) {
	if err := checkShape(statsSchema, raw); err != nil {
		return nil, err
	}

	var byKey map[string]models.GameStats
	if err := json.Unmarshal(raw, &byKey); err != nil {
		return nil, err
	}

	stats := make(map[int64]models.GameStats, len(byKey))
	for k, v := range byKey {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats key %q: %w", k, err)
		}
		stats[id] = v
	}

	return stats, nil
}

func encodeStats(stats map[int64]models.GameStats) map[string]models.GameStats {
	out := make(map[string]models.GameStats, len(stats))
	for id, s := range stats {
		out[strconv.FormatInt(id, 10)] = s
	}
	return out
}

// load fills the in-memory collections from the backend. It never fails:
// unreadable or malformed blobs are logged and replaced by the seed data.
func (l *Library) load(ctx context.Context) {
	l.checkVersion(ctx)

	var gamesStored, statsStored bool
	l.games, gamesStored = l.loadGames(ctx)
	l.stats, statsStored = l.loadStats(ctx)

	// Pruning against a fallback catalog would wipe stats that belong to
	// the unreadable one.
	if l.opts.PruneOrphans && gamesStored && statsStored {
		l.pruneOrphans(ctx)
	}
}

// checkVersion wipes the namespace when the stored marker differs from the
// configured schema version. No data is migrated.
func (l *Library) checkVersion(ctx context.Context) {
	const op = "library.checkVersion"

	want := strconv.Itoa(l.opts.SchemaVersion)

	raw, err := l.kv.Get(ctx, KeyVersion)
	switch {
	case err == nil && string(raw) == want:
		return
	case err == nil:
		l.log.Warn("schema version changed, discarding stored data",
			slog.String("operation", op),
			slog.String("stored", string(raw)),
			slog.String("current", want))
	case errors.Is(err, storage.ErrNotFound):
	default:
		l.log.Error("failed to read schema version",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return
	}

	if err := l.kv.Clear(ctx); err != nil {
		l.log.Error("failed to clear storage",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}

	if err := l.kv.Set(ctx, KeyVersion, []byte(want)); err != nil {
		l.log.Error("failed to write schema version",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
}

// loadGames reports whether the result was decoded from stored data.
func (l *Library) loadGames(ctx context.Context) ([]models.Game, bool) {
	const op = "library.loadGames"

	raw, err := l.kv.Get(ctx, KeyGames)
	if errors.Is(err, storage.ErrNotFound) {
		games := models.DefaultGames()
		l.save(ctx, KeyGames, games)
		return games, false
	}
	if err != nil {
		l.log.Error("failed to read games, using defaults",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return models.DefaultGames(), false
	}

	games, err := decodeGames(raw)
	if err != nil {
		l.log.Error("stored games are malformed, using defaults",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return models.DefaultGames(), false
	}

	return games, true
}

func (l *Library) loadStats(ctx context.Context) (map[int64]models.GameStats, bool) {
	const op = "library.loadStats"

	raw, err := l.kv.Get(ctx, KeyStats)
	if errors.Is(err, storage.ErrNotFound) {
		stats := models.DefaultStats()
		l.save(ctx, KeyStats, encodeStats(stats))
		return stats, false
	}
	if err != nil {
		l.log.Error("failed to read stats, using defaults",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return models.DefaultStats(), false
	}

	stats, err := decodeStats(raw)
	if err != nil {
		l.log.Error("stored stats are malformed, using defaults",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return models.DefaultStats(), false
	}

	return stats, true
}

func (l *Library) pruneOrphans(ctx context.Context) {
	known := make(map[int64]bool, len(l.games))
	for _, g := range l.games {
		known[g.ID] = true
	}

	var pruned []int64
	for id := range l.stats {
		if !known[id] {
			delete(l.stats, id)
			pruned = append(pruned, id)
		}
	}

	if len(pruned) == 0 {
		return
	}

	l.log.Warn("pruned stats without a catalog entry",
		slog.String("operation", "library.pruneOrphans"),
		slog.Any("ids", pruned))
	l.save(ctx, KeyStats, encodeStats(l.stats))
}

// save writes one blob. Failures, quota included, are logged and swallowed.
func (l *Library) save(ctx context.Context, key string, value any) {
	const op = "library.save"

	b, err := json.Marshal(value)
	if err != nil {
		l.log.Error("failed to encode",
			slog.String("operation", op),
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}

	if err := l.kv.Set(ctx, key, b); err != nil {
		l.log.Error("failed to save",
			slog.String("operation", op),
			slog.String("key", key),
			slog.Int("bytes", len(b)),
			slog.String("error", err.Error()))
	}
}
