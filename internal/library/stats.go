package library

import (
	"fmt"
	"math"

	"games_library/internal/models"
)

// Stats is the observable id → GameStats map. Valid writes are saved and
// announced as statsUpdated once the debounce window passes.
type Stats struct {
	lib *Library
}

func validateStats(id int64, s models.GameStats) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be a positive integer, got %d", ErrInvalidStats, id)
	}
	if s.Score == nil {
		return fmt.Errorf("%w: score is required", ErrInvalidStats)
	}
	if math.IsNaN(*s.Score) || math.IsInf(*s.Score, 0) {
		return fmt.Errorf("%w: score must be a finite number", ErrInvalidStats)
	}
	return nil
}

// Set replaces the stats for id.
func (s *Stats) Set(id int64, stats models.GameStats) error {
	l := s.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("Stats.Set"); !ok {
		return err
	}

	return l.setStatsLocked(id, stats)
}

// Delete removes the stats for id and reports whether there were any.
func (s *Stats) Delete(id int64) (bool, error) {
	l := s.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("Stats.Delete"); !ok {
		return false, err
	}

	return l.deleteStatsLocked(id), nil
}

// Get returns the stats for id; ok is false when the game has none yet.
func (s *Stats) Get(id int64) (models.GameStats, bool) {
	l := s.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.stats[id]
	return st.Clone(), ok
}

// All returns a copy of every stats record.
func (s *Stats) All() map[int64]models.GameStats {
	l := s.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[int64]models.GameStats, len(l.stats))
	for id, st := range l.stats {
		out[id] = st.Clone()
	}
	return out
}

func (s *Stats) Len() int {
	l := s.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.stats)
}

func (l *Library) setStatsLocked(id int64, s models.GameStats) error {
	if err := validateStats(id, s); err != nil {
		return err
	}

	l.stats[id] = s.Clone()
	l.statsTask.Schedule()

	return nil
}

// deleteStatsLocked schedules a save even when id had no stats.
func (l *Library) deleteStatsLocked(id int64) bool {
	_, ok := l.stats[id]
	delete(l.stats, id)
	l.statsTask.Schedule()

	return ok
}
