package library

import (
	"fmt"
	"strings"

	"games_library/internal/models"
)

// Catalog is the observable list of games. Valid mutations are saved and
// announced as gamesUpdated once the debounce window passes.
type Catalog struct {
	lib *Library
}

func validateGame(g models.Game) error {
	if g.ID <= 0 {
		return fmt.Errorf("%w: id must be a positive integer, got %d", ErrInvalidGame, g.ID)
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGame)
	}
	return nil
}

// Append adds g at the end. Id uniqueness is not checked here; see Library.AddGame.
func (c *Catalog) Append(g models.Game) error {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("Catalog.Append"); !ok {
		return err
	}
	if err := validateGame(g); err != nil {
		return err
	}

	l.games = append(l.games, g.Clone())
	l.gamesTask.Schedule()

	return nil
}

// Put stores g in place of the first entry with the same id, or appends it.
func (c *Catalog) Put(g models.Game) error {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("Catalog.Put"); !ok {
		return err
	}
	if err := validateGame(g); err != nil {
		return err
	}

	if i := l.indexLocked(g.ID); i >= 0 {
		l.games[i] = g.Clone()
	} else {
		l.games = append(l.games, g.Clone())
	}
	l.gamesTask.Schedule()

	return nil
}

// Remove deletes the first entry with id and reports whether one was found.
// Stats are left alone; Library.DeleteGame removes both.
func (c *Catalog) Remove(id int64) (bool, error) {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("Catalog.Remove"); !ok {
		return false, err
	}

	return l.removeGameLocked(id), nil
}

// Truncate keeps the first n entries.
func (c *Catalog) Truncate(n int) error {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	if ok, err := l.writable("Catalog.Truncate"); !ok {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrInvalidGame, n)
	}
	if n >= len(l.games) {
		return nil
	}

	l.games = l.games[:n:n]
	l.gamesTask.Schedule()

	return nil
}

// All returns a copy of the catalog in stored order.
func (c *Catalog) All() []models.Game {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.gamesSnapshotLocked()
}

func (c *Catalog) Get(id int64) (models.Game, bool) {
	return c.Find(func(g models.Game) bool { return g.ID == id })
}

// Find returns the first entry matching pred.
func (c *Catalog) Find(pred func(models.Game) bool) (models.Game, bool) {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, g := range l.games {
		if pred(g) {
			return g.Clone(), true
		}
	}
	return models.Game{}, false
}

func (c *Catalog) Len() int {
	l := c.lib
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.games)
}

// Each calls fn for every entry in order until fn returns false. fn gets
// copies and must not call back into the library.
func (c *Catalog) Each(fn func(models.Game) bool) {
	for _, g := range c.All() {
		if !fn(g) {
			return
		}
	}
}

func (l *Library) indexLocked(id int64) int {
	for i, g := range l.games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (l *Library) removeGameLocked(id int64) bool {
	i := l.indexLocked(id)
	if i < 0 {
		return false
	}

	l.games = append(l.games[:i:i], l.games[i+1:]...)
	l.gamesTask.Schedule()

	return true
}
