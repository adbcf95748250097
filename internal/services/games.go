package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"sort"
	"strings"

	"games_library/internal/importer/steam"
	"games_library/internal/library"
	"games_library/internal/models"
	"games_library/internal/query"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("game not found")
	ErrExists     = errors.New("game already exists")
	ErrImageKind  = errors.New("unknown image kind")
)

// ImagesURLPrefix is where stored uploads are served from.
const ImagesURLPrefix = "/images/"

type ImageKind string

const (
	ImageBanner    ImageKind = "banner"
	ImageThumbnail ImageKind = "thumbnail"
)

// ValidationError carries one message per rejected form field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type Importer interface {
	Fetch(ctx context.Context, rawURL string) (*steam.Details, error)
}

type ImageStore interface {
	Store(image []byte) (string, error)
	DeleteImage(filename string) error
	Exists(filename string) bool
}

// CreateGameRequest is the add-game form: a new id plus its first stats.
type CreateGameRequest struct {
	ID           int64    `json:"id"`
	Achievements int      `json:"achievements"`
	HoursPlayed  float64  `json:"hoursPlayed"`
	Finished     bool     `json:"finished"`
	Score        *float64 `json:"score"`
	Review       string   `json:"review"`
}

type GameDetail struct {
	Game  models.Game       `json:"game"`
	Stats *models.GameStats `json:"stats"`
}

type Charts struct {
	Genres     []query.GenreCount `json:"genres"`
	Completion query.Completion   `json:"completion"`
	Prices     query.PriceBuckets `json:"prices"`
}

type GameService struct {
	lib      *library.Library
	importer Importer
	images   ImageStore
	log      *slog.Logger
}

// NewGameService wires the use cases over lib. importer and images may be
// nil; the operations needing them then fail.
func NewGameService(lib *library.Library, importer Importer, images ImageStore, log *slog.Logger) *GameService {
	return &GameService{
		lib:      lib,
		importer: importer,
		images:   images,
		log:      log,
	}
}

// List filters by title and sorts by name. An unknown order keeps catalog order.
func (s *GameService) List(search, order string) []models.Game {
	games := query.FilterByTitle(s.lib.Games().All(), search)
	return query.SortByName(games, query.ParseOrder(order))
}

func (s *GameService) GetByID(id int64) (*GameDetail, error) {
	const op = "services.games.GetByID"

	g, ok := s.lib.Games().Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	d := &GameDetail{Game: g}
	if st, ok := s.lib.Stats().Get(id); ok {
		d.Stats = &st
	}

	return d, nil
}

func (s *GameService) validateCreate(req CreateGameRequest) error {
	fields := map[string]string{}

	if req.ID <= 0 {
		fields["id"] = "must be a positive number"
	} else if _, ok := s.lib.Games().Get(req.ID); ok {
		fields["id"] = "a game with this id already exists"
	}
	if req.Achievements < 0 {
		fields["achievements"] = "must not be negative"
	}
	if req.HoursPlayed < 0 || math.IsNaN(req.HoursPlayed) || math.IsInf(req.HoursPlayed, 0) {
		fields["hoursPlayed"] = "must not be negative"
	}
	switch {
	case req.Score == nil:
		fields["score"] = "is required"
	case math.IsNaN(*req.Score) || *req.Score < 0 || *req.Score > 10:
		fields["score"] = "must be between 0 and 10"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create adds a placeholder entry "Game #<id>" with its first stats.
func (s *GameService) Create(req CreateGameRequest) (*GameDetail, error) {
	const op = "services.games.Create"

	if err := s.validateCreate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g := models.NewPlaceholderGame(req.ID, fmt.Sprintf("Game #%d", req.ID))
	st := models.GameStats{
		Achievements: req.Achievements,
		HoursPlayed:  req.HoursPlayed,
		Finished:     req.Finished,
		Score:        models.Float(*req.Score),
		Review:       req.Review,
	}

	if err := s.lib.AddGame(g, &st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapLibraryError(err))
	}

	s.log.Info("game added", slog.String("operation", op), slog.Int64("id", req.ID))

	return &GameDetail{Game: g, Stats: &st}, nil
}

// Import fills entry id from a Steam store page. An existing entry keeps its
// images and any field the page leaves empty; a new one starts from the
// placeholder.
func (s *GameService) Import(ctx context.Context, id int64, rawURL string) (*models.Game, error) {
	const op = "services.games.Import"

	if id <= 0 {
		return nil, fmt.Errorf("%s: %w", op, &ValidationError{Fields: map[string]string{"id": "must be a positive number"}})
	}
	if s.importer == nil {
		return nil, fmt.Errorf("%s: importer is not configured", op)
	}

	d, err := s.importer.Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, steam.ErrBadURL) {
			return nil, fmt.Errorf("%s: %w", op, &ValidationError{Fields: map[string]string{"url": err.Error()}})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	base, ok := s.lib.Games().Get(id)
	if !ok {
		base = models.NewPlaceholderGame(id, fmt.Sprintf("Game #%d", id))
	}
	g := d.Apply(base)

	if err := s.lib.Games().Put(g); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapLibraryError(err))
	}

	s.log.Info("game imported",
		slog.String("operation", op),
		slog.Int64("id", id),
		slog.String("url", d.URL))

	return &g, nil
}

// UpdateStats merges patch onto the stats of an existing entry.
func (s *GameService) UpdateStats(id int64, patch models.StatsPatch) (*models.GameStats, error) {
	const op = "services.games.UpdateStats"

	if _, ok := s.lib.Games().Get(id); !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err := validatePatch(patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.lib.UpdateGameStats(id, patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapLibraryError(err))
	}

	st, ok := s.lib.Stats().Get(id)
	if !ok {
		// detached library
		st = patch.Apply(models.GameStats{})
	}

	return &st, nil
}

func validatePatch(p models.StatsPatch) error {
	fields := map[string]string{}

	if p.Achievements != nil && *p.Achievements < 0 {
		fields["achievements"] = "must not be negative"
	}
	if p.HoursPlayed != nil && (*p.HoursPlayed < 0 || math.IsNaN(*p.HoursPlayed)) {
		fields["hoursPlayed"] = "must not be negative"
	}
	if p.Score != nil && (math.IsNaN(*p.Score) || *p.Score < 0 || *p.Score > 10) {
		fields["score"] = "must be between 0 and 10"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *GameService) DeleteStats(id int64) error {
	const op = "services.games.DeleteStats"

	if err := s.lib.DeleteGameStats(id); err != nil {
		return fmt.Errorf("%s: %w", op, mapLibraryError(err))
	}
	return nil
}

// Delete removes the entry, its stats and any uploaded images it used.
func (s *GameService) Delete(id int64) error {
	const op = "services.games.Delete"

	g, found := s.lib.Games().Get(id)

	if err := s.lib.DeleteGame(id); err != nil {
		return fmt.Errorf("%s: %w", op, mapLibraryError(err))
	}

	if found && !s.lib.Detached() {
		s.dropUpload(op, g.BannerImage)
		if g.Image != g.BannerImage {
			s.dropUpload(op, g.Image)
		}
	}

	return nil
}

func (s *GameService) Charts() Charts {
	games := s.lib.Games().All()

	return Charts{
		Genres:     query.GenreCounts(games),
		Completion: query.CompletionSummary(games, s.lib.Stats().All()),
		Prices:     query.CategorizeByPrice(games),
	}
}

// SetImage stores image as the banner or thumbnail of entry id and drops the
// upload it replaces.
func (s *GameService) SetImage(id int64, kind ImageKind, image []byte) (*models.Game, error) {
	const op = "services.games.SetImage"

	if kind != ImageBanner && kind != ImageThumbnail {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrImageKind, kind)
	}
	if s.images == nil {
		return nil, fmt.Errorf("%s: uploads are not configured", op)
	}

	g, ok := s.lib.Games().Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	name, err := s.images.Store(image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	url := ImagesURLPrefix + name
	var old string
	if kind == ImageBanner {
		old, g.BannerImage = g.BannerImage, url
	} else {
		old, g.Image = g.Image, url
	}

	if err := s.lib.Games().Put(g); err != nil {
		_ = s.images.DeleteImage(name)
		return nil, fmt.Errorf("%s: %w", op, mapLibraryError(err))
	}

	if old != g.BannerImage && old != g.Image {
		s.dropUpload(op, old)
	}

	return &g, nil
}

// dropUpload deletes a stored upload by its public url. Only names the
// image store generated are touched; seed images and remote urls stay.
func (s *GameService) dropUpload(op, url string) {
	if s.images == nil || !strings.HasPrefix(url, ImagesURLPrefix) {
		return
	}

	name := path.Base(url)
	if _, err := uuid.Parse(strings.TrimSuffix(name, path.Ext(name))); err != nil {
		return
	}
	if !s.images.Exists(name) {
		return
	}

	if err := s.images.DeleteImage(name); err != nil {
		s.log.Warn("failed to delete image",
			slog.String("operation", op),
			slog.String("file", name),
			slog.String("error", err.Error()))
	}
}

func mapLibraryError(err error) error {
	switch {
	case errors.Is(err, library.ErrExists):
		return fmt.Errorf("%w: %w", ErrExists, err)
	case errors.Is(err, library.ErrInvalidGame), errors.Is(err, library.ErrInvalidStats):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}
