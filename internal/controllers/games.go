package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"games_library/internal/models"
	"games_library/internal/services"
	"games_library/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
)

type GameServicer interface {
	List(search, order string) []models.Game
	GetByID(id int64) (*services.GameDetail, error)
	Create(req services.CreateGameRequest) (*services.GameDetail, error)
	Import(ctx context.Context, id int64, rawURL string) (*models.Game, error)
	UpdateStats(id int64, patch models.StatsPatch) (*models.GameStats, error)
	DeleteStats(id int64) error
	Delete(id int64) error
	Charts() services.Charts
	SetImage(id int64, kind services.ImageKind, image []byte) (*models.Game, error)
}

type ImportGameRequest struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type GameController struct {
	service GameServicer
	log     *slog.Logger
}

func NewGameController(s GameServicer, log *slog.Logger) *GameController {
	return &GameController{
		service: s,
		log:     log,
	}
}

// GetAll lists the catalog. Query: search (title substring), order (asc|desc).
func (c *GameController) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	games := c.service.List(q.Get("search"), q.Get("order"))

	writeJSON(w, c.log, http.StatusOK, games)
}

func (c *GameController) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.GetByID"

	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := c.service.GetByID(id)
	if err != nil {
		writeError(w, c.log, op, err, ErrGetGames)
		return
	}

	writeJSON(w, c.log, http.StatusOK, res)
}

func (c *GameController) Create(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Create"

	var req services.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.log.Debug(ErrBadRequest.Error(), slog.String("operation", op), slog.String("error", err.Error()))
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	res, err := c.service.Create(req)
	if err != nil {
		writeError(w, c.log, op, err, ErrCreate)
		return
	}

	writeJSON(w, c.log, http.StatusCreated, res)
}

func (c *GameController) Import(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Import"

	var req ImportGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}

	g, err := c.service.Import(r.Context(), req.ID, req.URL)
	if err != nil {
		writeError(w, c.log, op, err, ErrImport)
		return
	}

	writeJSON(w, c.log, http.StatusOK, g)
}

func (c *GameController) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.Delete"

	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := c.service.Delete(id); err != nil {
		writeError(w, c.log, op, err, ErrDelete)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStats merges the JSON body onto the stats of the game.
func (c *GameController) UpdateStats(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.UpdateStats"

	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var patch models.StatsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, ErrBadRequest.Error(), http.StatusBadRequest)
		return
	}
	if patch.Empty() {
		http.Error(w, "empty patch", http.StatusBadRequest)
		return
	}

	st, err := c.service.UpdateStats(id, patch)
	if err != nil {
		writeError(w, c.log, op, err, ErrUpdate)
		return
	}

	writeJSON(w, c.log, http.StatusOK, st)
}

func (c *GameController) DeleteStats(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.DeleteStats"

	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := c.service.DeleteStats(id); err != nil {
		writeError(w, c.log, op, err, ErrDelete)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetImage takes the raw image as the request body.
func (c *GameController) SetImage(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.games.SetImage"

	id, err := parseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, uploads.MaxImageSize))
	if err != nil {
		http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
		return
	}

	g, err := c.service.SetImage(id, services.ImageKind(chi.URLParam(r, "kind")), body)
	if err != nil {
		writeError(w, c.log, op, err, ErrUpload)
		return
	}

	writeJSON(w, c.log, http.StatusOK, g)
}

func (c *GameController) Charts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.log, http.StatusOK, c.service.Charts())
}
