package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"games_library/internal/models"
	"games_library/internal/services"
	"games_library/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGameService implements GameServicer.
type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) List(search, order string) []models.Game {
	return m.Called(search, order).Get(0).([]models.Game)
}

func (m *MockGameService) GetByID(id int64) (*services.GameDetail, error) {
	args := m.Called(id)
	d, _ := args.Get(0).(*services.GameDetail)
	return d, args.Error(1)
}

func (m *MockGameService) Create(req services.CreateGameRequest) (*services.GameDetail, error) {
	args := m.Called(req)
	d, _ := args.Get(0).(*services.GameDetail)
	return d, args.Error(1)
}

func (m *MockGameService) Import(ctx context.Context, id int64, rawURL string) (*models.Game, error) {
	args := m.Called(ctx, id, rawURL)
	g, _ := args.Get(0).(*models.Game)
	return g, args.Error(1)
}

func (m *MockGameService) UpdateStats(id int64, patch models.StatsPatch) (*models.GameStats, error) {
	args := m.Called(id, patch)
	st, _ := args.Get(0).(*models.GameStats)
	return st, args.Error(1)
}

func (m *MockGameService) DeleteStats(id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockGameService) Delete(id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockGameService) Charts() services.Charts {
	return m.Called().Get(0).(services.Charts)
}

func (m *MockGameService) SetImage(id int64, kind services.ImageKind, image []byte) (*models.Game, error) {
	args := m.Called(id, kind, image)
	g, _ := args.Get(0).(*models.Game)
	return g, args.Error(1)
}

func setupController() (http.Handler, *MockGameService) {
	mockService := &MockGameService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctrl := NewGameController(mockService, logger)

	r := chi.NewRouter()
	r.Get("/api/games", ctrl.GetAll)
	r.Post("/api/games", ctrl.Create)
	r.Post("/api/games/import", ctrl.Import)
	r.Get("/api/games/{id}", ctrl.GetByID)
	r.Delete("/api/games/{id}", ctrl.Delete)
	r.Put("/api/games/{id}/stats", ctrl.UpdateStats)
	r.Delete("/api/games/{id}/stats", ctrl.DeleteStats)
	r.Put("/api/games/{id}/images/{kind}", ctrl.SetImage)
	r.Get("/api/charts", ctrl.Charts)

	return r, mockService
}

func do(h http.Handler, method, target string, body []byte) *http.Response {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func TestGameController_GetAll(t *testing.T) {
	h, mockService := setupController()

	expectedGames := []models.Game{
		{ID: 2, Title: "Dark Souls III"},
		{ID: 1, Title: "Counter Strike 2"},
	}
	mockService.On("List", "souls", "desc").Return(expectedGames)

	resp := do(h, http.MethodGet, "/api/games?search=souls&order=desc", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var games []models.Game
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	assert.Equal(t, expectedGames, games)
	mockService.AssertExpectations(t)
}

func TestGameController_GetByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := setupController()

		expected := &services.GameDetail{
			Game:  models.Game{ID: 1, Title: "Test Game"},
			Stats: &models.GameStats{Score: models.Float(8)},
		}
		mockService.On("GetByID", int64(1)).Return(expected, nil)

		resp := do(h, http.MethodGet, "/api/games/1", nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got services.GameDetail
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, *expected, got)
	})

	t.Run("invalid id", func(t *testing.T) {
		h, mockService := setupController()

		for _, target := range []string{"/api/games/invalid", "/api/games/0", "/api/games/-3"} {
			resp := do(h, http.MethodGet, target, nil)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		}
		mockService.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		h, mockService := setupController()
		mockService.On("GetByID", int64(999)).Return(nil, services.ErrNotFound)

		resp := do(h, http.MethodGet, "/api/games/999", nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unexpected error", func(t *testing.T) {
		h, mockService := setupController()
		mockService.On("GetByID", int64(5)).Return(nil, errors.New("boom"))

		resp := do(h, http.MethodGet, "/api/games/5", nil)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestGameController_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := setupController()

		input := services.CreateGameRequest{ID: 6, Achievements: 2, Score: models.Float(9), Review: "nice"}
		expected := &services.GameDetail{Game: models.NewPlaceholderGame(6, "Game #6")}
		mockService.On("Create", input).Return(expected, nil)

		body, _ := json.Marshal(input)
		resp := do(h, http.MethodPost, "/api/games", body)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got services.GameDetail
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Game #6", got.Game.Title)
		mockService.AssertExpectations(t)
	})

	t.Run("invalid json", func(t *testing.T) {
		h, mockService := setupController()

		resp := do(h, http.MethodPost, "/api/games", []byte("invalid"))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("validation error", func(t *testing.T) {
		h, mockService := setupController()

		verr := &services.ValidationError{Fields: map[string]string{"score": "is required"}}
		mockService.On("Create", mock.Anything).Return(nil, verr)

		resp := do(h, http.MethodPost, "/api/games", []byte(`{"id":6}`))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var got errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "is required", got.Fields["score"])
	})

	t.Run("conflict", func(t *testing.T) {
		h, mockService := setupController()
		mockService.On("Create", mock.Anything).Return(nil, services.ErrExists)

		resp := do(h, http.MethodPost, "/api/games", []byte(`{"id":1,"score":3}`))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestGameController_Import(t *testing.T) {
	h, mockService := setupController()

	const url = "https://store.steampowered.com/app/1145360/Hades/"
	mockService.On("Import", mock.Anything, int64(7), url).Return(&models.Game{ID: 7, Title: "Hades"}, nil)

	body, _ := json.Marshal(ImportGameRequest{ID: 7, URL: url})
	resp := do(h, http.MethodPost, "/api/games/import", body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var g models.Game
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	assert.Equal(t, "Hades", g.Title)
	mockService.AssertExpectations(t)
}

func TestGameController_Delete(t *testing.T) {
	h, mockService := setupController()
	mockService.On("Delete", int64(1)).Return(nil)
	mockService.On("DeleteStats", int64(2)).Return(nil)

	resp := do(h, http.MethodDelete, "/api/games/1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(h, http.MethodDelete, "/api/games/2/stats", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockService.AssertExpectations(t)
}

func TestGameController_UpdateStats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := setupController()

		patch := models.StatsPatch{HoursPlayed: models.Float(12)}
		mockService.On("UpdateStats", int64(1), patch).
			Return(&models.GameStats{HoursPlayed: 12, Score: models.Float(8.5)}, nil)

		resp := do(h, http.MethodPut, "/api/games/1/stats", []byte(`{"hoursPlayed":12}`))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var st models.GameStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
		assert.Equal(t, 12.0, st.HoursPlayed)
		mockService.AssertExpectations(t)
	})

	t.Run("empty patch", func(t *testing.T) {
		h, mockService := setupController()

		resp := do(h, http.MethodPut, "/api/games/1/stats", []byte(`{}`))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertNotCalled(t, "UpdateStats", mock.Anything, mock.Anything)
	})

	t.Run("unknown game", func(t *testing.T) {
		h, mockService := setupController()
		mockService.On("UpdateStats", int64(9), mock.Anything).Return(nil, services.ErrNotFound)

		resp := do(h, http.MethodPut, "/api/games/9/stats", []byte(`{"score":1}`))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGameController_SetImage(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\nrest")

	t.Run("success", func(t *testing.T) {
		h, mockService := setupController()
		mockService.On("SetImage", int64(2), services.ImageBanner, image).
			Return(&models.Game{ID: 2, BannerImage: "/images/x.png"}, nil)

		resp := do(h, http.MethodPut, "/api/games/2/images/banner", image)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("not an image", func(t *testing.T) {
		h, mockService := setupController()
		mockService.On("SetImage", int64(2), services.ImageThumbnail, mock.Anything).
			Return(nil, uploads.ErrInvalidImage)

		resp := do(h, http.MethodPut, "/api/games/2/images/thumbnail", []byte("text"))
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGameController_Charts(t *testing.T) {
	h, mockService := setupController()

	charts := services.Charts{}
	charts.Completion.Completed = 2
	mockService.On("Charts").Return(charts)

	resp := do(h, http.MethodGet, "/api/charts", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got services.Charts
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2, got.Completion.Completed)
}
