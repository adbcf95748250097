package routes

import (
	"log/slog"
	"net/http"

	"games_library/internal/controllers"
	"games_library/internal/library"
	"games_library/internal/middleware"
	"games_library/internal/services"
	"games_library/internal/storage/uploads"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func SetupRouter(
	log *slog.Logger,
	lib *library.Library,
	importer services.Importer,
	images *uploads.Uploads,
	allowRemote bool,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.LoopbackOnly(log, allowRemote))

	var store services.ImageStore
	if images != nil {
		store = images
	}

	gameService := services.NewGameService(lib, importer, store, log)
	gameController := controllers.NewGameController(gameService, log)
	eventsController := controllers.NewEventsController(lib, log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Get("/", gameController.GetAll)
			r.Post("/", gameController.Create)
			r.Post("/import", gameController.Import)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", gameController.GetByID)
				r.Delete("/", gameController.Delete)
				r.Put("/stats", gameController.UpdateStats)
				r.Delete("/stats", gameController.DeleteStats)
				r.Put("/images/{kind}", gameController.SetImage)
			})
		})
		r.Get("/charts", gameController.Charts)
		r.Get("/events", eventsController.Stream)
	})

	if images != nil {
		r.Handle("/images/*", http.StripPrefix(services.ImagesURLPrefix, http.FileServer(http.Dir(images.Dir()))))
	}

	return r
}
