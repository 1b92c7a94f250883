package routes

import (
	"net/http"
	"time"

	"scout/scout/controllers"
	"scout/scout/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Scrape *controllers.ScrapeController
	Health *controllers.HealthController
	Page   *controllers.PageController
}

// NewRouter mounts every API route behind the shared middleware stack.
func NewRouter(ctrls Controllers, origins []string, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", ctrls.Health.Root)
	r.Mount("/health", HealthRoutes(ctrls.Health))
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Timeout(timeout))
		gr.Mount("/page", PageRoutes(ctrls.Page))
		gr.Post("/scrape", scrapeHandler(ctrls.Scrape))
	})
	// The scrape websocket is long-lived and stays outside the timeout.
	r.HandleFunc("/scrape/ws", scrapeStreamHandler(ctrls.Scrape))
	return r
}
