package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterDeps struct {
	Handler *Handler

	// AllowedOrigins is the CORS allow-list; ["*"] in permissive setups.
	AllowedOrigins []string

	// StaticDir serves the browser attribution script under /static/ when
	// non-empty.
	StaticDir string
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Handler == nil {
		panic("rest.NewRouter: nil handler")
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Request ID + structured access log
	r.Use(RequestID)
	r.Use(HTTPLogger)

	// Panic recovery
	r.Use(middleware.Recoverer)

	// Cross-origin form submission: preflight is answered here, with the
	// origin echoed only when it is on the allow-list.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", d.Handler.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads/web", d.Handler.SubmitLead)
		r.Get("/leads", d.Handler.Dashboard)
	})

	if d.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
