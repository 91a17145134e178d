package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(cfg Config) http.Handler {
	api := NewAPI(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(api.logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: api.corsOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/banks", func(r chi.Router) {
		r.Get("/", api.HandleListBanks)
		r.Post("/", api.HandleCreateBank)
		r.Route("/{bankID}", func(r chi.Router) {
			r.Get("/", api.HandleGetBank)
			r.Put("/", api.HandleUpdateBank)
			r.Delete("/", api.HandleDeleteBank)

			r.Get("/questions", api.HandleListQuestions)
			r.Post("/questions", api.HandleCreateQuestion)
			r.Get("/questions/{questionID}", api.HandleGetQuestion)
			r.Put("/questions/{questionID}", api.HandleUpdateQuestion)
			r.Delete("/questions/{questionID}", api.HandleDeleteQuestion)

			r.Post("/import", api.HandleImport)
			r.Post("/quizzes", api.HandleStartQuiz)
		})
	})

	r.Route("/quizzes/{sessionID}", func(r chi.Router) {
		r.Get("/", api.HandleGetQuiz)
		r.Delete("/", api.HandleDeleteQuiz)
		r.Post("/events", api.HandleQuizEvent)
	})

	r.Get("/ws/banks", api.HandleWatchBanks)
	r.Get("/ws/banks/{bankID}/questions", api.HandleWatchQuestions)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return r
}

func (a *API) corsOrigins() []string {
	if len(a.origins) == 0 {
		return []string{"*"}
	}
	return a.origins
}

func (a *API) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range a.corsOrigins() {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
