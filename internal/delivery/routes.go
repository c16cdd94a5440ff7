package delivery

import (
	"net/http"

	"github.com/Vovarama1992/expert_reader/internal/prompts"
	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, hPrompts *prompts.Handler) {
	r.Route("/", func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		pr.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("pong"))
		})

		// --- промпты (только чтение) ---
		pr.Get("/prompts", hPrompts.List)
	})
}
