package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oa-lab/zaiseki/pkg/usecase"
	"github.com/oa-lab/zaiseki/pkg/utils/logging"
	"github.com/oa-lab/zaiseki/pkg/utils/safe"
)

// Server routes inbound webhook traffic
type Server struct {
	router *chi.Mux
}

// New builds the HTTP server. All /hooks/slack routes sit behind the
// signature middleware; nothing else touches the request before it.
func New(uc *usecase.UseCases, signingSecret string) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	interaction := NewSlackInteractionHandler(uc)

	r.Route("/hooks/slack", func(r chi.Router) {
		// Attached per endpoint, not per group: method matching must win
		// first so a non-POST gets 405 instead of a signature 400
		r.With(SlackSignatureMiddleware(signingSecret)).Post("/interaction", interaction.ServeHTTP)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, []byte("OK"))
	})

	return &Server{router: r}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs each HTTP request
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
