package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"quizmania-service/internal/app"
	"quizmania-service/internal/auth"
	"quizmania-service/internal/domain"
)

// TokenVerifier resolves a bearer token to the caller it was issued for.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Users      *app.UserService
	Questions  *app.QuestionService
	Quizzes    *app.QuizService
	Scores     *app.ScoreService
	Statistics *app.StatisticsService
	Feed       *app.RankingFeed
	Tokens     TokenVerifier
}

type Handler struct {
	svc      Services
	policy   *cors.Cors
	upgrader websocket.Upgrader
}

// NewHandler builds the HTTP API. An empty origins list allows every origin.
// The same origin policy applies to REST calls and websocket upgrades.
func NewHandler(svc Services, origins []string) *Handler {
	h := &Handler{svc: svc, policy: newCORS(origins)}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Routes registers every endpoint on a fresh mux wrapped with CORS and authentication.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("GET /auth/confirmation", h.confirm)
	mux.HandleFunc("POST /auth/password/reset", h.sendPasswordReset)

	mux.HandleFunc("PUT /user/password/reset", h.resetPassword)
	mux.HandleFunc("GET /user/me", requireAuth(h.me))
	mux.HandleFunc("DELETE /user/me", requireAuth(h.deleteMe))
	mux.HandleFunc("PUT /user/me/password", requireAuth(h.updatePassword))
	mux.HandleFunc("GET /user", requireAuth(h.listUsers))

	mux.HandleFunc("GET /level", h.levels)

	mux.HandleFunc("POST /question", requireAuth(h.addQuestion))
	mux.HandleFunc("GET /question/{id}", h.getQuestion)
	mux.HandleFunc("PUT /question/{id}", requireAuth(h.updateQuestion))
	mux.HandleFunc("DELETE /question/{id}", requireAuth(h.deleteQuestion))

	mux.HandleFunc("POST /quiz", requireAuth(h.addQuiz))
	mux.HandleFunc("GET /quiz", requireAuth(h.userQuizzes))
	mux.HandleFunc("GET /quiz/all", h.publicQuizzes)
	mux.HandleFunc("GET /quiz/{id}", h.getQuiz)
	mux.HandleFunc("GET /quiz/{id}/question", h.quizQuestions)
	mux.HandleFunc("PUT /quiz/{id}", requireAuth(h.updateQuiz))
	mux.HandleFunc("DELETE /quiz/{id}", requireAuth(h.deleteQuiz))

	mux.HandleFunc("POST /score", h.submitScore)
	mux.HandleFunc("GET /score/{id}", h.getScore)
	mux.HandleFunc("GET /score", requireAuth(h.userScores))

	mux.HandleFunc("GET /statistics", requireAuth(h.statistics))
	mux.HandleFunc("GET /statistics/ranking", h.ranking)

	mux.HandleFunc("GET /ws/ranking", h.ServeRankingWS)

	return h.policy.Handler(h.authenticate(mux))
}

func newCORS(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
	}
	return cors.New(opts)
}

// checkOrigin admits non-browser clients, which send no Origin header, and browsers from allowed origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	if r.Header.Get("Origin") == "" {
		return true
	}
	return h.policy.OriginAllowed(r)
}

// authenticate resolves an optional bearer token. Requests without one continue anonymously;
// a token that fails verification is rejected.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, domain.ErrMissingIdentity)
			return
		}
		id, err := h.svc.Tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.IdentityFrom(r.Context()) == nil {
			writeError(w, domain.ErrMissingIdentity)
			return
		}
		next(w, r)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
