package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quizmania-service/internal/app"
	"quizmania-service/internal/auth"
	"quizmania-service/internal/domain"
	"quizmania-service/internal/infra/memory"
)

type testEnv struct {
	server *httptest.Server
	jwt    *auth.JWT
	mailer *captureMailer
	users  *memory.UserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithOrigins(t, nil)
}

func newTestEnvWithOrigins(t *testing.T, origins []string) *testEnv {
	t.Helper()
	hasher := auth.NewBcrypt(bcrypt.MinCost)
	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	questions := memory.NewQuestionCache(memory.NewQuestionStore(
		domain.Question{ID: "q1", Question: "What is 2 + 2?", Answers: []string{"3", "4"}, CorrectAnswer: "4"},
		domain.Question{ID: "q2", Question: "Capital of France?", Answers: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris"},
	), time.Minute)
	quizzes := memory.NewQuizStore(domain.Quiz{
		ID: "quiz-1", Title: "General knowledge", Category: "misc", Level: domain.LevelEasy,
		IsPublic: true, QuestionIDs: []string{"q1", "q2"}, AuthorID: "u1",
	})
	users := memory.NewUserStore(
		domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", PasswordHash: hash, Role: domain.RoleUser, Enabled: true},
		domain.User{ID: "u2", Email: "bob@example.com", Username: "bob", PasswordHash: hash, Role: domain.RoleUser, Enabled: true},
	)
	scores := memory.NewScoreStore()
	jwt, err := auth.NewJWT("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	mailer := &captureMailer{}

	scoreService := app.NewScoreService(scores, questions, quizzes, users)
	stats := app.NewStatisticsService(scoreService)
	handler := NewHandler(Services{
		Users:      app.NewUserService(users, memory.NewTokenStore(), hasher, jwt, mailer, app.UserServiceConfig{AppURL: "http://localhost/auth"}),
		Questions:  app.NewQuestionService(questions, scores),
		Quizzes:    app.NewQuizService(quizzes, questions),
		Scores:     scoreService,
		Statistics: stats,
		Feed:       app.NewRankingFeed(stats),
		Tokens:     jwt,
	}, origins)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return &testEnv{server: server, jwt: jwt, mailer: mailer, users: users}
}

func (e *testEnv) tokenFor(t *testing.T, id string) string {
	t.Helper()
	u, err := e.users.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	token, err := e.jwt.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// do sends a request and returns the status and raw body.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func scoreBody(answers map[string]string, elapsed time.Duration) map[string]any {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	return map[string]any{
		"quizId":      "quiz-1",
		"startDate":   start,
		"endDate":     start.Add(elapsed),
		"userAnswers": answers,
	}
}

type captureMailer struct {
	mu   sync.Mutex
	last domain.Email
}

func (m *captureMailer) Send(_ context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = email
	return nil
}

func (m *captureMailer) token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, rest, _ := strings.Cut(m.last.Content, "token=")
	token, _, _ := strings.Cut(rest, `"`)
	return token
}
