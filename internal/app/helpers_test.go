package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"quizmania-service/internal/app"
	"quizmania-service/internal/domain"
	"quizmania-service/internal/infra/memory"
)

type fixture struct {
	questions *memory.QuestionStore
	quizzes   *memory.QuizStore
	scores    *memory.ScoreStore
	users     *memory.UserStore

	scoreService *app.ScoreService
	stats        *app.StatisticsService
}

func newFixture() *fixture {
	f := &fixture{
		questions: memory.NewQuestionStore(
			domain.Question{ID: "q1", Question: "What is 2 + 2?", Answers: []string{"3", "4", "5"}, CorrectAnswer: "4", AuthorID: "u1"},
			domain.Question{ID: "q2", Question: "Capital of France?", Answers: []string{"Paris", "Lyon"}, CorrectAnswer: "Paris", AuthorID: "u1"},
			domain.Question{ID: "q3", Question: "Largest planet?", Answers: []string{"Mars", "Jupiter"}, CorrectAnswer: "Jupiter", AuthorID: "u1"},
		),
		quizzes: memory.NewQuizStore(domain.Quiz{
			ID:          "quiz-1",
			Title:       "General knowledge",
			Level:       domain.LevelEasy,
			IsPublic:    true,
			QuestionIDs: []string{"q1", "q2", "q3"},
			AuthorID:    "u1",
		}),
		scores: memory.NewScoreStore(),
		users: memory.NewUserStore(
			domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", Role: domain.RoleUser, Enabled: true},
			domain.User{ID: "u2", Email: "bob@example.com", Username: "bob", Role: domain.RoleUser, Enabled: true},
		),
	}
	f.scoreService = app.NewScoreService(f.scores, f.questions, f.quizzes, f.users)
	f.stats = app.NewStatisticsService(f.scoreService)
	return f
}

var (
	alice = &domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleUser}
	bob   = &domain.Identity{UserID: "u2", Username: "bob", Role: domain.RoleUser}
	admin = &domain.Identity{UserID: "admin", Username: "root", Role: domain.RoleAdmin}
)

func submission(answers map[string]string, elapsed time.Duration) domain.ScoreSubmission {
	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	return domain.ScoreSubmission{
		QuizID:      "quiz-1",
		StartDate:   start,
		EndDate:     start.Add(elapsed),
		UserAnswers: answers,
	}
}

// mustSubmit records an attempt on quiz-1 and fails the test if it is rejected.
func (f *fixture) mustSubmit(t *testing.T, caller *domain.Identity, answers map[string]string, elapsed time.Duration) domain.Score {
	t.Helper()
	score, err := f.scoreService.SubmitScore(context.Background(), caller, submission(answers, elapsed))
	if err != nil {
		t.Fatalf("submit %v: %v", answers, err)
	}
	return score
}

// plainHasher stands in for bcrypt to keep tests fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(hash, password string) bool { return hash == "hashed:"+password }

type stubIssuer struct{}

func (stubIssuer) Issue(user domain.User) (string, error) { return "token-for-" + user.ID, nil }

// recordingMailer keeps every message it is handed, including the ones it fails to deliver.
type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.Email
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, email domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	if m.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

// lastToken extracts the token query parameter from the most recent mail link.
func (m *recordingMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	content := m.sent[len(m.sent)-1].Content
	_, rest, ok := strings.Cut(content, "token=")
	if !ok {
		return ""
	}
	token, _, _ := strings.Cut(rest, `"`)
	return token
}
