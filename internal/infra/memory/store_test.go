package memory

import (
	"context"
	"errors"
	"testing"

	"quizmania-service/internal/domain"
)

func TestUserStoreEnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(domain.User{ID: "u1", Email: "alice@example.com", Username: "alice"})

	if err := store.CreateUser(ctx, domain.User{ID: "u2", Email: "ALICE@example.com", Username: "other"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email conflict, got %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "u2", Email: "bob@example.com", Username: "alice"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected username conflict, got %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "u2", Email: "bob@example.com", Username: "bob"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u, err := store.FindByEmail(ctx, "bob@example.com"); err != nil || u.ID != "u2" {
		t.Fatalf("expected bob, got %+v err=%v", u, err)
	}
	if err := store.UpdateUser(ctx, domain.User{ID: "ghost"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestScoreStoreKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewScoreStore()
	for _, id := range []string{"s1", "s2", "s3"} {
		_ = store.SaveScore(ctx, domain.Score{ID: id, QuizID: "quiz-1", UserID: "u1"})
	}
	_ = store.SaveScore(ctx, domain.Score{ID: "anon", QuizID: "quiz-1"})

	byQuiz, _ := store.ScoresByQuiz(ctx, "quiz-1")
	if len(byQuiz) != 4 || byQuiz[0].ID != "s1" || byQuiz[3].ID != "anon" {
		t.Fatalf("unexpected order %+v", byQuiz)
	}
	byUser, _ := store.ScoresByUser(ctx, "")
	if len(byUser) != 0 {
		t.Fatalf("expected anonymous scores never listed by user, got %+v", byUser)
	}
	if _, err := store.GetScore(ctx, "missing"); !errors.Is(err, domain.ErrScoreNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuizStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore(domain.Quiz{ID: "quiz-1", QuestionIDs: []string{"q1"}, IsPublic: true})

	quiz, _ := store.GetQuiz(ctx, "quiz-1")
	quiz.QuestionIDs[0] = "changed"

	again, _ := store.GetQuiz(ctx, "quiz-1")
	if again.QuestionIDs[0] != "q1" {
		t.Fatalf("expected stored quiz untouched, got %+v", again)
	}
	public, _ := store.PublicQuizzes(ctx)
	if len(public) != 1 {
		t.Fatalf("expected one public quiz, got %d", len(public))
	}
}
