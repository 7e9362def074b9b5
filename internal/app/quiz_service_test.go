package app_test

import (
	"context"
	"errors"
	"testing"

	"quizmania-service/internal/app"
	"quizmania-service/internal/domain"
)

func newQuizService(f *fixture) *app.QuizService {
	return app.NewQuizService(f.quizzes, f.questions)
}

func TestAddQuizSetsAuthor(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)
	ctx := context.Background()

	quiz, err := service.AddQuiz(ctx, bob, domain.Quiz{
		ID:          "ignored",
		Title:       "Bob's quiz",
		Level:       domain.LevelHard,
		QuestionIDs: []string{"q1"},
		AuthorID:    "someone-else",
	})
	if err != nil {
		t.Fatalf("add quiz: %v", err)
	}
	if quiz.ID == "ignored" || quiz.ID == "" || quiz.AuthorID != "u2" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	own, err := service.UserQuizzes(ctx, bob)
	if err != nil || len(own) != 1 || own[0].ID != quiz.ID {
		t.Fatalf("expected bob's quiz in own listing, got %+v err=%v", own, err)
	}
	public, _ := service.PublicQuizzes(ctx)
	if len(public) != 1 || public[0].ID != "quiz-1" {
		t.Fatalf("expected only the public quiz, got %+v", public)
	}
}

func TestAddQuizValidates(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)
	ctx := context.Background()

	if _, err := service.AddQuiz(ctx, nil, domain.Quiz{Title: "x", Level: domain.LevelEasy, QuestionIDs: []string{"q1"}}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := service.AddQuiz(ctx, alice, domain.Quiz{Title: "x", Level: "IMPOSSIBLE", QuestionIDs: []string{"q1"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid level rejected, got %v", err)
	}
	if _, err := service.AddQuiz(ctx, alice, domain.Quiz{Title: "x", Level: domain.LevelEasy}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected empty question list rejected, got %v", err)
	}
}

func TestGetQuizViewProjectsFields(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)

	view, err := service.GetQuizView(context.Background(), "quiz-1", []string{"title", "level"})
	if err != nil {
		t.Fatalf("get view: %v", err)
	}
	if view.Title == nil || *view.Title != "General knowledge" || view.Level == nil {
		t.Fatalf("expected title and level, got %+v", view)
	}
	if view.ID != nil || view.QuestionIDs != nil || view.AuthorID != nil {
		t.Fatalf("expected other fields omitted, got %+v", view)
	}

	if _, err := service.GetQuizView(context.Background(), "quiz-1", []string{"secret"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown field rejected, got %v", err)
	}
}

func TestQuizQuestionsInOrder(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)

	questions, err := service.QuizQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("quiz questions: %v", err)
	}
	if len(questions) != 3 || questions[0].ID != "q1" || questions[2].ID != "q3" {
		t.Fatalf("unexpected questions %+v", questions)
	}

	drafts, err := service.QuizQuestionDrafts(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("quiz drafts: %v", err)
	}
	if len(drafts) != 3 || drafts[1].CorrectAnswer != "Paris" || len(drafts[1].BadAnswers) != 1 {
		t.Fatalf("unexpected drafts %+v", drafts)
	}
}

func TestUpdateQuizRequiresAuthorOrAdmin(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)
	ctx := context.Background()

	current, _ := service.GetQuiz(ctx, "quiz-1")
	update := current
	update.Title = "Renamed"

	if _, err := service.UpdateQuiz(ctx, bob, "quiz-1", update); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-author, got %v", err)
	}

	updated, err := service.UpdateQuiz(ctx, alice, "quiz-1", update)
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Title != "Renamed" || updated.AuthorID != "u1" || updated.ID != "quiz-1" {
		t.Fatalf("unexpected update %+v", updated)
	}

	update.Title = "Admin edit"
	update.AuthorID = "admin"
	updated, err = service.UpdateQuiz(ctx, admin, "quiz-1", update)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.AuthorID != "u1" {
		t.Fatalf("expected author kept, got %q", updated.AuthorID)
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)
	ctx := context.Background()

	if err := service.DeleteQuiz(ctx, bob, "quiz-1"); !errors.Is(err, domain.ErrNotAuthor) {
		t.Fatalf("expected not author, got %v", err)
	}
	if err := service.DeleteQuiz(ctx, alice, "quiz-1"); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if _, err := service.GetQuiz(ctx, "quiz-1"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz gone, got %v", err)
	}
	if _, err := f.questions.GetQuestion(ctx, "q2"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected questions removed with the quiz, got %v", err)
	}
}

func TestDeleteQuizKeepsForeignQuestions(t *testing.T) {
	f := newFixture()
	service := newQuizService(f)
	ctx := context.Background()

	if err := f.questions.SaveQuestion(ctx, domain.Question{
		ID: "q3", Question: "Largest planet?", Answers: []string{"Mars", "Jupiter"}, CorrectAnswer: "Jupiter", AuthorID: "u2",
	}); err != nil {
		t.Fatalf("reassign question: %v", err)
	}
	if err := service.DeleteQuiz(ctx, alice, "quiz-1"); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if _, err := f.questions.GetQuestion(ctx, "q1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected own question removed, got %v", err)
	}
	if _, err := f.questions.GetQuestion(ctx, "q3"); err != nil {
		t.Fatalf("expected question of another author kept, got %v", err)
	}
}
