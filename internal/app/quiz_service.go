package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"quizmania-service/internal/domain"
)

// QuizService manages quizzes and the questions they reference.
type QuizService struct {
	quizzes   QuizRepository
	questions QuestionRepository
	newID     func() string
}

func NewQuizService(quizzes QuizRepository, questions QuestionRepository) *QuizService {
	return &QuizService{quizzes: quizzes, questions: questions, newID: uuid.NewString}
}

// AddQuiz stores a new quiz authored by the caller.
func (s *QuizService) AddQuiz(ctx context.Context, caller *domain.Identity, quiz domain.Quiz) (domain.Quiz, error) {
	if caller == nil {
		return domain.Quiz{}, domain.ErrMissingIdentity
	}
	if err := validateStruct(quiz); err != nil {
		return domain.Quiz{}, err
	}
	quiz.ID = s.newID()
	quiz.AuthorID = caller.UserID
	if err := s.quizzes.SaveQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// GetQuiz returns a quiz by id.
func (s *QuizService) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, id)
}

// GetQuizView returns a quiz restricted to the given fields (all fields when none are given).
func (s *QuizService) GetQuizView(ctx context.Context, id string, fields []string) (domain.QuizView, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return domain.QuizView{}, err
	}
	return domain.ProjectQuiz(quiz, fields)
}

// PublicQuizzes lists every public quiz.
func (s *QuizService) PublicQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.PublicQuizzes(ctx)
}

// UserQuizzes lists the quizzes authored by the caller, public or not.
func (s *QuizService) UserQuizzes(ctx context.Context, caller *domain.Identity) ([]domain.Quiz, error) {
	if caller == nil {
		return nil, domain.ErrMissingIdentity
	}
	return s.quizzes.QuizzesByAuthor(ctx, caller.UserID)
}

// QuizQuestions returns the quiz questions in quiz order, correct answers included.
func (s *QuizService) QuizQuestions(ctx context.Context, id string) ([]domain.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	questions := make([]domain.Question, 0, len(quiz.QuestionIDs))
	for _, qid := range quiz.QuestionIDs {
		q, err := s.questions.GetQuestion(ctx, qid)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// QuizQuestionDrafts returns the quiz questions in their editable form.
func (s *QuizService) QuizQuestionDrafts(ctx context.Context, id string) ([]domain.QuestionDraft, error) {
	questions, err := s.QuizQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	drafts := make([]domain.QuestionDraft, 0, len(questions))
	for _, q := range questions {
		drafts = append(drafts, ToDraft(q))
	}
	return drafts, nil
}

// UpdateQuiz replaces a quiz's content. Only the author or an admin may do so; the author is kept.
func (s *QuizService) UpdateQuiz(ctx context.Context, caller *domain.Identity, id string, update domain.Quiz) (domain.Quiz, error) {
	if err := validateStruct(update); err != nil {
		return domain.Quiz{}, err
	}
	current, err := s.ownedQuiz(ctx, caller, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	update.ID = current.ID
	update.AuthorID = current.AuthorID
	if reflect.DeepEqual(update, current) {
		return current, nil
	}
	if err := s.quizzes.SaveQuiz(ctx, update); err != nil {
		return domain.Quiz{}, err
	}
	return update, nil
}

// DeleteQuiz removes a quiz together with the questions its author wrote.
// Questions owned by someone else are left in place.
func (s *QuizService) DeleteQuiz(ctx context.Context, caller *domain.Identity, id string) error {
	quiz, err := s.ownedQuiz(ctx, caller, id)
	if err != nil {
		return err
	}
	for _, qid := range quiz.QuestionIDs {
		q, err := s.questions.GetQuestion(ctx, qid)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("load question %s: %w", qid, err)
		}
		if q.AuthorID != "" && q.AuthorID != quiz.AuthorID {
			continue
		}
		if err := s.questions.DeleteQuestion(ctx, qid); err != nil {
			return fmt.Errorf("delete question %s: %w", qid, err)
		}
	}
	return s.quizzes.DeleteQuiz(ctx, id)
}

func (s *QuizService) ownedQuiz(ctx context.Context, caller *domain.Identity, id string) (domain.Quiz, error) {
	if caller == nil {
		return domain.Quiz{}, domain.ErrMissingIdentity
	}
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.AuthorID != caller.UserID && !caller.IsAdmin() {
		return domain.Quiz{}, domain.ErrNotAuthor
	}
	return quiz, nil
}
