package app

import (
	"context"
	"math/rand"
	"slices"

	"github.com/google/uuid"

	"quizmania-service/internal/domain"
)

// QuestionService manages question content. Questions already graded in a score keep their content.
type QuestionService struct {
	questions QuestionRepository
	scores    ScoreRepository
	newID     func() string
	shuffle   func(answers []string)
}

func NewQuestionService(questions QuestionRepository, scores ScoreRepository) *QuestionService {
	return &QuestionService{
		questions: questions,
		scores:    scores,
		newID:     uuid.NewString,
		shuffle: func(answers []string) {
			rand.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
		},
	}
}

// AddQuestion stores a new question authored by the caller.
func (s *QuestionService) AddQuestion(ctx context.Context, caller *domain.Identity, draft domain.QuestionDraft) (domain.Question, error) {
	if caller == nil {
		return domain.Question{}, domain.ErrMissingIdentity
	}
	if err := validateStruct(draft); err != nil {
		return domain.Question{}, err
	}
	question := s.fromDraft(s.newID(), caller.UserID, draft)
	if err := s.questions.SaveQuestion(ctx, question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// GetQuestion returns a question by id.
func (s *QuestionService) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	return s.questions.GetQuestion(ctx, id)
}

// UpdateQuestion replaces the content of an existing question, keeping its id and author.
// Only the author or an admin may do so, and only while no score references the question.
func (s *QuestionService) UpdateQuestion(ctx context.Context, caller *domain.Identity, id string, draft domain.QuestionDraft) (domain.Question, error) {
	if err := validateStruct(draft); err != nil {
		return domain.Question{}, err
	}
	current, err := s.ownedQuestion(ctx, caller, id)
	if err != nil {
		return domain.Question{}, err
	}
	if sameContent(current, draft) {
		return current, nil
	}
	answered, err := s.scores.QuestionAnswered(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if answered {
		return domain.Question{}, domain.ErrQuestionInUse
	}

	updated := s.fromDraft(id, current.AuthorID, draft)
	if err := s.questions.SaveQuestion(ctx, updated); err != nil {
		return domain.Question{}, err
	}
	return updated, nil
}

// DeleteQuestion removes a question. Only the author or an admin may do so.
// Scores keep their own grading, so graded questions can still be deleted.
func (s *QuestionService) DeleteQuestion(ctx context.Context, caller *domain.Identity, id string) error {
	if _, err := s.ownedQuestion(ctx, caller, id); err != nil {
		return err
	}
	return s.questions.DeleteQuestion(ctx, id)
}

func (s *QuestionService) ownedQuestion(ctx context.Context, caller *domain.Identity, id string) (domain.Question, error) {
	if caller == nil {
		return domain.Question{}, domain.ErrMissingIdentity
	}
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if q.AuthorID != caller.UserID && !caller.IsAdmin() {
		return domain.Question{}, domain.ErrNotAuthor
	}
	return q, nil
}

func (s *QuestionService) fromDraft(id, authorID string, draft domain.QuestionDraft) domain.Question {
	answers := make([]string, 0, len(draft.BadAnswers)+1)
	answers = append(answers, draft.BadAnswers...)
	answers = append(answers, draft.CorrectAnswer)
	s.shuffle(answers)
	return domain.Question{
		ID:            id,
		Question:      draft.Question,
		Answers:       answers,
		CorrectAnswer: draft.CorrectAnswer,
		AuthorID:      authorID,
	}
}

// ToDraft splits a question back into its authoring form.
func ToDraft(q domain.Question) domain.QuestionDraft {
	bad := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a != q.CorrectAnswer {
			bad = append(bad, a)
		}
	}
	return domain.QuestionDraft{
		ID:            q.ID,
		Question:      q.Question,
		BadAnswers:    bad,
		CorrectAnswer: q.CorrectAnswer,
	}
}

// sameContent compares a stored question with a draft, ignoring answer order.
func sameContent(q domain.Question, draft domain.QuestionDraft) bool {
	if q.Question != draft.Question || q.CorrectAnswer != draft.CorrectAnswer {
		return false
	}
	stored := slices.Clone(ToDraft(q).BadAnswers)
	requested := slices.Clone(draft.BadAnswers)
	slices.Sort(stored)
	slices.Sort(requested)
	return slices.Equal(stored, requested)
}
