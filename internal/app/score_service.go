package app

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"quizmania-service/internal/domain"
)

// ScoreService grades quiz attempts and serves stored scores.
type ScoreService struct {
	scores    ScoreRepository
	questions QuestionRepository
	quizzes   QuizRepository
	users     UserRepository
	newID     func() string
}

func NewScoreService(scores ScoreRepository, questions QuestionRepository, quizzes QuizRepository, users UserRepository) *ScoreService {
	return &ScoreService{
		scores:    scores,
		questions: questions,
		quizzes:   quizzes,
		users:     users,
		newID:     uuid.NewString,
	}
}

// SubmitScore grades a finished attempt and stores it. A nil caller records an anonymous attempt.
// Any unknown question aborts the whole submission before anything is written.
func (s *ScoreService) SubmitScore(ctx context.Context, caller *domain.Identity, submission domain.ScoreSubmission) (domain.Score, error) {
	if err := validateSubmission(submission); err != nil {
		return domain.Score{}, err
	}
	if _, err := s.quizzes.GetQuiz(ctx, submission.QuizID); err != nil {
		return domain.Score{}, err
	}

	score := domain.Score{
		QuizID:          submission.QuizID,
		StartDate:       submission.StartDate,
		EndDate:         submission.EndDate,
		ElapsedTimeInMs: submission.EndDate.Sub(submission.StartDate).Milliseconds(),
		UserAnswers:     make(map[string]string, len(submission.UserAnswers)),
	}
	if caller != nil {
		user, err := s.users.GetUser(ctx, caller.UserID)
		if err != nil {
			return domain.Score{}, err
		}
		score.UserID = user.ID
	}

	good := 0
	for questionID, answer := range submission.UserAnswers {
		question, err := s.questions.GetQuestion(ctx, questionID)
		if err != nil {
			return domain.Score{}, err
		}
		if answer == question.CorrectAnswer {
			good++
		}
		score.UserAnswers[questionID] = answer
	}
	score.GoodAnswers = good
	score.AllAnswers = len(submission.UserAnswers)
	score.PercentageScore = percentage(good, score.AllAnswers)

	score.ID = s.newID()
	if err := s.scores.SaveScore(ctx, score); err != nil {
		return domain.Score{}, fmt.Errorf("save score: %w", err)
	}
	return score, nil
}

// GetScore returns a stored score.
func (s *ScoreService) GetScore(ctx context.Context, id string) (domain.Score, error) {
	return s.scores.GetScore(ctx, id)
}

// ScoresByUser lists the caller's own scores.
func (s *ScoreService) ScoresByUser(ctx context.Context, caller *domain.Identity) ([]domain.Score, error) {
	if caller == nil {
		return nil, domain.ErrMissingIdentity
	}
	user, err := s.users.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.scores.ScoresByUser(ctx, user.ID)
}

// ScoresByQuiz lists every score recorded for a quiz.
func (s *ScoreService) ScoresByQuiz(ctx context.Context, quizID string) ([]domain.Score, error) {
	return s.scores.ScoresByQuiz(ctx, quizID)
}

func validateSubmission(submission domain.ScoreSubmission) error {
	if err := validateStruct(submission); err != nil {
		return err
	}
	if len(submission.UserAnswers) == 0 {
		return domain.ErrEmptySubmission
	}
	if submission.EndDate.Before(submission.StartDate) {
		return domain.ErrNegativeElapsed
	}
	return nil
}

// percentage returns good/all as 0..100 rounded half up to two decimals. all must be positive.
func percentage(good, all int) float64 {
	return math.Round(float64(good)/float64(all)*10000) / 100
}
