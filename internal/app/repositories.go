package app

import (
	"context"

	"quizmania-service/internal/domain"
)

// QuestionRepository stores questions (in-memory, Postgres, optionally behind a cache).
type QuestionRepository interface {
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	SaveQuestion(ctx context.Context, q domain.Question) error
	DeleteQuestion(ctx context.Context, id string) error
}

// QuizRepository stores quizzes.
type QuizRepository interface {
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
	PublicQuizzes(ctx context.Context) ([]domain.Quiz, error)
	QuizzesByAuthor(ctx context.Context, authorID string) ([]domain.Quiz, error)
}

// ScoreRepository stores scores. Scores are only ever inserted.
type ScoreRepository interface {
	SaveScore(ctx context.Context, score domain.Score) error
	GetScore(ctx context.Context, id string) (domain.Score, error)
	ScoresByQuiz(ctx context.Context, quizID string) ([]domain.Score, error)
	ScoresByUser(ctx context.Context, userID string) ([]domain.Score, error)
	// QuestionAnswered reports whether any stored score holds an answer to the question.
	QuestionAnswered(ctx context.Context, questionID string) (bool, error)
}

// UserRepository stores accounts. CreateUser enforces e-mail and username uniqueness.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// TokenRepository stores one-off confirmation tokens.
type TokenRepository interface {
	SaveToken(ctx context.Context, token domain.ConfirmationToken) error
	GetToken(ctx context.Context, token string) (domain.ConfirmationToken, error)
	DeleteToken(ctx context.Context, token string) error
}

// PasswordHasher is a one-way hash with verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}

// Mailer delivers e-mail.
type Mailer interface {
	Send(ctx context.Context, email domain.Email) error
}
