package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizmania-service/internal/domain"
)

// QuestionStore keeps questions as JSONB documents.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	var q domain.Question
	if err := getDocument(ctx, s.pool, `SELECT data FROM questions WHERE id=$1`, id, &q); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Question{}, domain.ErrQuestionNotFound
		}
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (s *QuestionStore) SaveQuestion(ctx context.Context, q domain.Question) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO questions (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, q.ID, raw)
	if err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	return nil
}

func (s *QuestionStore) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// QuizStore keeps quizzes as JSONB documents with the author and visibility
// broken out into indexed columns.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := getDocument(ctx, s.pool, `SELECT data FROM quizzes WHERE id=$1`, id, &quiz); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (id, author_id, is_public, data) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET author_id = EXCLUDED.author_id, is_public = EXCLUDED.is_public, data = EXCLUDED.data, updated_at = now()`,
		quiz.ID, quiz.AuthorID, quiz.IsPublic, raw)
	if err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) PublicQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return listDocuments[domain.Quiz](ctx, s.pool, `SELECT data FROM quizzes WHERE is_public ORDER BY id`)
}

func (s *QuizStore) QuizzesByAuthor(ctx context.Context, authorID string) ([]domain.Quiz, error) {
	return listDocuments[domain.Quiz](ctx, s.pool, `SELECT data FROM quizzes WHERE author_id=$1 ORDER BY id`, authorID)
}

// ScoreStore appends scores as JSONB documents; listings keep recording order.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) SaveScore(ctx context.Context, score domain.Score) error {
	raw, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO scores (id, quiz_id, user_id, data) VALUES ($1, $2, $3, $4)`,
		score.ID, score.QuizID, score.UserID, raw)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (s *ScoreStore) GetScore(ctx context.Context, id string) (domain.Score, error) {
	var score domain.Score
	if err := getDocument(ctx, s.pool, `SELECT data FROM scores WHERE id=$1`, id, &score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Score{}, domain.ErrScoreNotFound
		}
		return domain.Score{}, fmt.Errorf("load score: %w", err)
	}
	return score, nil
}

func (s *ScoreStore) ScoresByQuiz(ctx context.Context, quizID string) ([]domain.Score, error) {
	return listDocuments[domain.Score](ctx, s.pool, `SELECT data FROM scores WHERE quiz_id=$1 ORDER BY recorded_at, id`, quizID)
}

func (s *ScoreStore) ScoresByUser(ctx context.Context, userID string) ([]domain.Score, error) {
	if userID == "" {
		return []domain.Score{}, nil
	}
	return listDocuments[domain.Score](ctx, s.pool, `SELECT data FROM scores WHERE user_id=$1 ORDER BY recorded_at, id`, userID)
}

func (s *ScoreStore) QuestionAnswered(ctx context.Context, questionID string) (bool, error) {
	var answered bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM scores WHERE data->'userAnswers' ? $1)`, questionID).
		Scan(&answered)
	if err != nil {
		return false, fmt.Errorf("check question %s answered: %w", questionID, err)
	}
	return answered, nil
}

func getDocument(ctx context.Context, pool *pgxpool.Pool, query, id string, dst any) error {
	var raw []byte
	if err := pool.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return nil
}

func listDocuments[T any](ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
