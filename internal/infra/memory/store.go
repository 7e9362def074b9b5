package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"quizmania-service/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	s := &QuestionStore{questions: make(map[string]domain.Question)}
	for _, q := range seed {
		s.questions[q.ID] = cloneQuestion(q)
	}
	return s
}

func (s *QuestionStore) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s *QuestionStore) SaveQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *QuestionStore) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
	return nil
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Answers = slices.Clone(q.Answers)
	return q
}

// QuizStore is an in-memory implementation of app.QuizRepository.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
}

func NewQuizStore(seed ...domain.Quiz) *QuizStore {
	s := &QuizStore{quizzes: make(map[string]domain.Quiz)}
	for _, q := range seed {
		s.quizzes[q.ID] = cloneQuiz(q)
	}
	return s
}

func (s *QuizStore) GetQuiz(_ context.Context, id string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(q), nil
}

func (s *QuizStore) SaveQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	return nil
}

func (s *QuizStore) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quizzes, id)
	return nil
}

func (s *QuizStore) PublicQuizzes(_ context.Context) ([]domain.Quiz, error) {
	return s.filter(func(q domain.Quiz) bool { return q.IsPublic }), nil
}

func (s *QuizStore) QuizzesByAuthor(_ context.Context, authorID string) ([]domain.Quiz, error) {
	return s.filter(func(q domain.Quiz) bool { return q.AuthorID == authorID }), nil
}

func (s *QuizStore) filter(keep func(domain.Quiz) bool) []domain.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Quiz, 0)
	for _, q := range s.quizzes {
		if keep(q) {
			out = append(out, cloneQuiz(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	q.QuestionIDs = slices.Clone(q.QuestionIDs)
	return q
}

// ScoreStore is an in-memory implementation of app.ScoreRepository. Insertion order is kept.
type ScoreStore struct {
	mu     sync.RWMutex
	scores []domain.Score
	index  map[string]int
}

func NewScoreStore(seed ...domain.Score) *ScoreStore {
	s := &ScoreStore{index: make(map[string]int)}
	for _, score := range seed {
		_ = s.SaveScore(context.Background(), score)
	}
	return s
}

func (s *ScoreStore) SaveScore(_ context.Context, score domain.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	score = cloneScore(score)
	if i, ok := s.index[score.ID]; ok {
		s.scores[i] = score
		return nil
	}
	s.index[score.ID] = len(s.scores)
	s.scores = append(s.scores, score)
	return nil
}

func (s *ScoreStore) GetScore(_ context.Context, id string) (domain.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Score{}, domain.ErrScoreNotFound
	}
	return cloneScore(s.scores[i]), nil
}

func (s *ScoreStore) ScoresByQuiz(_ context.Context, quizID string) ([]domain.Score, error) {
	return s.filter(func(score domain.Score) bool { return score.QuizID == quizID }), nil
}

func (s *ScoreStore) ScoresByUser(_ context.Context, userID string) ([]domain.Score, error) {
	return s.filter(func(score domain.Score) bool { return score.UserID != "" && score.UserID == userID }), nil
}

func (s *ScoreStore) QuestionAnswered(_ context.Context, questionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, score := range s.scores {
		if _, ok := score.UserAnswers[questionID]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Len reports how many scores are stored.
func (s *ScoreStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores)
}

func (s *ScoreStore) filter(keep func(domain.Score) bool) []domain.Score {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Score, 0)
	for _, score := range s.scores {
		if keep(score) {
			out = append(out, cloneScore(score))
		}
	}
	return out
}

func cloneScore(score domain.Score) domain.Score {
	answers := make(map[string]string, len(score.UserAnswers))
	for k, v := range score.UserAnswers {
		answers[k] = v
	}
	score.UserAnswers = answers
	return score
}

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore(seed ...domain.User) *UserStore {
	s := &UserStore{users: make(map[string]domain.User)}
	for _, u := range seed {
		s.users[u.ID] = u
	}
	return s
}

func (s *UserStore) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	return s.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (domain.User, error) {
	return s.find(func(u domain.User) bool { return u.Username == username })
}

func (s *UserStore) CreateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *UserStore) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *UserStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *UserStore) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *UserStore) find(match func(domain.User) bool) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}
