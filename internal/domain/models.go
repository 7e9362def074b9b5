package domain

import "time"

// DifficultyLevel grades how hard a quiz is.
type DifficultyLevel string

const (
	LevelEasy   DifficultyLevel = "EASY"
	LevelNormal DifficultyLevel = "NORMAL"
	LevelHard   DifficultyLevel = "HARD"
	LevelExpert DifficultyLevel = "EXPERT"
)

// DifficultyLevels lists the levels in ascending order.
func DifficultyLevels() []DifficultyLevel {
	return []DifficultyLevel{LevelEasy, LevelNormal, LevelHard, LevelExpert}
}

// Question models a single-answer question. CorrectAnswer is always one of Answers.
// Once a score references a question its content no longer changes.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correctAnswer"`
	AuthorID      string   `json:"authorId,omitempty"`
}

// QuestionDraft is the authoring form of a question.
type QuestionDraft struct {
	ID            string   `json:"id,omitempty"`
	Question      string   `json:"question" validate:"required"`
	BadAnswers    []string `json:"badAnswers" validate:"min=1,max=3,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// Quiz is an ordered collection of question references.
type Quiz struct {
	ID          string          `json:"id"`
	Title       string          `json:"title" validate:"required"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Level       DifficultyLevel `json:"level" validate:"required,oneof=EASY NORMAL HARD EXPERT"`
	IsPublic    bool            `json:"isPublic"`
	QuestionIDs []string        `json:"questionIds" validate:"min=1,dive,required"`
	AuthorID    string          `json:"authorId"`
}

// ScoreSubmission is a finished attempt as sent by a client.
type ScoreSubmission struct {
	QuizID      string            `json:"quizId" validate:"required"`
	StartDate   time.Time         `json:"startDate" validate:"required"`
	EndDate     time.Time         `json:"endDate" validate:"required"`
	UserAnswers map[string]string `json:"userAnswers"`
}

// Score is a graded quiz attempt. Scores are append-only.
type Score struct {
	ID              string            `json:"id"`
	QuizID          string            `json:"quizId"`
	UserID          string            `json:"userId,omitempty"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         time.Time         `json:"endDate"`
	ElapsedTimeInMs int64             `json:"elapsedTimeInMs"`
	UserAnswers     map[string]string `json:"userAnswers"`
	GoodAnswers     int               `json:"goodAnswers"`
	AllAnswers      int               `json:"allAnswers"`
	PercentageScore float64           `json:"percentageScore"`
}

// ScoreView is the per-attempt line of a statistics summary.
type ScoreView struct {
	ID              string    `json:"id"`
	ElapsedTime     int64     `json:"elapsedTime"`
	PercentageScore float64   `json:"percentageScore"`
	StartDate       time.Time `json:"startDate"`
}

// StatisticsSummary aggregates a set of scores. It is derived on demand and never stored.
type StatisticsSummary struct {
	AttemptsNumber  int         `json:"attemptsNumber"`
	AverageScore    float64     `json:"averageScore"`
	BestScore       float64     `json:"bestScore"`
	WorstScore      float64     `json:"worstScore"`
	AverageTimeInMs float64     `json:"averageTimeInMs"`
	Scores          []ScoreView `json:"scores"`
}

// RankedEntry is one row of a quiz ranking.
type RankedEntry struct {
	Position        int       `json:"position"`
	ScoreID         string    `json:"scoreId"`
	UserID          string    `json:"userId,omitempty"`
	ElapsedTime     int64     `json:"elapsedTime"`
	PercentageScore float64   `json:"percentageScore"`
	StartDate       time.Time `json:"startDate"`
}

// Ranking is a snapshot of a quiz ranking, as pushed to live subscribers.
type Ranking struct {
	QuizID    string        `json:"quizId"`
	Entries   []RankedEntry `json:"entries"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
