package domain

import (
	"fmt"
	"strings"
)

// QuizView is a field-restricted rendering of a quiz. Nil fields are omitted from JSON.
type QuizView struct {
	ID          *string          `json:"id,omitempty"`
	Title       *string          `json:"title,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Level       *DifficultyLevel `json:"level,omitempty"`
	IsPublic    *bool            `json:"isPublic,omitempty"`
	QuestionIDs *[]string        `json:"questionIds,omitempty"`
	AuthorID    *string          `json:"authorId,omitempty"`
}

// QuizFields are the names accepted by ProjectQuiz.
var QuizFields = []string{"id", "title", "category", "description", "level", "isPublic", "questionIds", "authorId"}

// ProjectQuiz copies the named fields of q into a view. No fields means every field.
func ProjectQuiz(q Quiz, fields []string) (QuizView, error) {
	if len(fields) == 0 {
		fields = QuizFields
	}
	var v QuizView
	for _, f := range fields {
		switch strings.TrimSpace(f) {
		case "id":
			v.ID = &q.ID
		case "title":
			v.Title = &q.Title
		case "category":
			v.Category = &q.Category
		case "description":
			v.Description = &q.Description
		case "level":
			v.Level = &q.Level
		case "isPublic":
			v.IsPublic = &q.IsPublic
		case "questionIds":
			v.QuestionIDs = &q.QuestionIDs
		case "authorId":
			v.AuthorID = &q.AuthorID
		case "":
		default:
			return QuizView{}, fmt.Errorf("%w %q", ErrUnknownField, f)
		}
	}
	return v, nil
}
