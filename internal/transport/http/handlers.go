package http

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"quizmania-service/internal/auth"
	"quizmania-service/internal/domain"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := decodeJSON(r, &reg); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.svc.Users.Register(r.Context(), reg); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusCreated, "User registered successfully, check your e-mail to confirm the account")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, err)
		return
	}
	token, err := h.svc.Users.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Users.ConfirmAccount(r.Context(), r.URL.Query().Get("token")); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Account confirmed")
}

func (h *Handler) sendPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Users.SendPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Password reset link sent")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
		domain.PasswordChange
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Users.ResetPassword(r.Context(), req.Token, req.PasswordChange); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Password changed")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Users.Me(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Users.DeleteUser(r.Context(), auth.IdentityFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Account deleted")
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var change domain.PasswordChange
	if err := decodeJSON(r, &change); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Users.UpdatePassword(r.Context(), auth.IdentityFrom(r.Context()), change); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Password changed")
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.ListUsers(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) levels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.DifficultyLevels())
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var draft domain.QuestionDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.svc.Questions.AddQuestion(r.Context(), auth.IdentityFrom(r.Context()), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Questions.GetQuestion(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var draft domain.QuestionDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, err)
		return
	}
	q, err := h.svc.Questions.UpdateQuestion(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("id"), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Questions.DeleteQuestion(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Question deleted")
}

func (h *Handler) addQuiz(w http.ResponseWriter, r *http.Request) {
	var quiz domain.Quiz
	if err := decodeJSON(r, &quiz); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.svc.Quizzes.AddQuiz(r.Context(), auth.IdentityFrom(r.Context()), quiz)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *Handler) userQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.svc.Quizzes.UserQuizzes(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) publicQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.svc.Quizzes.PublicQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Quizzes.GetQuizView(r.Context(), r.PathValue("id"), splitFields(r.URL.Query().Get("fields")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// quizQuestions serves full questions when toScore is set and editable drafts otherwise.
func (h *Handler) quizQuestions(w http.ResponseWriter, r *http.Request) {
	toScore, err := parseBool(r, "toScore")
	if err != nil {
		writeError(w, err)
		return
	}
	id := r.PathValue("id")
	if toScore {
		questions, err := h.svc.Quizzes.QuizQuestions(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, questions)
		return
	}
	drafts, err := h.svc.Quizzes.QuizQuestionDrafts(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	var quiz domain.Quiz
	if err := decodeJSON(r, &quiz); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.svc.Quizzes.UpdateQuiz(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("id"), quiz)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Quizzes.DeleteQuiz(r.Context(), auth.IdentityFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Quiz deleted")
}

// submitScore records an attempt, attributed to the caller when a token was sent,
// and pushes the new ranking to live subscribers.
func (h *Handler) submitScore(w http.ResponseWriter, r *http.Request) {
	var sub domain.ScoreSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, err)
		return
	}
	score, err := h.svc.Scores.SubmitScore(r.Context(), auth.IdentityFrom(r.Context()), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.svc.Feed != nil {
		if err := h.svc.Feed.Publish(r.Context(), score.QuizID); err != nil {
			log.Printf("publish ranking for quiz %s: %v", score.QuizID, err)
		}
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) getScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.svc.Scores.GetScore(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) userScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.svc.Scores.ScoresByUser(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	quizID, err := requiredQuery(r, "quizId")
	if err != nil {
		writeError(w, err)
		return
	}
	global, err := parseBool(r, "global")
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.svc.Statistics.QuizStatistics(r.Context(), auth.IdentityFrom(r.Context()), quizID, global)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ranking(w http.ResponseWriter, r *http.Request) {
	quizID, err := requiredQuery(r, "quizId")
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.svc.Statistics.QuizRanking(r.Context(), quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.Split(raw, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func parseBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidInput, name)
	}
	return v, nil
}

func requiredQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
	}
	return v, nil
}
