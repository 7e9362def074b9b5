package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"quizmania-service/internal/app"
	"quizmania-service/internal/domain"
)

func TestComputeStatisticsEmpty(t *testing.T) {
	summary := app.ComputeStatistics(nil)
	if summary.AttemptsNumber != 0 || summary.AverageScore != 0 || summary.BestScore != 0 ||
		summary.WorstScore != 0 || summary.AverageTimeInMs != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if summary.Scores == nil || len(summary.Scores) != 0 {
		t.Fatalf("expected empty score list, got %v", summary.Scores)
	}
}

func TestComputeStatistics(t *testing.T) {
	summary := app.ComputeStatistics([]domain.Score{
		{ID: "s1", PercentageScore: 50, ElapsedTimeInMs: 10000},
		{ID: "s2", PercentageScore: 0, ElapsedTimeInMs: 15000},
	})
	if summary.AttemptsNumber != 2 || summary.AverageScore != 25 || summary.BestScore != 50 || summary.WorstScore != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.AverageTimeInMs != 12500 {
		t.Fatalf("expected 12500ms average, got %v", summary.AverageTimeInMs)
	}
	if len(summary.Scores) != 2 || summary.Scores[0].ID != "s1" || summary.Scores[1].ElapsedTime != 15000 {
		t.Fatalf("unexpected score views %+v", summary.Scores)
	}
}

func TestComputeStatisticsRoundsAverage(t *testing.T) {
	summary := app.ComputeStatistics([]domain.Score{
		{PercentageScore: 33.33}, {PercentageScore: 66.67}, {PercentageScore: 66.67},
	})
	if summary.AverageScore != 55.56 {
		t.Fatalf("expected 55.56, got %v", summary.AverageScore)
	}
}

func TestRankScoresTieBreaksOnTime(t *testing.T) {
	scores := []domain.Score{
		{ID: "slow", PercentageScore: 50, ElapsedTimeInMs: 12000},
		{ID: "fast", PercentageScore: 50, ElapsedTimeInMs: 10000},
		{ID: "best", PercentageScore: 100, ElapsedTimeInMs: 30000},
	}
	ranked := app.RankScores(scores)
	got := []string{ranked[0].ScoreID, ranked[1].ScoreID, ranked[2].ScoreID}
	if !reflect.DeepEqual(got, []string{"best", "fast", "slow"}) {
		t.Fatalf("unexpected order %v", got)
	}
	for i, e := range ranked {
		if e.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, e.Position)
		}
	}
	if scores[0].ID != "slow" {
		t.Fatalf("input was mutated: %+v", scores)
	}
}

func TestRankScoresIdempotent(t *testing.T) {
	scores := []domain.Score{
		{ID: "a", PercentageScore: 20, ElapsedTimeInMs: 5},
		{ID: "b", PercentageScore: 80, ElapsedTimeInMs: 7},
		{ID: "c", PercentageScore: 80, ElapsedTimeInMs: 7},
		{ID: "d", PercentageScore: 80, ElapsedTimeInMs: 3},
	}
	first := app.RankScores(scores)

	reordered := make([]domain.Score, 0, len(first))
	byID := map[string]domain.Score{}
	for _, s := range scores {
		byID[s.ID] = s
	}
	for _, e := range first {
		reordered = append(reordered, byID[e.ScoreID])
	}
	second := app.RankScores(reordered)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestQuizStatisticsGlobalAndPersonal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.mustSubmit(t, alice, map[string]string{"q1": "4", "q2": "Lyon"}, 10*time.Second)
	f.mustSubmit(t, bob, map[string]string{"q1": "4"}, 20*time.Second)

	global, err := f.stats.QuizStatistics(ctx, alice, "quiz-1", true)
	if err != nil {
		t.Fatalf("global statistics: %v", err)
	}
	if global.AttemptsNumber != 2 || global.BestScore != 100 || global.WorstScore != 50 || global.AverageScore != 75 {
		t.Fatalf("unexpected global summary %+v", global)
	}

	personal, err := f.stats.QuizStatistics(ctx, alice, "quiz-1", false)
	if err != nil {
		t.Fatalf("personal statistics: %v", err)
	}
	if personal.AttemptsNumber != 1 || personal.AverageScore != 50 {
		t.Fatalf("unexpected personal summary %+v", personal)
	}

	other, err := f.stats.QuizStatistics(ctx, alice, "quiz-2", false)
	if err != nil || other.AttemptsNumber != 0 {
		t.Fatalf("expected empty summary for another quiz, got %+v err=%v", other, err)
	}

	if _, err := f.stats.QuizStatistics(ctx, nil, "quiz-1", false); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestQuizRanking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.mustSubmit(t, alice, map[string]string{"q1": "4"}, 12*time.Second)
	f.mustSubmit(t, bob, map[string]string{"q1": "4"}, 10*time.Second)
	f.mustSubmit(t, nil, map[string]string{"q1": "3"}, time.Second)

	ranking, err := f.stats.QuizRanking(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(ranking) != 3 || ranking[0].UserID != "u2" || ranking[1].UserID != "u1" || ranking[2].PercentageScore != 0 {
		t.Fatalf("unexpected ranking %+v", ranking)
	}
}
