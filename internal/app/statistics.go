package app

import (
	"context"
	"math"
	"sort"

	"quizmania-service/internal/domain"
)

// ComputeStatistics reduces scores to a summary. An empty slice yields a zero-valued summary.
func ComputeStatistics(scores []domain.Score) domain.StatisticsSummary {
	summary := domain.StatisticsSummary{
		AttemptsNumber: len(scores),
		Scores:         make([]domain.ScoreView, 0, len(scores)),
	}
	if len(scores) == 0 {
		return summary
	}

	var sumScore float64
	var sumTime int64
	best, worst := scores[0].PercentageScore, scores[0].PercentageScore
	for _, s := range scores {
		sumScore += s.PercentageScore
		sumTime += s.ElapsedTimeInMs
		best = math.Max(best, s.PercentageScore)
		worst = math.Min(worst, s.PercentageScore)
		summary.Scores = append(summary.Scores, domain.ScoreView{
			ID:              s.ID,
			ElapsedTime:     s.ElapsedTimeInMs,
			PercentageScore: s.PercentageScore,
			StartDate:       s.StartDate,
		})
	}
	count := float64(len(scores))
	summary.AverageScore = math.Round(sumScore/count*100) / 100
	summary.BestScore = best
	summary.WorstScore = worst
	summary.AverageTimeInMs = float64(sumTime) / count
	return summary
}

// RankScores orders attempts by percentage (desc), then elapsed time (asc). The input is not modified.
func RankScores(scores []domain.Score) []domain.RankedEntry {
	ordered := make([]domain.Score, len(scores))
	copy(ordered, scores)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PercentageScore != ordered[j].PercentageScore {
			return ordered[i].PercentageScore > ordered[j].PercentageScore
		}
		return ordered[i].ElapsedTimeInMs < ordered[j].ElapsedTimeInMs
	})

	entries := make([]domain.RankedEntry, 0, len(ordered))
	for i, s := range ordered {
		entries = append(entries, domain.RankedEntry{
			Position:        i + 1,
			ScoreID:         s.ID,
			UserID:          s.UserID,
			ElapsedTime:     s.ElapsedTimeInMs,
			PercentageScore: s.PercentageScore,
			StartDate:       s.StartDate,
		})
	}
	return entries
}

// StatisticsService selects the scores a statistics request is about and aggregates them.
type StatisticsService struct {
	scores *ScoreService
}

func NewStatisticsService(scores *ScoreService) *StatisticsService {
	return &StatisticsService{scores: scores}
}

// QuizStatistics summarizes every attempt of a quiz (global) or only the caller's attempts.
func (s *StatisticsService) QuizStatistics(ctx context.Context, caller *domain.Identity, quizID string, global bool) (domain.StatisticsSummary, error) {
	if global {
		scores, err := s.scores.ScoresByQuiz(ctx, quizID)
		if err != nil {
			return domain.StatisticsSummary{}, err
		}
		return ComputeStatistics(scores), nil
	}

	own, err := s.scores.ScoresByUser(ctx, caller)
	if err != nil {
		return domain.StatisticsSummary{}, err
	}
	filtered := own[:0:0]
	for _, score := range own {
		if score.QuizID == quizID {
			filtered = append(filtered, score)
		}
	}
	return ComputeStatistics(filtered), nil
}

// QuizRanking ranks every attempt of a quiz.
func (s *StatisticsService) QuizRanking(ctx context.Context, quizID string) ([]domain.RankedEntry, error) {
	scores, err := s.scores.ScoresByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return RankScores(scores), nil
}
