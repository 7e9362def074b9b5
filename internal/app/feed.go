package app

import (
	"context"
	"sync"
	"time"

	"quizmania-service/internal/domain"
)

// RankingSource computes the current ranking of a quiz.
type RankingSource interface {
	QuizRanking(ctx context.Context, quizID string) ([]domain.RankedEntry, error)
}

// RankingFeed fans quiz rankings out to live subscribers.
type RankingFeed struct {
	source RankingSource
	now    func() time.Time

	mu     sync.Mutex
	topics map[string]map[chan domain.Ranking]struct{}
}

func NewRankingFeed(source RankingSource) *RankingFeed {
	return NewRankingFeedWithClock(source, time.Now)
}

// NewRankingFeedWithClock is test-only for deterministic timestamps.
func NewRankingFeedWithClock(source RankingSource, now func() time.Time) *RankingFeed {
	return &RankingFeed{
		source: source,
		now:    now,
		topics: make(map[string]map[chan domain.Ranking]struct{}),
	}
}

// Subscribe returns a channel that first receives the current ranking of the quiz and then every
// published update. The caller must invoke the returned cancel function to avoid leaks.
func (f *RankingFeed) Subscribe(ctx context.Context, quizID string) (<-chan domain.Ranking, func(), error) {
	initial, err := f.snapshot(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Ranking, 8)
	ch <- initial

	f.mu.Lock()
	subs, ok := f.topics[quizID]
	if !ok {
		subs = make(map[chan domain.Ranking]struct{})
		f.topics[quizID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs, ok := f.topics[quizID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(f.topics, quizID)
		}
	}
	return ch, cancel, nil
}

// Publish recomputes the ranking of a quiz and pushes it to its subscribers.
// Nothing is computed when nobody listens.
func (f *RankingFeed) Publish(ctx context.Context, quizID string) error {
	if f.Subscribers(quizID) == 0 {
		return nil
	}
	ranking, err := f.snapshot(ctx, quizID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.topics[quizID] {
		select {
		case ch <- ranking:
		default:
			// Drop the stale snapshot so a slow client never blocks the publisher.
			select {
			case <-ch:
			default:
			}
			ch <- ranking
		}
	}
	return nil
}

// Subscribers reports how many listeners a quiz has.
func (f *RankingFeed) Subscribers(quizID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.topics[quizID])
}

func (f *RankingFeed) snapshot(ctx context.Context, quizID string) (domain.Ranking, error) {
	entries, err := f.source.QuizRanking(ctx, quizID)
	if err != nil {
		return domain.Ranking{}, err
	}
	return domain.Ranking{QuizID: quizID, Entries: entries, UpdatedAt: f.now()}, nil
}
