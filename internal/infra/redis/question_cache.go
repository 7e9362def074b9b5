package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmania-service/internal/app"
	"quizmania-service/internal/domain"
)

// QuestionCache caches questions in Redis and falls back to the backing repository on a miss.
// Questions are stored as JSON: SET question:{id} {json} EX ttl
type QuestionCache struct {
	client  *redis.Client
	backing app.QuestionRepository
	ttl     time.Duration
	sf      singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, backing app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client:  client,
		backing: backing,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	if q, ok := c.cached(ctx, id); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Another caller may have filled it meanwhile.
		if q, ok := c.cached(ctx, id); ok {
			return q, nil
		}

		q, err := c.backing.GetQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		payload, err := json.Marshal(q)
		if err != nil {
			return domain.Question{}, fmt.Errorf("encode question: %w", err)
		}
		if err := c.client.Set(ctx, questionKey(id), payload, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("question cache fill %s: %v", id, err)
		}
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (c *QuestionCache) SaveQuestion(ctx context.Context, q domain.Question) error {
	if err := c.backing.SaveQuestion(ctx, q); err != nil {
		return err
	}
	return c.evict(ctx, q.ID)
}

func (c *QuestionCache) DeleteQuestion(ctx context.Context, id string) error {
	if err := c.backing.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	return c.evict(ctx, id)
}

func (c *QuestionCache) cached(ctx context.Context, id string) (domain.Question, bool) {
	payload, err := c.client.Get(ctx, questionKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("question cache read %s: %v", id, err)
		}
		return domain.Question{}, false
	}
	var q domain.Question
	if err := json.Unmarshal(payload, &q); err != nil {
		return domain.Question{}, false
	}
	return q, true
}

func (c *QuestionCache) evict(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, questionKey(id)).Err(); err != nil {
		return fmt.Errorf("evict question %s: %w", id, err)
	}
	return nil
}

func questionKey(id string) string {
	return "question:" + id
}

// ttlWithJitter returns 0 (no expiry) for a non-positive ttl.
func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
