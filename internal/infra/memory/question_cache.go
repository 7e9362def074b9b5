package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizmania-service/internal/app"
	"quizmania-service/internal/domain"
)

// QuestionCache is a read-through TTL cache in front of a question repository.
// Writes go to the backing repository and evict the cached entry. A non-positive ttl keeps entries until evicted.
type QuestionCache struct {
	backing app.QuestionRepository
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuestion
}

// cachedQuestion never expires when expiresAt is zero.
type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionCache(backing app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		backing: backing,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedQuestion),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	if q, ok := c.lookup(id); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		if q, ok := c.lookup(id); ok {
			return q, nil
		}

		q, err := c.backing.GetQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		c.mu.Lock()
		entry := cachedQuestion{question: cloneQuestion(q)}
		if ttl := c.ttlWithJitterLocked(); ttl > 0 {
			entry.expiresAt = c.clock().Add(ttl)
		}
		c.cache[id] = entry
		c.mu.Unlock()
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
	c.evict(q.ID)
	return nil
}

func (c *QuestionCache) DeleteQuestion(ctx context.Context, id string) error {
	if err := c.backing.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	c.evict(id)
	return nil
}

func (c *QuestionCache) lookup(id string) (domain.Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[id]
	if !ok || (!entry.expiresAt.IsZero() && !entry.expiresAt.After(c.clock())) {
		return domain.Question{}, false
	}
	return cloneQuestion(entry.question), true
}

func (c *QuestionCache) evict(id string) {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
}

// ttlWithJitterLocked adds up to 10% jitter to spread expirations and returns 0 (no expiry)
// for a non-positive ttl. Callers hold mu.
func (c *QuestionCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
