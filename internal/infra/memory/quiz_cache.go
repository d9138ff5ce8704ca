package memory

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizbot-service/internal/domain"
)

// QuizSource produces quizzes (the generator, typically).
type QuizSource interface {
	Generate(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error)
}

// QuizCache caches generated quizzes with a TTL so repeated requests for
// the same (topic, count, difficulty) skip the model round trip.
type QuizCache struct {
	source QuizSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(source QuizSource, ttl time.Duration) *QuizCache {
	return &QuizCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		cache:  make(map[string]cachedQuiz),
	}
}

func (c *QuizCache) Generate(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error) {
	key := CacheKey(spec)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.source.Generate(ctx, spec)
		if err != nil {
			return domain.Quiz{}, err
		}

		// A fallback quiz means generation degraded; caching it would pin
		// the placeholder for the whole TTL and block recovery. Serve it
		// once and let the next request re-ask the model.
		if quiz.Fallback {
			return quiz, nil
		}

		c.mu.Lock()
		c.cache[key] = cachedQuiz{
			quiz:      quiz,
			expiresAt: now.Add(ttlWithJitter(c.ttl)),
		}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// CacheKey normalizes a spec into a cache key.
func CacheKey(spec domain.QuizSpec) string {
	topic := strings.ToLower(strings.TrimSpace(spec.Topic))
	return topic + "|" + strconv.Itoa(spec.NumQuestions) + "|" + string(spec.Difficulty)
}

// ttlWithJitter adds up to 10% jitter to spread expirations.
func ttlWithJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitterMax := int64(ttl) / 10
	return ttl + time.Duration(rand.Int63n(jitterMax+1))
}
