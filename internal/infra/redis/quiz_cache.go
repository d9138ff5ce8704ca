package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizbot-service/internal/domain"
	"quizbot-service/internal/infra/memory"
)

// QuizSource produces quizzes (the generator, typically).
type QuizSource interface {
	Generate(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error)
}

// QuizCache caches generated quizzes in Redis as JSON under
// quiz:gen:{topic|count|difficulty} with a TTL, falling back to the source
// on cache miss. Session state stays in process memory; only generated
// quiz content is shared.
type QuizCache struct {
	client *redis.Client
	source QuizSource
	ttl    time.Duration
	sf     singleflight.Group
}

func NewQuizCache(client *redis.Client, source QuizSource, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

func (c *QuizCache) Generate(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error) {
	key := c.key(spec)

	if quiz, ok := c.lookup(ctx, key); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if quiz, ok := c.lookup(ctx, key); ok {
			return quiz, nil
		}

		quiz, err := c.source.Generate(ctx, spec)
		if err != nil {
			return domain.Quiz{}, err
		}

		// Never persist a fallback quiz: it would pin the degraded
		// placeholder for the whole TTL and block recovery on the next
		// request.
		if !quiz.Fallback {
			if data, err := json.Marshal(quiz); err == nil {
				// Best effort: a failed cache write must not fail generation.
				_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
			}
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (c *QuizCache) lookup(ctx context.Context, key string) (domain.Quiz, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *QuizCache) key(spec domain.QuizSpec) string {
	return "quiz:gen:" + memory.CacheKey(spec)
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
