package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"github.com/ymatsui/aical/internal/request"
)

const defaultRatelimitRate = "5-S"

// RateLimit returns middleware that uses ulule/limiter with an in-memory
// store. rateStr uses limiter's format, e.g. "5-S" or "100-M".
// Uses request.ClientIP for the limit key.
func RateLimit(rateStr string) (func(http.Handler) http.Handler, error) {
	return rateLimitWithStore(rateStr, memorystore.NewStore())
}

// RateLimitRedis returns middleware backed by Redis, for deployments with
// more than one API instance.
func RateLimitRedis(redisClient *redis.Client, rateStr string) (func(http.Handler) http.Handler, error) {
	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}
	return rateLimitWithStore(rateStr, store)
}

func rateLimitWithStore(rateStr string, store limiter.Store) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = defaultRatelimitRate
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
