package constants

import "time"

// Redis key layout: xuni:{module}:{identifier...}

const (
	CACHE_PREFIX = "xuni"
)

const (
	CACHE_KEY_IDEMPOTENCY = CACHE_PREFIX + ":idempotency:" // + method:path:key
	CACHE_KEY_RATELIMIT   = CACHE_PREFIX + ":ratelimit:"   // + ip:class
)

const (
	TTL_IDEMPOTENCY_DEFAULT = 24 * time.Hour
)

// BuildIdempotencyKey returns the key a replayable response is stored under
func BuildIdempotencyKey(method, path, key string) string {
	return CACHE_KEY_IDEMPOTENCY + method + ":" + path + ":" + key
}

// BuildRateLimitKey returns the sliding-window key for a client and limit class
func BuildRateLimitKey(clientIP, class string) string {
	return CACHE_KEY_RATELIMIT + clientIP + ":" + class
}
