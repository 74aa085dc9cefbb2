// Package idempotency guards write endpoints against replayed requests
// using a redis SetNX lease keyed on the caller's Idempotency-Key header.
package idempotency

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Header is the request header carrying the caller-chosen key.
const Header = "Idempotency-Key"

// Seener reports whether a key has been used before, marking it used as a
// side effect.
type Seener interface {
	Seen(ctx context.Context, key string) (bool, error)
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, "idem:"+key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Middleware rejects a request whose Idempotency-Key has been seen within
// the store's TTL. Requests without the header pass through untouched; a
// store failure also passes the request through, since a degraded redis
// must not block writes.
func Middleware(log *slog.Logger, store Seener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(Header)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			seen, err := store.Seen(r.Context(), key)
			if err != nil {
				log.Warn("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"status":  http.StatusConflict,
					"error":   http.StatusText(http.StatusConflict),
					"message": "duplicate request: " + key,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
