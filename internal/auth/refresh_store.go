package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrRefreshRevoked = errors.New("refresh token revoked")

// RefreshStore keeps the single live refresh token of each user.
type RefreshStore struct {
	rdb *redis.Client
}

func NewRefreshStore(rdb *redis.Client) *RefreshStore {
	return &RefreshStore{rdb: rdb}
}

func refreshKey(userID uint) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

func (s *RefreshStore) Save(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, refreshKey(userID), token, ttl).Err()
}

// consumeScript deletes the key only while it still holds the presented
// token, so a refresh token is spent at most once.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Consume spends token if it is the one currently stored for userID.
// Of two concurrent calls with the same token only one succeeds.
func (s *RefreshStore) Consume(ctx context.Context, userID uint, token string) error {
	n, err := consumeScript.Run(ctx, s.rdb, []string{refreshKey(userID)}, token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRefreshRevoked
	}
	return nil
}

func (s *RefreshStore) Revoke(ctx context.Context, userID uint) error {
	return s.rdb.Del(ctx, refreshKey(userID)).Err()
}

func newTokenID() string {
	return uuid.NewString()
}
