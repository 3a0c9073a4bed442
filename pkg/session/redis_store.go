package session

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

func sessionKey(accountID int64) string {
	return "user:session:" + strconv.FormatInt(accountID, 10)
}

// RedisStore keeps sessions as redis hashes with a TTL matching the cookie
// lifetime.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	key := sessionKey(sess.AccountID)
	fields := map[string]any{
		"account_id": sess.AccountID,
		"sid":        sess.SID,
		"remember":   sess.Remember,
		"created_at": sess.CreatedAt.Format(time.RFC3339Nano),
	}
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, accountID int64) (*Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(accountID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	sess := &Session{AccountID: accountID, SID: data["sid"]}
	sess.Remember, _ = strconv.ParseBool(data["remember"])
	if t, perr := time.Parse(time.RFC3339Nano, data["created_at"]); perr == nil {
		sess.CreatedAt = t
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, accountID int64) error {
	return s.rdb.Del(ctx, sessionKey(accountID)).Err()
}

var _ Store = (*RedisStore)(nil)
