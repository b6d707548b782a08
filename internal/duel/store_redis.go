package duel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// redisStore keeps sessions as JSON values with a TTL, plus one set of
// live ids backing List. The TTL is the reclamation rule for finished and
// abandoned sessions; it is not a recovery mechanism.
type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to redisURL (redis:// or rediss://) and verifies
// the connection with a ping.
func NewRedisStore(ctx context.Context, redisURL string) (Store, error) {
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{rdb: rdb}, nil
}

// NewRedisStoreFromClient wraps an existing client; used by tests.
func NewRedisStoreFromClient(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func sessionKey(id string) string { return "duel:session:" + strings.TrimSpace(id) }

const lobbyKey = "duel:lobby"

func (r *redisStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(s.ID), raw, sessionTTL).Err(); err != nil {
		return err
	}
	if err := r.rdb.SAdd(ctx, lobbyKey, s.ID).Err(); err != nil {
		return err
	}
	return r.rdb.Expire(ctx, lobbyKey, sessionTTL).Err()
}

func (r *redisStore) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return err
	}
	return r.rdb.SRem(ctx, lobbyKey, id).Err()
}

func (r *redisStore) List(ctx context.Context) ([]*Session, error) {
	ids, err := r.rdb.SMembers(ctx, lobbyKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			// session value expired; prune the stale lobby entry
			_ = r.rdb.SRem(ctx, lobbyKey, id).Err()
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
