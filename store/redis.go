package store

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	inventoryKey = "inventory"
	cartKey      = "cart"
)

// RedisStore keeps inventory and cart as two hashes of JSON rows keyed by id.
type RedisStore struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// NewRedisStore accepts either a redis:// URL or a plain host:port.
func NewRedisStore(addr string, log logrus.FieldLogger) *RedisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			PoolSize:     10,
		}
	}
	return &RedisStore{client: redis.NewClient(opts), log: log}
}

// Initialize pings the server with exponential backoff until it answers
// or attempts run out.
func (s *RedisStore) Initialize(ctx context.Context, attempts int) error {
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := s.client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			s.log.WithField("attempt", i+1).Info("redis store ready")
			return nil
		}

		backoff := time.Duration(1<<uint(i)) * 500 * time.Millisecond
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
		s.log.WithError(err).WithField("backoff", backoff).Warn("redis ping failed")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.Errorf("redis not reachable after %d attempts", attempts)
}

func (s *RedisStore) Close() error { return s.client.Close() }

func field(id int64) string { return strconv.FormatInt(id, 10) }

func (s *RedisStore) SeedInventory(ctx context.Context, rows []InventoryRow) error {
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if err := s.client.HSetNX(ctx, inventoryKey, field(r.ID), b).Err(); err != nil {
			return errors.Wrap(err, "redis HSETNX")
		}
	}
	return nil
}

func (s *RedisStore) ListInventory(ctx context.Context) ([]InventoryRow, error) {
	vals, err := s.client.HVals(ctx, inventoryKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis HVALS")
	}
	out := make([]InventoryRow, 0, len(vals))
	for _, v := range vals {
		var r InventoryRow
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, errors.Wrap(err, "decode inventory row")
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) ListCart(ctx context.Context) ([]CartRow, error) {
	vals, err := s.client.HVals(ctx, cartKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis HVALS")
	}
	out := make([]CartRow, 0, len(vals))
	for _, v := range vals {
		var r CartRow
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, errors.Wrap(err, "decode cart row")
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Cart writes run as scripts so each line is read and rewritten atomically
// on the server. Concurrent writers to different lines never conflict.
var (
	addCartScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if not cur then
  redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
  return ARGV[2]
end
local row = cjson.decode(cur)
row.amount = row.amount + tonumber(ARGV[3])
local out = cjson.encode(row)
redis.call('HSET', KEYS[1], ARGV[1], out)
return out
`)

	updateCartScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if not cur then
  return false
end
local row = cjson.decode(cur)
row.amount = tonumber(ARGV[2])
local out = cjson.encode(row)
redis.call('HSET', KEYS[1], ARGV[1], out)
return out
`)

	deleteCartScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if cur then
  redis.call('HDEL', KEYS[1], ARGV[1])
end
return cur
`)
)

// AddCartItem adds row, or its amount when the id is already in the cart.
func (s *RedisStore) AddCartItem(ctx context.Context, row CartRow) (CartRow, error) {
	if row.Amount <= 0 {
		return CartRow{}, errors.New("amount must be > 0")
	}
	b, err := json.Marshal(row)
	if err != nil {
		return CartRow{}, err
	}
	return s.runCart(ctx, addCartScript, row.ID, string(b), row.Amount)
}

func (s *RedisStore) UpdateCartAmount(ctx context.Context, id int64, amount int) (CartRow, error) {
	return s.runCart(ctx, updateCartScript, id, amount)
}

func (s *RedisStore) DeleteCartItem(ctx context.Context, id int64) (CartRow, error) {
	return s.runCart(ctx, deleteCartScript, id)
}

// runCart evaluates script against the line for id and decodes the row it
// returns. A nil reply means the line does not exist.
func (s *RedisStore) runCart(ctx context.Context, script *redis.Script, id int64, args ...interface{}) (CartRow, error) {
	argv := append([]interface{}{field(id)}, args...)
	val, err := script.Run(ctx, s.client, []string{cartKey}, argv...).Text()
	if err == redis.Nil {
		return CartRow{}, ErrNotFound
	}
	if err != nil {
		s.log.WithError(err).WithField("id", id).Debug("cart script failed")
		return CartRow{}, errors.Wrap(err, "redis cart script")
	}
	var out CartRow
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return CartRow{}, errors.Wrap(err, "decode cart row")
	}
	return out, nil
}
