package redis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"pushnotify/adapters/session"
)

// Store 以 Redis hash 保存 session 資料，一個 session 對應一個 key
type Store struct {
	client  *redis.Client
	options storeOptions
}

type storeOptions struct {
	prefix string
	ttl    time.Duration
}

type StoreOption func(*storeOptions)

// WithStorePrefix 設定 key 前綴
func WithStorePrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		o.prefix = prefix
	}
}

// WithStoreTTL 設定每次儲存後的存活時間，0 表示不過期
func WithStoreTTL(ttl time.Duration) StoreOption {
	return func(o *storeOptions) {
		o.ttl = ttl
	}
}

var _ session.IStore = (*Store)(nil)

// NewStore 建立 Store
func NewStore(client *redis.Client, opts ...StoreOption) *Store {
	options := storeOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return &Store{client: client, options: options}
}

func (s *Store) key(id string) string {
	return s.options.prefix + id
}

// Load 讀取整個 hash，key 不存在時回傳空 map
func (s *Store) Load(ctx context.Context, id string) (map[string]string, error) {
	const op = "redis.Store.Load"
	result, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get hash: %w", op, err)
	}
	return result, nil
}

// Save 以 MULTI/EXEC 取代整個 hash，空資料等同刪除
func (s *Store) Save(ctx context.Context, id string, data map[string]string) error {
	const op = "redis.Store.Save"
	key := s.key(id)

	// 固定欄位順序，讓指令內容可預期
	fields := make([]string, 0, len(data))
	for k := range data {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	args := make([]any, 0, len(data)*2)
	for _, k := range fields {
		args = append(args, k, data[k])
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(args) == 0 {
			return nil
		}
		pipe.HSet(ctx, key, args...)
		if s.options.ttl > 0 {
			pipe.Expire(ctx, key, s.options.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: failed to replace hash: %w", op, err)
	}
	return nil
}
