package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pushnotify/adapters/sse"
)

type supplierOptions struct {
	logger  *slog.Logger
	timeout time.Duration
}

type SupplierOption func(*supplierOptions)

// WithSupplierLogger 設置日誌記錄器
func WithSupplierLogger(logger *slog.Logger) SupplierOption {
	return func(o *supplierOptions) {
		o.logger = logger
	}
}

// WithSupplierTimeout 設置每次讀取儲存層的逾時時間
func WithSupplierTimeout(d time.Duration) SupplierOption {
	return func(o *supplierOptions) {
		o.timeout = d
	}
}

// Supplier 從 session 讀取憑證。
// 每次 Lookup 都重新載入 session，因此登出或換發權杖後會立即生效。
type Supplier struct {
	store   IStore
	id      string
	logger  *slog.Logger
	options supplierOptions
}

var _ sse.ICredentialSupplier = (*Supplier)(nil)

// NewSupplier 建立讀取指定 session 的憑證來源
func NewSupplier(store IStore, id string, opts ...SupplierOption) (*Supplier, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}

	// 默認選項
	options := supplierOptions{
		logger:  slog.Default(),
		timeout: 3 * time.Second,
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	return &Supplier{
		store:   store,
		id:      id,
		logger:  options.logger.With(slog.String("caller", "SessionSupplier"), slog.String("sessionId", id)),
		options: options,
	}, nil
}

// Lookup 載入 session 並取得 key 對應的值，載入失敗或值為空時視為不存在
func (s *Supplier) Lookup(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.options.timeout)
	defer cancel()

	sess, err := s.load(ctx)
	if err != nil {
		s.logger.Error("failed to load credential", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	v, ok := sess.Lookup(key)
	return v, ok && v != ""
}

// Store 將憑證寫入 session
func (s *Supplier) Store(ctx context.Context, key, value string) error {
	const op = "session.Supplier.Store"
	sess, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sess.Set(key, value)
	if err := sess.Save(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Revoke 從 session 移除憑證
func (s *Supplier) Revoke(ctx context.Context, key string) error {
	const op = "session.Supplier.Revoke"
	sess, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sess.Delete(key)
	if err := sess.Save(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Supplier) load(ctx context.Context) (*Session, error) {
	sess, err := New(s.id, s.store)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}
