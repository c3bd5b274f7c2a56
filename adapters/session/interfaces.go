//go:generate mockgen -package=session -destination=mock.go -source=interfaces.go

package session

import "context"

// IStore 是 session 資料的儲存層
type IStore interface {
	Load(ctx context.Context, id string) (map[string]string, error)
	Save(ctx context.Context, id string, data map[string]string) error
}

// ISession 是單一 session 的讀寫介面
type ISession interface {
	ID() string
	Load(ctx context.Context) error
	Lookup(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Clear()
	Save(ctx context.Context) error
}
