package session

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Session 保存一份從 IStore 載入的資料，本身不是併發安全的
type Session struct {
	id     string
	store  IStore
	data   map[string]string
	loaded bool
	dirty  bool
}

var _ ISession = (*Session)(nil)

// NewID 產生新的 session ID
func NewID() string {
	return uuid.NewString()
}

// New 建立尚未載入的 session
func New(id string, store IStore) (*Session, error) {
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	return &Session{id: id, store: store}, nil
}

// ID 回傳 session ID
func (s *Session) ID() string {
	return s.id
}

// Load 從儲存層載入資料，已載入時不會重新讀取
func (s *Session) Load(ctx context.Context) error {
	const op = "session.Session.Load"
	if s.loaded {
		return nil
	}

	data, err := s.store.Load(ctx, s.id)
	if err != nil {
		return fmt.Errorf("%s: failed to load session: %w", op, err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	// 本地修改優先於儲存層的值
	maps.Copy(data, s.data)
	s.data = data
	s.loaded = true
	return nil
}

// Lookup 取得 key 對應的值
func (s *Session) Lookup(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Set 設定 key-value 對
func (s *Session) Set(key, value string) {
	if s.data == nil {
		s.data = make(map[string]string)
	}
	s.data[key] = value
	s.dirty = true
}

// Delete 刪除指定 key
func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.dirty = true
}

// Clear 清空所有資料，之後的 Load 不會再讀回舊資料
func (s *Session) Clear() {
	s.data = make(map[string]string)
	s.loaded = true
	s.dirty = true
}

// Save 在資料有變動時寫回儲存層
func (s *Session) Save(ctx context.Context) error {
	const op = "session.Session.Save"
	if !s.dirty {
		return nil
	}
	if err := s.store.Save(ctx, s.id, s.data); err != nil {
		return fmt.Errorf("%s: failed to save session: %w", op, err)
	}
	s.dirty = false
	return nil
}
