package credential

import (
	"sync"

	"pushnotify/adapters/sse"
)

// Static 是存放在記憶體中的憑證，可在執行期間更新
type Static struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ sse.ICredentialSupplier = (*Static)(nil)

// NewStatic 以初始值建立 Static，values 會被複製
func NewStatic(values map[string]string) *Static {
	s := &Static{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Lookup 取得 key 對應的憑證，空字串視為不存在
func (s *Static) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok && v != ""
}

// Set 設定憑證
func (s *Static) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete 移除憑證
func (s *Static) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
