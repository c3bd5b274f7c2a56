package credential

import (
	"pushnotify/adapters/sse"
)

// Chain 依序詢問多個來源，回傳第一個取得的憑證
type Chain []sse.ICredentialSupplier

var _ sse.ICredentialSupplier = Chain(nil)

// Lookup 回傳第一個非空的憑證
func (c Chain) Lookup(key string) (string, bool) {
	for _, supplier := range c {
		if supplier == nil {
			continue
		}
		if v, ok := supplier.Lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
