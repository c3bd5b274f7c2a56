package relay

import (
	"io"
	"log"
	"slices"
	"sync"

	"github.com/gin-gonic/gin"
)

func init() {
	// 將日誌輸出重定向到io.Discard
	log.SetOutput(io.Discard)
	gin.SetMode(gin.TestMode)
}

type countingRecorder struct {
	mu      sync.Mutex
	clients []int
	dropped int
}

func (r *countingRecorder) RecordRelayClients(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = append(r.clients, n)
}

func (r *countingRecorder) RecordRelayDropped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
}

func (r *countingRecorder) sawClients(n int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.clients, n)
}

func (r *countingRecorder) droppedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
