package nats

import (
	"errors"
	"io"
	"log"
	"sync"

	"github.com/nats-io/nats.go"
)

func init() {
	// 將日誌輸出重定向到io.Discard
	log.SetOutput(io.Discard)
}

type published struct {
	subject string
	data    []byte
}

// fakeConn 記錄發佈的訊息，並把訂閱轉送到測試持有的 channel
type fakeConn struct {
	mu           sync.Mutex
	published    []published
	publishErr   error
	subscribeErr error
	subscribed   chan *nats.Msg
	unsubscribed bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{subject: subject, data: data})
	return nil
}

func (f *fakeConn) subscribe(subject string, ch chan *nats.Msg) (func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.subscribed = ch
	return func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.unsubscribed {
			return errors.New("already unsubscribed")
		}
		f.unsubscribed = true
		return nil
	}, nil
}

func (f *fakeConn) deliver(data []byte) {
	f.mu.Lock()
	ch := f.subscribed
	f.mu.Unlock()
	ch <- &nats.Msg{Data: data}
}
