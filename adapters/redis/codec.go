package redis

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// PayloadField 是 stream 訊息中存放編碼內容的欄位
const PayloadField = "data"

var (
	ErrClosed       = errors.New("stream is closed")
	ErrPointerType  = errors.New("pointer type is not allowed")
	ErrMissingField = errors.New("payload field missing")
)

// EncodeValues 將值以 msgpack 編碼後轉為 base64，放在 PayloadField 欄位
func EncodeValues[T any](data T) (map[string]any, error) {
	if isPointer[T]() {
		return nil, ErrPointerType
	}

	raw, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("msgpack marshal error: %w", err)
	}
	return map[string]any{
		PayloadField: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// DecodeValues 是 EncodeValues 的反向操作
func DecodeValues[T any](values map[string]any) (T, error) {
	var result T
	if isPointer[T]() {
		return result, ErrPointerType
	}

	encoded, ok := values[PayloadField].(string)
	if !ok {
		return result, fmt.Errorf("%w: %q", ErrMissingField, PayloadField)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return result, fmt.Errorf("base64 decode error: %w", err)
	}
	if err := msgpack.Unmarshal(raw, &result); err != nil {
		return result, fmt.Errorf("msgpack unmarshal error: %w", err)
	}
	return result, nil
}

func isPointer[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.Kind() == reflect.Pointer
}
