package sse

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newChunkReader 將回應主體包裝成 UTF-8 解碼器。
// 被切在兩個區塊之間的多位元組字元會保留在解碼器內部，
// 直到下一個區塊補齊後才輸出，因此每次 Read 回傳的都是完整字元。
// 不合法的位元組會被替換為 U+FFFD。
func newChunkReader(body io.Reader) io.Reader {
	return transform.NewReader(body, unicode.UTF8.NewDecoder())
}
