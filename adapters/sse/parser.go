package sse

import "strings"

// fieldData 是承載通知內容的欄位前綴
const fieldData = "data:"

// DefaultMaxLineLength 是單行未完成內容的緩衝上限
const DefaultMaxLineLength = 1 << 20

// FrameParser 將解碼後的文字區塊拆成 data 欄位的內容。
//
// 預設會保留區塊結尾未完成的一行，與下一個區塊接續後再解析；
// legacy 模式則與舊版行為相同，每個區塊各自切行，跨區塊的行會被拆散。
// 未完成的行超過上限時整行丟棄，直到下一個換行才恢復解析。
type FrameParser struct {
	legacy    bool
	maxLine   int
	pending   strings.Builder
	skipping  bool
	discarded int
}

// NewFrameParser 建立解析器，legacy 為 true 時不跨區塊緩衝。
func NewFrameParser(legacy bool) *FrameParser {
	return &FrameParser{legacy: legacy, maxLine: DefaultMaxLineLength}
}

// SetMaxLineLength 設置未完成行的緩衝上限，n <= 0 表示不限制
func (p *FrameParser) SetMaxLineLength(n int) {
	p.maxLine = n
}

// Feed 解析一個區塊，依出現順序回傳所有非空的 data 內容。
func (p *FrameParser) Feed(chunk string) []string {
	if p.legacy {
		return extractFrames(strings.Split(chunk, "\n"))
	}

	if p.skipping {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			p.discarded += len(chunk)
			return nil
		}
		p.discarded += i
		p.skipping = false
		chunk = chunk[i+1:]
	}

	p.pending.WriteString(chunk)
	buffered := p.pending.String()
	rest := buffered
	var frames []string
	if cut := strings.LastIndexByte(buffered, '\n'); cut >= 0 {
		frames = extractFrames(strings.Split(buffered[:cut], "\n"))
		rest = buffered[cut+1:]
	}

	p.pending.Reset()
	if p.maxLine > 0 && len(rest) > p.maxLine {
		p.discarded += len(rest)
		p.skipping = true
		return frames
	}
	p.pending.WriteString(rest)
	return frames
}

// Reset 丟棄尚未完成的行
func (p *FrameParser) Reset() {
	p.pending.Reset()
	p.skipping = false
	p.discarded = 0
}

// Buffered 回傳尚未完成的行的長度
func (p *FrameParser) Buffered() int {
	return p.pending.Len()
}

// Discarded 回傳上次呼叫後因超過上限而丟棄的位元組數，並將計數歸零
func (p *FrameParser) Discarded() int {
	n := p.discarded
	p.discarded = 0
	return n
}

func extractFrames(lines []string) []string {
	var frames []string
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, fieldData) {
			continue
		}
		payload := strings.TrimSpace(line[len(fieldData):])
		if payload == "" {
			continue
		}
		frames = append(frames, payload)
	}
	return frames
}
