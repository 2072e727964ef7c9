package buffer

// TextBuffer accumulates rendered text and tracks trailing line breaks,
// so block elements can be placed on lines of their own.
type TextBuffer struct {
	parts []string
	size  int
}

// New creates a new TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{parts: make([]string, 0, 8)}
}

// Write appends text to the buffer.
func (tb *TextBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.size += len(text)
}

// Len returns the current byte length.
func (tb *TextBuffer) Len() int {
	return tb.size
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (tb *TextBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(tb.parts) - 1; i >= 0; i-- {
		part := tb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] != '\n' {
				return count
			}
			count++
		}
	}
	return count
}

// EnsureNewlines 保证末尾至少有 n 个换行；空缓冲区不写入
func (tb *TextBuffer) EnsureNewlines(n int) {
	if tb.size == 0 {
		return
	}
	for missing := n - tb.TrailingNewlineCount(); missing > 0; missing-- {
		tb.Write("\n")
	}
}

// PopLast removes and returns the last written part.
func (tb *TextBuffer) PopLast() string {
	if len(tb.parts) == 0 {
		return ""
	}
	last := tb.parts[len(tb.parts)-1]
	tb.parts = tb.parts[:len(tb.parts)-1]
	tb.size -= len(last)
	return last
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	result := make([]byte, 0, tb.size)
	for _, p := range tb.parts {
		result = append(result, p...)
	}
	return string(result)
}

// Reset clears the buffer.
func (tb *TextBuffer) Reset() {
	tb.parts = tb.parts[:0]
	tb.size = 0
}
