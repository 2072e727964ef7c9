package buffer

import "testing"

// TestTextBuffer_EnsureNewlines 测试块级元素前后的换行补齐
func TestTextBuffer_EnsureNewlines(t *testing.T) {
	tb := New()
	tb.EnsureNewlines(1)
	if tb.String() != "" {
		t.Fatalf("empty buffer should stay empty, got %q", tb.String())
	}

	tb.Write("a")
	tb.EnsureNewlines(1)
	tb.Write("b\n")
	tb.EnsureNewlines(1)
	tb.Write("c")
	if got := tb.String(); got != "a\nb\nc" {
		t.Errorf("String() = %q, want %q", got, "a\nb\nc")
	}
	if tb.Len() != len("a\nb\nc") {
		t.Errorf("Len() = %d", tb.Len())
	}
}

// TestTextBuffer_TrailingNewlines 跨多个片段统计末尾换行
func TestTextBuffer_TrailingNewlines(t *testing.T) {
	tb := New()
	tb.Write("x\n")
	tb.Write("\n")
	tb.Write("")
	if n := tb.TrailingNewlineCount(); n != 2 {
		t.Errorf("TrailingNewlineCount() = %d, want 2", n)
	}
	if last := tb.PopLast(); last != "\n" {
		t.Errorf("PopLast() = %q", last)
	}
	if n := tb.TrailingNewlineCount(); n != 1 {
		t.Errorf("after PopLast TrailingNewlineCount() = %d, want 1", n)
	}
	tb.Reset()
	if tb.String() != "" || tb.Len() != 0 {
		t.Error("Reset() should clear the buffer")
	}
}
