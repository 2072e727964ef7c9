package parser

import (
	"testing"

	"github.com/riverfjs/mathchat-go/internal/types"
)

func covered(src string, ranges []types.Range) []string {
	var out []string
	for _, r := range ranges {
		out = append(out, src[r.Start:r.End])
	}
	return out
}

// TestCodeRanges_Inline 行内代码包含反引号
func TestCodeRanges_Inline(t *testing.T) {
	src := "a `$x$` b ``**c**`` d"
	got := covered(src, CodeRanges(src))
	if len(got) != 2 || got[0] != "`$x$`" || got[1] != "``**c**``" {
		t.Errorf("CodeRanges = %q", got)
	}
}

// TestCodeRanges_Fenced 围栏代码块包含围栏行
func TestCodeRanges_Fenced(t *testing.T) {
	src := "text\n```\n$x$\n```\nafter $y$"
	got := covered(src, CodeRanges(src))
	if len(got) != 1 || got[0] != "```\n$x$\n```" {
		t.Errorf("CodeRanges = %q", got)
	}

	src = "```go\nfmt.Println(\"$\")\n```"
	got = covered(src, CodeRanges(src))
	if len(got) != 1 || got[0] != src {
		t.Errorf("CodeRanges = %q, want whole input", got)
	}
}

// TestCodeRanges_None 没有代码时返回空
func TestCodeRanges_None(t *testing.T) {
	if got := CodeRanges("plain $x$ and **bold**"); len(got) != 0 {
		t.Errorf("CodeRanges = %v, want none", got)
	}
}

// TestNormalize 测试区间合并
func TestNormalize(t *testing.T) {
	got := normalize([]types.Range{{Start: 5, End: 8}, {Start: 0, End: 2}, {Start: 6, End: 10}})
	want := []types.Range{{Start: 0, End: 2}, {Start: 5, End: 10}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("normalize = %v, want %v", got, want)
	}
}
