package segment

import (
	"reflect"
	"testing"

	"github.com/riverfjs/mathchat-go/internal/types"
)

func text(v string) types.Run   { return types.Run{Kind: types.RunText, Value: v} }
func bold(v string) types.Run   { return types.Run{Kind: types.RunBold, Value: v} }
func inline(v string) types.Run { return types.Run{Kind: types.RunInlineMath, Value: v} }
func block(v string) types.Run  { return types.Run{Kind: types.RunBlockMath, Value: v} }

// TestSplit 测试两遍扫描的切分结果
func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []types.Run
	}{
		{"empty", "", nil},
		{"whitespace", "  \n ", []types.Run{text("  \n ")}},
		{"plain", "hello", []types.Run{text("hello")}},
		{"inline", "$x$", []types.Run{inline("x")}},
		{"block", "$$x$$", []types.Run{block("x")}},
		{"block multiline", "$$a\nb$$", []types.Run{block("a\nb")}},
		{"unterminated dollar", "cost is $5", []types.Run{text("cost is $5")}},
		{"two prices", "$5 and $10", []types.Run{inline("5 and "), text("10")}},
		{"empty block", "$$", []types.Run{text("$$")}},
		{"four dollars", "$$$$", []types.Run{text("$$$$")}},
		{"broken block falls back to inline", "$$a$b$$", []types.Run{text("$"), inline("a"), text("b$$")}},
		{"bold", "**hi**", []types.Run{bold("hi")}},
		{"empty bold", "****", []types.Run{bold("")}},
		{"bold lazy", "**a** and **b**", []types.Run{bold("a"), text(" and "), bold("b")}},
		{"bold across newline", "**a\nb**", []types.Run{text("**a\nb**")}},
		{"unterminated bold", "**open", []types.Run{text("**open")}},
		{"triple star", "***a**", []types.Run{bold("*a")}},
		{"math inside bold markers", "**$x$**", []types.Run{text("**"), inline("x"), text("**")}},
		{
			"mixed",
			"$x^2$ is **great**",
			[]types.Run{inline("x^2"), text(" is "), bold("great")},
		},
		{
			"area",
			"The area is $$\\pi r^2$$ and it's **always** positive.",
			[]types.Run{text("The area is "), block("\\pi r^2"), text(" and it's "), bold("always"), text(" positive.")},
		},
		{"utf8", "面积 $πr²$ 公式", []types.Run{text("面积 "), inline("πr²"), text(" 公式")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if r := Reconstruct(got); r != tt.in {
				t.Errorf("Reconstruct = %q, want %q", r, tt.in)
			}
		})
	}
}

// TestNormalizeDelimiters 测试 \[...\] / \(...\) 改写
func TestNormalizeDelimiters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\(x^2\)`, `$x^2$`},
		{`\[\int_0^1 f\]`, `$$\int_0^1 f$$`},
		{"\\[\na+b\n\\]", "$$\na+b\n$$"},
		{"\\(a\nb\\)", "\\(a\nb\\)"},
		{"\\[a\n\nb\\]", "\\[a\n\nb\\]"},
		{`\( \)`, `\( \)`},
		{`\(a$b\)`, `\(a$b\)`},
		{`a \\[2pt] b`, `a \\[2pt] b`},
		{`no math here`, `no math here`},
		{`\(x\) and \[y\]`, `$x$ and $$y$$`},
		{`\(unclosed`, `\(unclosed`},
	}
	for _, tt := range tests {
		if got := NormalizeDelimiters(tt.in); got != tt.want {
			t.Errorf("NormalizeDelimiters(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestSplitProtected 受保护区间不参与匹配
func TestSplitProtected(t *testing.T) {
	in := "a `$x$` b $y$"
	protected := []types.Range{{Start: 2, End: 7}}
	got := SplitProtected(in, protected, nil)
	want := []types.Run{text("a `$x$` b "), inline("y")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitProtected = %v, want %v", got, want)
	}
	if Reconstruct(got) != in {
		t.Errorf("Reconstruct = %q", Reconstruct(got))
	}

	// 非法区间被忽略
	got = SplitProtected("$x$", []types.Range{{Start: 5, End: 9}, {Start: 2, End: 1}}, nil)
	if !reflect.DeepEqual(got, []types.Run{inline("x")}) {
		t.Errorf("invalid ranges: got %v", got)
	}

	got = SplitProtected(`\(x\)`, nil, NormalizeDelimiters)
	if !reflect.DeepEqual(got, []types.Run{inline("x")}) {
		t.Errorf("transform: got %v", got)
	}
}

// TestMergeText 测试相邻文本合并
func TestMergeText(t *testing.T) {
	got := MergeText([]types.Run{text("a"), text("b"), bold("c"), text("d"), text("")})
	want := []types.Run{text("ab"), bold("c"), text("d")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeText = %v, want %v", got, want)
	}
}

// TestMergeText_InputUnchanged 合并不修改调用方的切片
func TestMergeText_InputUnchanged(t *testing.T) {
	in := []types.Run{text("a"), text("b"), bold("c")}
	MergeText(in)
	want := []types.Run{text("a"), text("b"), bold("c")}
	if !reflect.DeepEqual(in, want) {
		t.Errorf("input after MergeText = %v, want %v", in, want)
	}
}
