package mathchat

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func text(v string) Run   { return Run{Kind: RunText, Value: v} }
func bold(v string) Run   { return Run{Kind: RunBold, Value: v} }
func inline(v string) Run { return Run{Kind: RunInlineMath, Value: v} }
func block(v string) Run  { return Run{Kind: RunBlockMath, Value: v} }

var corpus = []string{
	"",
	" ",
	"\n\n",
	"hello world",
	"cost is $5",
	"$x$",
	"$$x$$",
	"$$",
	"$$$$",
	"****",
	"**a** **b**",
	"**unterminated",
	"$x^2$ is **great**",
	"The area is $$\\pi r^2$$ and it's **always** positive.",
	"$$\\begin{pmatrix}1 & 0\\\\0 & 1\\end{pmatrix}$$",
	"$a$$b$",
	"$$a$b$$",
	"**$x$**",
	"价格是 **$5** 和 $\\alpha$",
	"\xff\xfe$\xff$",
	"a $ b $$ c ** d",
}

// randomInput 由定界符密集的字母表生成随机输入
func randomInput(r *rand.Rand) string {
	alphabet := []string{"$", "$", "*", "*", "a", " ", "\n", "π", "\\", "{", "}"}
	n := r.Intn(24)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(alphabet[r.Intn(len(alphabet))])
	}
	return b.String()
}

// TestSegment_Lossless 拼接所有 Run 的原文等于输入
func TestSegment_Lossless(t *testing.T) {
	for _, in := range corpus {
		if got := Reconstruct(Segment(in)); got != in {
			t.Errorf("Reconstruct(Segment(%q)) = %q", in, got)
		}
	}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		in := randomInput(r)
		if got := Reconstruct(Segment(in)); got != in {
			t.Fatalf("Reconstruct(Segment(%q)) = %q", in, got)
		}
	}
}

// TestSegment_BoldHasNoMath 粗体内容中不会残留可匹配的公式
func TestSegment_BoldHasNoMath(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	inputs := append([]string{}, corpus...)
	for i := 0; i < 2000; i++ {
		inputs = append(inputs, randomInput(r))
	}
	for _, in := range inputs {
		for _, run := range Segment(in) {
			if run.Kind != RunBold {
				continue
			}
			for _, inner := range Segment(run.Value) {
				if inner.Kind.IsMath() {
					t.Fatalf("Segment(%q): bold %q contains math %q", in, run.Value, inner.Value)
				}
			}
		}
	}
}

// TestSegment_BlockPrecedence $$...$$ 作为块级公式，而不是两个行内公式
func TestSegment_BlockPrecedence(t *testing.T) {
	got := Segment("$$x$$")
	if !reflect.DeepEqual(got, []Run{block("x")}) {
		t.Errorf("Segment($$x$$) = %v", got)
	}
}

// TestSegment_UnterminatedDollar 未闭合的 $ 保留为普通文本
func TestSegment_UnterminatedDollar(t *testing.T) {
	got := Segment("cost is $5")
	if !reflect.DeepEqual(got, []Run{text("cost is $5")}) {
		t.Errorf("Segment(cost is $5) = %v", got)
	}
}

// TestSegment_MathThenBold 公式先匹配，粗体只在剩余文本中匹配
func TestSegment_MathThenBold(t *testing.T) {
	got := Segment("$x^2$ is **great**")
	want := []Run{inline("x^2"), text(" is "), bold("great")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment = %v, want %v", got, want)
	}
}

// TestSegment_AreaScenario 完整场景
func TestSegment_AreaScenario(t *testing.T) {
	got := Segment("The area is $$\\pi r^2$$ and it's **always** positive.")
	want := []Run{
		text("The area is "),
		block("\\pi r^2"),
		text(" and it's "),
		bold("always"),
		text(" positive."),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Segment = %v, want %v", got, want)
	}

	nodes := Render(got)
	if len(nodes) != 5 {
		t.Fatalf("Render() returned %d nodes", len(nodes))
	}
	if nodes[1].Kind != NodeBlockMath || nodes[1].Fallback || nodes[1].Text != "π r²" {
		t.Errorf("block node = %+v", nodes[1])
	}
	if nodes[3].Kind != NodeStrong || nodes[3].Text != "always" {
		t.Errorf("strong node = %+v", nodes[3])
	}
}

// TestSegment_Empty 空输入返回空序列，纯空白返回一个文本
func TestSegment_Empty(t *testing.T) {
	if got := Segment(""); len(got) != 0 {
		t.Errorf("Segment(\"\") = %v", got)
	}
	if got := Segment(" \t\n"); !reflect.DeepEqual(got, []Run{text(" \t\n")}) {
		t.Errorf("Segment(whitespace) = %v", got)
	}
}

// TestSegmentWith_Default 不传选项时与 Segment 一致
func TestSegmentWith_Default(t *testing.T) {
	for _, in := range corpus {
		if !reflect.DeepEqual(SegmentWith(in), Segment(in)) {
			t.Errorf("SegmentWith(%q) differs from Segment", in)
		}
	}
}

// TestSegmentWith_CodeAware 代码中的定界符不解析
func TestSegmentWith_CodeAware(t *testing.T) {
	in := "Use `$PATH` and $x$, or:\n\n```sh\necho **$HOME**\n```\n"
	got := SegmentWith(in, WithCodeAware(true))
	if Reconstruct(got) != in {
		t.Fatalf("lossless violated: %q", Reconstruct(got))
	}
	var math []string
	for _, r := range got {
		if r.Kind.IsMath() {
			math = append(math, r.Value)
		}
		if r.Kind == RunBold {
			t.Errorf("unexpected bold run %q", r.Value)
		}
	}
	if !reflect.DeepEqual(math, []string{"x"}) {
		t.Errorf("math runs = %q, want [x]", math)
	}
}

// TestSegmentWith_LatexBrackets \(...\) 和 \[...\] 识别为公式
func TestSegmentWith_LatexBrackets(t *testing.T) {
	got := SegmentWith(`so \(a^2\) and \[b\]`, WithLatexBrackets(true))
	want := []Run{text("so "), inline("a^2"), text(" and "), block("b")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SegmentWith = %v, want %v", got, want)
	}

	got = SegmentWith("`\\(a\\)` \\(b\\)", WithLatexBrackets(true), WithCodeAware(true))
	want = []Run{text("`\\(a\\)` "), inline("b")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SegmentWith(code) = %v, want %v", got, want)
	}
}
