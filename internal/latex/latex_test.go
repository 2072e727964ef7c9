package latex

import (
	"errors"
	"strings"
	"testing"
)

// TestParse_Symbols 测试常见符号转换
func TestParse_Symbols(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\pi r^2`, "π r²"},
		{`\alpha + \beta`, "α + β"},
		{`x \leq y`, "x ≤ y"},
		{`a \to b`, "a → b"},
		{`\infty`, "∞"},
		{`x_1 + x_2`, "x₁ + x₂"},
		{`e^{i\pi}`, "e^(iπ)"},
		{`\frac{1}{2}`, "½"},
		{`\frac{a+b}{c}`, "(a+b)/c"},
		{`3\frac{1}{4}`, "3 ¼"},
		{`\sqrt{x}`, "√x\u0305"},
		{`\sqrt[3]{8}`, "∛8\u0305"},
		{`\mathbb{R}`, "ℝ"},
		{`\mathbf{v}`, "𝐯"},
		{`\text{if } x`, "if  x"},
		{`\left( x \right)`, "( x )"},
		{`\binom{n}{k}`, "C(n,k)"},
		{`\not=`, "≠"},
		{`\not\in`, "∉"},
		{`\{1, 2\}`, "{1, 2}"},
	}
	p := NewParser()
	for _, tt := range tests {
		if got := p.Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestParse_Environments 测试环境渲染
func TestParse_Environments(t *testing.T) {
	p := NewParser()

	got := p.Parse(`\begin{pmatrix} 1 & 0 \\ 0 & 1 \end{pmatrix}`)
	if got != "(1  0\n0  1)" {
		t.Errorf("pmatrix = %q", got)
	}

	got = p.Parse(`\begin{cases} x & x > 0 \\ -x & x \leq 0 \end{cases}`)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "⎧ x") || !strings.HasPrefix(lines[1], "⎩ -x") {
		t.Errorf("cases = %q", got)
	}

	got = p.Parse(`\begin{aligned} a &= b \\ c &= d \end{aligned}`)
	if !strings.Contains(got, "\n") {
		t.Errorf("aligned should be multi-line, got %q", got)
	}
}

// TestTypeset_Valid 合法公式不返回错误
func TestTypeset_Valid(t *testing.T) {
	inputs := []string{
		`x^2`,
		`\pi r^2`,
		`\frac{a}{b}`,
		`\frac12`,
		`\sqrt[n]{x}`,
		`\left\{ x \right\}`,
		`\left. \frac{d}{dx} \right|_{x=0}`,
		`\begin{matrix} a \\ b \end{matrix}`,
		`\{ \}`,
		`\unknowncommand{x}`,
		`5`,
		`\hat x + \vec{v}`,
		`\mathbb R \to \mathbb{C}`,
		`\text{if } x > 0`,
		`A \xrightarrow[g]{f} B`,
		`\textcolor{red}{x}`,
	}
	for _, in := range inputs {
		if _, err := Typeset(in); err != nil {
			t.Errorf("Typeset(%q) error = %v", in, err)
		}
	}
}

// TestTypeset_Invalid 结构错误返回 *SyntaxError
func TestTypeset_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unclosed brace", `\frac{1}{2`},
		{"unexpected close brace", `x}`},
		{"left without right", `\left( x`},
		{"right without left", `x \right)`},
		{"unclosed environment", `\begin{matrix} a`},
		{"mismatched environment", `\begin{matrix} a \end{cases}`},
		{"end without begin", `a \end{cases}`},
		{"trailing backslash", `x + \`},
		{"dangling superscript", `x^`},
		{"subscript before brace", `{x_}`},
		{"frac missing argument", `\frac{1}`},
		{"sqrt missing argument", `\sqrt`},
		{"accent missing argument", `x + \hat`},
		{"overline missing argument", `\overline`},
		{"font style missing argument", `\mathbb`},
		{"text missing argument", `\text`},
		{"operatorname missing argument", `\operatorname`},
		{"accent before close brace", `{\vec}`},
		{"boxed missing argument", `\boxed`},
		{"textcolor missing second argument", `\textcolor{red}`},
		{"xrightarrow missing argument", `a \xrightarrow[f]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Typeset(tt.in)
			if err == nil {
				t.Fatalf("Typeset(%q) = %q, want error", tt.in, out)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error type = %T, want *SyntaxError", err)
			}
			if se.Pos < 0 || se.Pos > len(tt.in) {
				t.Errorf("Pos = %d out of range", se.Pos)
			}
		})
	}
}

// TestTypeset_Strict 严格模式拒绝未知命令
func TestTypeset_Strict(t *testing.T) {
	p := &Parser{Strict: true}
	if _, err := p.Typeset(`\foo x`); err == nil {
		t.Error("strict Typeset should reject unknown command")
	}
	if got, err := p.Typeset(`\alpha`); err != nil || got != "α" {
		t.Errorf("strict Typeset(alpha) = %q, %v", got, err)
	}
}

// TestConvert_NeverPanics 任意输入都不会 panic
func TestConvert_NeverPanics(t *testing.T) {
	inputs := []string{"", "\\", "{", "}", "^", "_", "\\begin{", "\\left", "\\frac", "\xff\xfe", "\\sqrt[", "\\not"}
	p := NewParser()
	for _, in := range inputs {
		_ = p.Convert(in)
		_, _ = p.Typeset(in)
	}
}
