package types

// RunKind 内容片段类型
type RunKind int

const (
	// RunText 普通文本
	RunText RunKind = iota
	// RunBold **粗体**
	RunBold
	// RunInlineMath $行内公式$
	RunInlineMath
	// RunBlockMath $$块级公式$$
	RunBlockMath
)

// String returns the string representation of RunKind.
func (k RunKind) String() string {
	switch k {
	case RunText:
		return "text"
	case RunBold:
		return "bold"
	case RunInlineMath:
		return "inline_math"
	case RunBlockMath:
		return "block_math"
	default:
		return "unknown"
	}
}

// Delimiter 返回该类型的定界符（Text 为空）
func (k RunKind) Delimiter() string {
	switch k {
	case RunBold:
		return "**"
	case RunInlineMath:
		return "$"
	case RunBlockMath:
		return "$$"
	default:
		return ""
	}
}

// IsMath 是否为公式片段
func (k RunKind) IsMath() bool {
	return k == RunInlineMath || k == RunBlockMath
}

// Run 表示一段类型化的内容，Value 不含定界符
type Run struct {
	Kind  RunKind `json:"kind"`
	Value string  `json:"value"`
}

// Source 返回带定界符的原始文本
func (r Run) Source() string {
	d := r.Kind.Delimiter()
	return d + r.Value + d
}

// HTMLClasses 定义 HTML 输出中各节点使用的 class
type HTMLClasses struct {
	InlineMath string
	BlockMath  string
	MathError  string
	Message    string
}

// DefaultHTMLClasses 返回默认 class 配置
func DefaultHTMLClasses() *HTMLClasses {
	return &HTMLClasses{
		InlineMath: "math math-inline",
		BlockMath:  "math math-block",
		MathError:  "math-error",
		Message:    "message",
	}
}

// RenderConfig 渲染配置
type RenderConfig struct {
	Classes *HTMLClasses
	// TypesetMath 为 false 时公式节点保留原始 TeX（交给前端排版）
	TypesetMath bool
	// TrimMath 排版前去掉公式首尾空白
	TrimMath bool
}

// DefaultRenderConfig 返回默认渲染配置
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		Classes:     DefaultHTMLClasses(),
		TypesetMath: true,
		TrimMath:    true,
	}
}

// Range 源文本中的字节区间 [Start, End)
type Range struct {
	Start int
	End   int
}
