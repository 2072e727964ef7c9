package mathchat

import "github.com/riverfjs/mathchat-go/internal/types"

// 导出类型别名
type Run = types.Run
type RunKind = types.RunKind

const (
	RunText       = types.RunText
	RunBold       = types.RunBold
	RunInlineMath = types.RunInlineMath
	RunBlockMath  = types.RunBlockMath
)

// NodeKind represents the kind of a display node.
type NodeKind int

const (
	// NodePlain represents literal text.
	NodePlain NodeKind = iota
	// NodeStrong represents emphasized text.
	NodeStrong
	// NodeInlineMath represents math laid out within the line.
	NodeInlineMath
	// NodeBlockMath represents math laid out on its own line.
	NodeBlockMath
)

// String returns the string representation of NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodePlain:
		return "plain"
	case NodeStrong:
		return "strong"
	case NodeInlineMath:
		return "inline_math"
	case NodeBlockMath:
		return "block_math"
	default:
		return "unknown"
	}
}

// Node 渲染后的展示节点
type Node struct {
	Kind NodeKind
	// Text 展示文本：普通文本原样，公式为排版结果，回退时为带定界符的原文
	Text string
	// Source 带定界符的原文
	Source string
	// Fallback 公式排版失败，Text 为原文
	Fallback bool
	Err      error
}

// IsMath reports whether the node came from a math run.
func (n Node) IsMath() bool {
	return n.Kind == NodeInlineMath || n.Kind == NodeBlockMath
}
