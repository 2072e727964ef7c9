// Package mathchat 将聊天消息中的混合内容（普通文本、**粗体**、$行内公式$、$$块级公式$$）
// 切分为类型化的片段，并渲染为可展示的节点。
//
// 核心功能：
//   - Segment(): 两遍扫描切分，先公式后粗体，结果可无损还原
//   - Render(): 将片段转换为展示节点，公式排版失败时回退为原文
//   - HTML() / WriteHTML(): 输出 HTML 片段
//
// 示例：
//
//	runs := mathchat.Segment("The area is $$\\pi r^2$$ and it's **always** positive.")
//	nodes := mathchat.Render(runs)
//	fmt.Println(mathchat.HTML(nodes))
//
// 所有函数都是无状态的，可并发调用。
package mathchat

import (
	"github.com/riverfjs/mathchat-go/internal/parser"
	"github.com/riverfjs/mathchat-go/internal/segment"
)

// Segment 将文本切分为 Run 序列
//
// 公式先于粗体匹配：$$...$$ 优先于 $...$，公式内容至少一个字符且不含 '$'；
// 粗体只在公式之间的文本中匹配，内容不跨行。未闭合的定界符保留为普通文本。
// 空字符串返回空序列。任意输入都不会失败。
func Segment(content string) []Run {
	return segment.Split(content)
}

// SegmentWith 与 Segment 相同，但支持 WithCodeAware、WithLatexBrackets 选项
//
// 不传选项时结果与 Segment 完全一致。
func SegmentWith(content string, opts ...Option) []Run {
	options := applyOptions(opts...)

	var transform func(string) string
	if options.LatexBrackets {
		transform = segment.NormalizeDelimiters
	}
	if options.CodeAware {
		return segment.SplitProtected(content, parser.CodeRanges(content), transform)
	}
	if transform != nil {
		content = transform(content)
	}
	return segment.Split(content)
}

// Reconstruct 按序拼接所有 Run 的原始文本（含定界符）
func Reconstruct(runs []Run) string {
	return segment.Reconstruct(runs)
}
