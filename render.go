package mathchat

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/riverfjs/mathchat-go/internal/buffer"
)

// ErrEmptyTypeset Typesetter 没有报错但输出为空
var ErrEmptyTypeset = errors.New("mathchat: typesetter produced empty output")

// Render 将 Run 序列转换为展示节点
//
// 普通文本和粗体原样输出；公式交给 Typesetter 排版，
// 排版失败（返回错误、panic 或空输出）时节点标记为 Fallback，Text 为带定界符的原文。
// Render 本身不会失败，对同一输入的多次调用结果相同。
func Render(runs []Run, opts ...Option) []Node {
	options := applyOptions(opts...)
	nodes := make([]Node, 0, len(runs))
	for _, run := range runs {
		switch run.Kind {
		case RunBold:
			nodes = append(nodes, Node{Kind: NodeStrong, Text: run.Value, Source: run.Source()})
		case RunInlineMath, RunBlockMath:
			nodes = append(nodes, renderMath(run, options))
		default:
			nodes = append(nodes, Node{Kind: NodePlain, Text: run.Value, Source: run.Source()})
		}
	}
	return nodes
}

// renderMath 排版单个公式，失败时回退
func renderMath(run Run, options *Options) Node {
	node := Node{Kind: NodeInlineMath, Source: run.Source()}
	if run.Kind == RunBlockMath {
		node.Kind = NodeBlockMath
	}

	tex := run.Value
	if options.Config.TrimMath {
		tex = strings.TrimSpace(tex)
	}
	if !options.Config.TypesetMath {
		node.Text = tex
		return node
	}

	out, err := typeset(options.Typesetter, tex)
	if err == nil && out == "" {
		err = ErrEmptyTypeset
	}
	if err != nil {
		Logger.Debug("math fallback",
			zap.String("kind", run.Kind.String()),
			zap.String("tex", run.Value),
			zap.Error(err))
		node.Text = node.Source
		node.Fallback = true
		node.Err = err
		return node
	}
	node.Text = out
	return node
}

// typeset 调用 Typesetter 并将 panic 转为错误
func typeset(ts Typesetter, tex string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("typeset panic: %v", r)
		}
	}()
	return ts.Typeset(tex)
}

// Plain 将节点拼接为纯文本，块级公式独占一行
func Plain(nodes []Node) string {
	tb := buffer.New()
	for _, n := range nodes {
		if n.Kind == NodeBlockMath {
			tb.EnsureNewlines(1)
			tb.Write(n.Text)
			tb.Write("\n")
			continue
		}
		tb.Write(n.Text)
	}
	// 末尾块级公式补的换行不保留
	if len(nodes) > 0 && nodes[len(nodes)-1].Kind == NodeBlockMath {
		tb.PopLast()
	}
	return tb.String()
}

// RenderString 切分、渲染并输出纯文本
func RenderString(content string, opts ...Option) string {
	return Plain(Render(SegmentWith(content, opts...), opts...))
}
