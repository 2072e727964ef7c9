package mathchat

import (
	"html"
	"io"
	"strings"
)

// HTML 将节点渲染为 HTML 片段
//
//   - 普通文本: <span>...</span>
//   - 粗体: <strong>...</strong>
//   - 行内公式: <span class="math math-inline" data-tex="...">...</span>
//   - 块级公式: <div class="math math-block" data-tex="...">...</div>
//   - 排版失败: <span class="math-error" title="错误信息">$原文$</span>
//
// 所有文本均经过转义。class 名称来自 RenderConfig.Classes。
func HTML(nodes []Node, opts ...Option) string {
	var b strings.Builder
	writeNodes(&b, nodes, applyOptions(opts...).Config.Classes)
	return b.String()
}

// WriteHTML 将节点渲染为 HTML 写入 w
func WriteHTML(w io.Writer, nodes []Node, opts ...Option) error {
	_, err := io.WriteString(w, HTML(nodes, opts...))
	return err
}

func writeNodes(b *strings.Builder, nodes []Node, classes *HTMLClasses) {
	if classes == nil {
		classes = DefaultConfig().Classes
	}
	for _, n := range nodes {
		text := html.EscapeString(n.Text)
		switch {
		case n.Fallback:
			b.WriteString(`<span class="` + classes.MathError + `"`)
			if n.Err != nil {
				b.WriteString(` title="` + html.EscapeString(n.Err.Error()) + `"`)
			}
			b.WriteString(">" + text + "</span>")
		case n.Kind == NodeStrong:
			b.WriteString("<strong>" + text + "</strong>")
		case n.Kind == NodeInlineMath:
			b.WriteString(`<span class="` + classes.InlineMath + `" data-tex="` + html.EscapeString(texOf(n)) + `">` + text + "</span>")
		case n.Kind == NodeBlockMath:
			b.WriteString(`<div class="` + classes.BlockMath + `" data-tex="` + html.EscapeString(texOf(n)) + `">` + text + "</div>")
		default:
			b.WriteString("<span>" + text + "</span>")
		}
	}
}

// texOf 去掉定界符后的公式源码
func texOf(n Node) string {
	d := "$"
	if n.Kind == NodeBlockMath {
		d = "$$"
	}
	return strings.TrimSuffix(strings.TrimPrefix(n.Source, d), d)
}
