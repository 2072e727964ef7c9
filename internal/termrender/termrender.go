// Package termrender 将展示节点渲染为终端文本
package termrender

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	mathchat "github.com/riverfjs/mathchat-go"
	"github.com/riverfjs/mathchat-go/internal/buffer"
	"github.com/riverfjs/mathchat-go/internal/config"
)

// Styles 各类节点的样式
type Styles struct {
	Plain      lipgloss.Style
	Strong     lipgloss.Style
	InlineMath lipgloss.Style
	BlockMath  lipgloss.Style
	MathError  lipgloss.Style
}

type palette struct {
	math, block, err string
}

var (
	darkPalette  = palette{math: "#C3B1FF", block: "#8BE9FD", err: "#FF6E6E"}
	lightPalette = palette{math: "#5A3FC0", block: "#006D8F", err: "#C62828"}
)

// IsDark 主题是否使用深色配色；auto 根据终端背景判断
func IsDark(theme string) bool {
	switch theme {
	case config.ThemeDark:
		return true
	case config.ThemeLight, config.ThemePlain:
		return false
	}
	return termenv.HasDarkBackground()
}

// NewStyles 按主题创建样式
func NewStyles(theme string) Styles {
	if theme == config.ThemePlain {
		return PlainStyles()
	}
	if IsDark(theme) {
		return paletteStyles(darkPalette)
	}
	return paletteStyles(lightPalette)
}

// PlainStyles 无颜色、无修饰
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Plain: s, Strong: s, InlineMath: s, BlockMath: s, MathError: s}
}

func paletteStyles(p palette) Styles {
	return Styles{
		Plain:      lipgloss.NewStyle(),
		Strong:     lipgloss.NewStyle().Bold(true),
		InlineMath: lipgloss.NewStyle().Foreground(lipgloss.Color(p.math)).Italic(true),
		BlockMath:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.block)),
		MathError:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)).Underline(true),
	}
}

// Renderer 终端渲染器
type Renderer struct {
	Styles Styles
	// Width 块级公式居中的宽度，<= 0 时不居中
	Width int
}

// Render 渲染节点序列，块级公式独占一行并居中
func (r Renderer) Render(nodes []mathchat.Node) string {
	tb := buffer.New()
	for _, n := range nodes {
		switch n.Kind {
		case mathchat.NodeBlockMath:
			tb.EnsureNewlines(1)
			style := r.Styles.BlockMath
			if n.Fallback {
				style = r.Styles.MathError
			}
			for _, line := range strings.Split(n.Text, "\n") {
				tb.Write(r.indent(line))
				tb.Write(style.Render(line))
				tb.Write("\n")
			}
		case mathchat.NodeInlineMath:
			if n.Fallback {
				tb.Write(styled(r.Styles.MathError, n.Text))
			} else {
				tb.Write(styled(r.Styles.InlineMath, n.Text))
			}
		case mathchat.NodeStrong:
			tb.Write(styled(r.Styles.Strong, n.Text))
		default:
			tb.Write(styled(r.Styles.Plain, n.Text))
		}
	}
	if len(nodes) > 0 && nodes[len(nodes)-1].Kind == mathchat.NodeBlockMath {
		tb.PopLast()
	}
	return tb.String()
}

// styled 逐行应用样式，避免 lipgloss 把多行文本补齐到同一宽度
func styled(style lipgloss.Style, text string) string {
	if !strings.Contains(text, "\n") {
		return style.Render(text)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// indent 居中所需的前导空格
func (r Renderer) indent(line string) string {
	if r.Width <= 0 {
		return ""
	}
	pad := (r.Width - mathchat.DisplayWidth(line)) / 2
	if pad <= 0 {
		return ""
	}
	return strings.Repeat(" ", pad)
}
