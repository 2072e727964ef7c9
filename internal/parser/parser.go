package parser

import (
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/riverfjs/mathchat-go/internal/types"
)

// StandardOptions goldmark 扩展配置
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(
		extension.GFM, // tables, strikethrough, tasklists
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
}

// ParseAST 仅解析为 AST，不遍历
func ParseAST(source []byte) ast.Node {
	md := goldmark.New(StandardOptions...)
	return md.Parser().Parse(text.NewReader(source))
}

// CodeRanges 返回 Markdown 中代码的字节区间（行内代码含反引号，代码块含围栏）
//
// 结果按起点排序且互不重叠。
func CodeRanges(markdown string) []types.Range {
	source := []byte(markdown)
	doc := ParseAST(source)

	var ranges []types.Range
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan:
			if r, ok := codeSpanRange(node, source); ok {
				ranges = append(ranges, r)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if r, ok := blockRange(node, source, true); ok {
				ranges = append(ranges, r)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			if r, ok := blockRange(node, source, false); ok {
				ranges = append(ranges, r)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return normalize(ranges)
}

// codeSpanRange 由子节点的文本段推出区间，再向两侧扩展到反引号
func codeSpanRange(n *ast.CodeSpan, source []byte) (types.Range, bool) {
	start, end := -1, -1
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		if start < 0 || t.Segment.Start < start {
			start = t.Segment.Start
		}
		if t.Segment.Stop > end {
			end = t.Segment.Stop
		}
	}
	if start < 0 {
		return types.Range{}, false
	}
	for start > 0 && source[start-1] != '`' {
		start--
	}
	for start > 0 && source[start-1] == '`' {
		start--
	}
	for end < len(source) && source[end] != '`' {
		end++
	}
	for end < len(source) && source[end] == '`' {
		end++
	}
	return types.Range{Start: start, End: end}, true
}

// blockRange 代码块的字节区间，围栏代码块包含开闭围栏所在行
func blockRange(n ast.Node, source []byte, fenced bool) (types.Range, bool) {
	lines := n.Lines()
	if lines.Len() == 0 {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return types.Range{}, false
		}
		// 空代码块：只保护围栏行
		return lineOf(source, fcb.Info.Segment.Start), true
	}

	start := lines.At(0).Start
	end := lines.At(lines.Len() - 1).Stop
	if !fenced {
		return types.Range{Start: start, End: end}, true
	}

	// 开围栏在首行内容的上一行
	start = lineOf(source, start).Start
	if start > 0 {
		start = lineOf(source, start-1).Start
	}
	// 闭围栏在末行内容的下一行（未闭合时到文末）
	if end > 0 && source[end-1] != '\n' {
		end = lineOf(source, end).End
		if end < len(source) {
			end++
		}
	}
	if end < len(source) {
		end = lineOf(source, end).End
	}
	return types.Range{Start: start, End: end}, true
}

// lineOf 返回 pos 所在行的区间（不含换行符）
func lineOf(source []byte, pos int) types.Range {
	start, end := pos, pos
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return types.Range{Start: start, End: end}
}

// normalize 排序并合并重叠区间
func normalize(ranges []types.Range) []types.Range {
	if len(ranges) < 2 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
