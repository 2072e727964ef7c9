package segment

import (
	"strings"

	"github.com/riverfjs/mathchat-go/internal/types"
)

// Split 将文本切分为 Run 序列
//
// 两遍扫描：先从左到右匹配 $$...$$ / $...$ 公式（块级优先），
// 公式之间剩余的文本再匹配 **粗体**。未闭合的定界符保留为普通文本。
// 所有 Run 的 Source() 按序拼接等于输入。
func Split(content string) []types.Run {
	var runs []types.Run
	last := 0
	for i := 0; i < len(content); {
		if content[i] != '$' {
			i++
			continue
		}
		kind, end := matchMath(content, i)
		if end < 0 {
			i++
			continue
		}
		runs = appendBold(runs, content[last:i])
		d := len(kind.Delimiter())
		runs = append(runs, types.Run{Kind: kind, Value: content[i+d : end-d]})
		last, i = end, end
	}
	return appendBold(runs, content[last:])
}

// matchMath 尝试在 start（必须是 '$'）处匹配公式，失败时 end 为 -1
//
// 公式内容至少一个字符且不含 '$'，可以跨行。
func matchMath(s string, start int) (types.RunKind, int) {
	body := start + 1
	if body < len(s) && s[body] == '$' {
		// $$...$$
		j := body + 1
		for j < len(s) && s[j] != '$' {
			j++
		}
		if j > body+1 && j+1 < len(s) && s[j+1] == '$' {
			return types.RunBlockMath, j + 2
		}
		// "$$" 之后的内容不能作为行内公式（内容首字符是 '$'）
		return types.RunText, -1
	}

	// $...$
	j := strings.IndexByte(s[body:], '$')
	if j <= 0 {
		return types.RunText, -1
	}
	return types.RunInlineMath, body + j + 1
}

// appendBold 在一段非公式文本中匹配 **...**，结果追加到 runs
//
// 粗体内容取最短匹配，不能跨行，可以为空（"****"）。
func appendBold(runs []types.Run, text string) []types.Run {
	last := 0
	for i := 0; i+1 < len(text); {
		if text[i] != '*' || text[i+1] != '*' {
			i++
			continue
		}
		end := strings.Index(text[i+2:], "**")
		if end < 0 {
			break
		}
		inner := text[i+2 : i+2+end]
		if hasLineBreak(inner) {
			i++
			continue
		}
		if i > last {
			runs = append(runs, types.Run{Kind: types.RunText, Value: text[last:i]})
		}
		runs = append(runs, types.Run{Kind: types.RunBold, Value: inner})
		last = i + 2 + end + 2
		i = last
	}
	if last < len(text) {
		runs = append(runs, types.Run{Kind: types.RunText, Value: text[last:]})
	}
	return runs
}

// hasLineBreak 粗体内容中不允许出现的换行字符
func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\n\r\u2028\u2029")
}

// SplitProtected 与 Split 相同，但 protected 区间（如代码）整体作为普通文本，不参与匹配
//
// protected 必须按起点排序且互不重叠。transform 非空时先作用于每段未保护文本。
func SplitProtected(content string, protected []types.Range, transform func(string) string) []types.Run {
	var runs []types.Run
	pos := 0
	flush := func(piece string) {
		if transform != nil {
			piece = transform(piece)
		}
		runs = append(runs, Split(piece)...)
	}
	for _, r := range protected {
		if r.Start < pos || r.End > len(content) || r.Start >= r.End {
			continue
		}
		flush(content[pos:r.Start])
		runs = append(runs, types.Run{Kind: types.RunText, Value: content[r.Start:r.End]})
		pos = r.End
	}
	flush(content[pos:])
	return MergeText(runs)
}

// MergeText 合并相邻的文本 Run
func MergeText(runs []types.Run) []types.Run {
	if len(runs) < 2 {
		return runs
	}
	out := make([]types.Run, 1, len(runs))
	out[0] = runs[0]
	for _, r := range runs[1:] {
		prev := &out[len(out)-1]
		if r.Kind == types.RunText && prev.Kind == types.RunText {
			prev.Value += r.Value
			continue
		}
		out = append(out, r)
	}
	return out
}

// Reconstruct 按序拼接所有 Run 的原始文本
func Reconstruct(runs []types.Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Source())
	}
	return b.String()
}
