package segment

import "strings"

// NormalizeDelimiters 将 \[...\] 改写为 $$...$$，\(...\) 改写为 $...$
//
// 块级公式可以跨行但不能跨段落（空行），行内公式不能跨行。
// 内容为空或含 '$' 时保持原样，避免改写后产生歧义的定界符。
// 前面紧跟反斜杠的 \\[ 是 LaTeX 换行，不处理。
func NormalizeDelimiters(text string) string {
	if !strings.Contains(text, `\[`) && !strings.Contains(text, `\(`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i := 0; i+1 < len(text); {
		if text[i] != '\\' || (i > 0 && text[i-1] == '\\') {
			i++
			continue
		}
		var closer, open string
		var block bool
		switch text[i+1] {
		case '[':
			closer, open, block = `\]`, "$$", true
		case '(':
			closer, open = `\)`, "$"
		default:
			i++
			continue
		}
		end := strings.Index(text[i+2:], closer)
		if end < 0 {
			i += 2
			continue
		}
		inner := text[i+2 : i+2+end]
		if !validInner(inner, block) {
			i += 2
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString(open)
		b.WriteString(inner)
		b.WriteString(open)
		last = i + 2 + end + 2
		i = last
	}
	b.WriteString(text[last:])
	return b.String()
}

func validInner(inner string, block bool) bool {
	if strings.TrimSpace(inner) == "" || strings.Contains(inner, "$") {
		return false
	}
	if block {
		return !strings.Contains(inner, "\n\n")
	}
	return !strings.Contains(inner, "\n")
}
