package mathchat

import "github.com/mattn/go-runewidth"

// DisplayWidth 计算文本在等宽终端中的显示宽度（按最长的一行）
//
// 东亚宽字符计为 2 列，组合字符计为 0 列。
func DisplayWidth(text string) int {
	widest, line := 0, 0
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			line = runewidth.StringWidth(text[start:i])
			if line > widest {
				widest = line
			}
			start = i + 1
		}
	}
	return widest
}
