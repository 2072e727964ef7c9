package latex

import (
	"fmt"
	"strings"
)

// SyntaxError 描述公式中的结构性错误
type SyntaxError struct {
	Pos int // 字节偏移
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("latex: %s at offset %d", e.Msg, e.Pos)
}

// Typeset 使用默认解析器排版公式
func Typeset(src string) (string, error) {
	return NewParser().Typeset(src)
}

// Typeset 校验并转换公式。结构错误返回 *SyntaxError，转换过程中的 panic 也转为错误。
func (p *Parser) Typeset(src string) (out string, err error) {
	if err := Validate(src); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("latex: typeset %q: %v", src, r)
		}
	}()

	p.unknown = p.unknown[:0]
	out = p.Parse(src)
	if p.Strict && len(p.unknown) > 0 {
		return "", &SyntaxError{Pos: strings.Index(src, p.unknown[0]), Msg: "undefined control sequence " + p.unknown[0]}
	}
	return out, nil
}

// 需要固定个数参数的命令
var requiredArgs = map[string]int{
	"\\frac": 2, "\\dfrac": 2, "\\tfrac": 2, "\\cfrac": 2,
	"\\binom": 2, "\\tbinom": 2, "\\dbinom": 2,
	"\\overset": 2, "\\underset": 2, "\\stackrel": 2,
	"\\textcolor": 2,
	"\\sqrt": 1, "\\boxed": 1, "\\pmod": 1, "\\substack": 1, "\\color": 1,
	"\\phantom": 1, "\\hphantom": 1, "\\vphantom": 1,
	"\\cancel": 1, "\\bcancel": 1, "\\xcancel": 1, "\\sout": 1,
	"\\overbrace": 1, "\\underbrace": 1,
	"\\xrightarrow": 1, "\\xleftarrow": 1,
}

// 参数前可以带 [...] 的命令
var optionalArg = map[string]bool{"\\sqrt": true, "\\xrightarrow": true, "\\xleftarrow": true}

// argCount 命令必需的参数个数；重音、字体样式与文本命令各取一个
func argCount(cmd string) int {
	if n, ok := requiredArgs[cmd]; ok {
		return n
	}
	if _, ok := Combining[cmd]; ok {
		return 1
	}
	if _, ok := LatexStyles[cmd]; ok {
		return 1
	}
	if textCommands[cmd] {
		return 1
	}
	return 0
}

// Validate 检查公式结构：括号配对、\left/\right、\begin/\end、上下标与命令参数
func Validate(src string) error {
	var (
		braces []int
		lefts  []int
		envs   []envFrame
	)
	for i := 0; i < len(src); {
		switch src[i] {
		case '{':
			braces = append(braces, i)
			i++
		case '}':
			if len(braces) == 0 {
				return &SyntaxError{Pos: i, Msg: "unexpected }"}
			}
			braces = braces[:len(braces)-1]
			i++
		case '^', '_':
			if _, ok := skipArg(src, i+1); !ok {
				return &SyntaxError{Pos: i, Msg: fmt.Sprintf("missing argument for %c", src[i])}
			}
			i++
		case '\\':
			if i+1 >= len(src) {
				return &SyntaxError{Pos: i, Msg: "trailing backslash"}
			}
			cmd, next := scanCommand(src, i)
			switch cmd {
			case "\\left":
				lefts = append(lefts, i)
				if _, ok := skipDelimiter(src, next); !ok {
					return &SyntaxError{Pos: i, Msg: "missing delimiter after \\left"}
				}
			case "\\right":
				if len(lefts) == 0 {
					return &SyntaxError{Pos: i, Msg: "\\right without matching \\left"}
				}
				lefts = lefts[:len(lefts)-1]
				if _, ok := skipDelimiter(src, next); !ok {
					return &SyntaxError{Pos: i, Msg: "missing delimiter after \\right"}
				}
			case "\\begin", "\\end":
				name, after := parseEnvName(src, next)
				if name == "" {
					return &SyntaxError{Pos: i, Msg: "missing environment name after " + cmd}
				}
				if cmd == "\\begin" {
					envs = append(envs, envFrame{name: name, pos: i})
				} else {
					if len(envs) == 0 {
						return &SyntaxError{Pos: i, Msg: "\\end{" + name + "} without \\begin"}
					}
					if top := envs[len(envs)-1]; top.name != name {
						return &SyntaxError{Pos: i, Msg: "\\begin{" + top.name + "} ended by \\end{" + name + "}"}
					}
					envs = envs[:len(envs)-1]
				}
				next = after
			default:
				if n := argCount(cmd); n > 0 {
					j := next
					if optionalArg[cmd] {
						j = skipOptional(src, j)
					}
					for k := 0; k < n; k++ {
						var ok bool
						if j, ok = skipArg(src, j); !ok {
							return &SyntaxError{Pos: i, Msg: fmt.Sprintf("%s expects %d argument(s)", cmd, n)}
						}
					}
				}
			}
			i = next
		default:
			i++
		}
	}

	switch {
	case len(braces) > 0:
		return &SyntaxError{Pos: braces[len(braces)-1], Msg: "unclosed {"}
	case len(lefts) > 0:
		return &SyntaxError{Pos: lefts[len(lefts)-1], Msg: "\\left without matching \\right"}
	case len(envs) > 0:
		top := envs[len(envs)-1]
		return &SyntaxError{Pos: top.pos, Msg: "unclosed environment " + top.name}
	}
	return nil
}

type envFrame struct {
	name string
	pos  int
}

// skipArg 跳过一个参数：{...}、\cmd 或单个字符
func skipArg(src string, i int) (int, bool) {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	if i >= len(src) {
		return i, false
	}
	switch src[i] {
	case '}', '^', '_', '&':
		return i, false
	case '\\':
		if i+1 >= len(src) {
			return i, false
		}
		_, next := scanCommand(src, i)
		return next, true
	case '{':
		depth := 0
		for j := i; j < len(src); j++ {
			switch src[j] {
			case '\\':
				j++
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return j + 1, true
				}
			}
		}
		// 未闭合的大括号由外层报告
		return len(src), true
	}
	_, next := nextRune(src, i)
	return next, true
}

func skipOptional(src string, i int) int {
	if i >= len(src) || src[i] != '[' {
		return i
	}
	if end := strings.IndexByte(src[i:], ']'); end != -1 {
		return i + end + 1
	}
	return i
}

func skipDelimiter(src string, i int) (int, bool) {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	if i >= len(src) {
		return i, false
	}
	if src[i] == '\\' {
		if i+1 >= len(src) {
			return i, false
		}
		_, next := scanCommand(src, i)
		return next, true
	}
	_, next := nextRune(src, i)
	return next, true
}
