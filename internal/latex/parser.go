package latex

import (
	"strings"
	"unicode"
)

// Parser 递归下降 LaTeX→Unicode 转换引擎
//
// 符号映射集中在 symbols.go；未知命令原样输出，除非开启 Strict。
// 可选参数用 [...]，无法用 Unicode 表示时退化为可读 ASCII。
type Parser struct {
	// Strict 为 true 时，未知命令会让 Typeset 返回错误
	Strict bool

	unknown []string
}

// NewParser 创建新的 LaTeX 解析器
func NewParser() *Parser {
	return &Parser{}
}

// ──────────────────────────────────────────────
// 字符级变换
// ──────────────────────────────────────────────

// TranslateCombining 将组合字符应用于文本
func TranslateCombining(command, text string) string {
	mark, ok := Combining[command]
	if !ok {
		return text
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}

	switch mark.Type {
	case FirstChar:
		// 跳过首字符之后已有的空白和组合字符
		i := 1
		for i < len(runes) && (unicode.IsSpace(runes[i]) || isCombiningChar(runes[i])) {
			i++
		}
		return string(runes[:i]) + string(mark.Char) + string(runes[i:])
	case LastChar:
		return text + string(mark.Char)
	case AllChars:
		var b strings.Builder
		for _, r := range runes {
			b.WriteRune(r)
			b.WriteRune(mark.Char)
		}
		return b.String()
	}
	return text
}

// MakeNot 生成带否定符号的字符
func MakeNot(negated string) string {
	trimmed := strings.TrimSpace(negated)
	if trimmed == "" {
		return " "
	}
	if sym, ok := NotMap[trimmed]; ok {
		return sym
	}
	runes := []rune(trimmed)
	return string(runes[0]) + "\u0338" + string(runes[1:])
}

// mapAll 逐字符映射，有任一字符无法映射时返回空字符串
func mapAll(text string, table map[rune]rune) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, ch := range text {
		mapped, ok := table[ch]
		if !ok {
			return ""
		}
		b.WriteRune(mapped)
	}
	return b.String()
}

// TryMakeSubscript 尝试将文本完整转换为 Unicode 下标，失败返回空字符串
func TryMakeSubscript(text string) string {
	return mapAll(text, Subscripts)
}

// TryMakeSuperscript 尝试将文本完整转换为 Unicode 上标，失败返回空字符串
func TryMakeSuperscript(text string) string {
	return mapAll(text, Superscripts)
}

// MakeSubscript 生成下标表示
func MakeSubscript(text string) string {
	return makeScript(text, "_", Subscripts)
}

// MakeSuperscript 生成上标表示
func MakeSuperscript(text string) string {
	return makeScript(text, "^", Superscripts)
}

func makeScript(text, marker string, table map[rune]rune) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if s := mapAll(text, table); s != "" {
		return s
	}
	if len([]rune(text)) == 1 {
		return marker + text
	}
	return marker + "(" + text + ")"
}

// TranslateStyles 翻译字体样式命令（\mathbb、\mathbf 等）
func TranslateStyles(command, text string) string {
	table, ok := LatexStyles[command]
	if !ok || table == nil {
		return text
	}
	var b strings.Builder
	for _, ch := range text {
		if styled, ok := table[ch]; ok {
			b.WriteRune(styled)
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// MakeSqrt 生成根号的 Unicode 表示
func MakeSqrt(index, radicand string) string {
	var radix string
	switch index {
	case "", "2":
		radix = "√"
	case "3":
		radix = "∛"
	case "4":
		radix = "∜"
	default:
		if sup := TryMakeSuperscript(index); sup != "" {
			radix = sup + "√"
		} else {
			radix = "(" + index + ")√"
		}
	}
	return radix + TranslateCombining("\\overline", radicand)
}

// MakeFraction 生成分数的 Unicode 表示
func MakeFraction(numerator, denominator string) string {
	n, d := strings.TrimSpace(numerator), strings.TrimSpace(denominator)
	if n == "" && d == "" {
		return ""
	}
	if frac, ok := FracMap[[2]string{n, d}]; ok {
		return frac
	}
	return maybeParenthesize(n) + "/" + maybeParenthesize(d)
}

// maybeParenthesize 含非字母数字时加括号
func maybeParenthesize(text string) string {
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !isCombiningChar(r) && r != '_' {
			return "(" + text + ")"
		}
	}
	return text
}

func isCombiningChar(r rune) bool {
	return (r >= '\u0300' && r <= '\u036F') ||
		(r >= '\u1AB0' && r <= '\u1AFF') ||
		(r >= '\u1DC0' && r <= '\u1DFF') ||
		(r >= '\u20D0' && r <= '\u20FF') ||
		(r >= '\uFE20' && r <= '\uFE2F')
}

// ──────────────────────────────────────────────
// 解析器核心
// ──────────────────────────────────────────────

// Parse 递归下降解析 LaTeX 字符串，转换为 Unicode
func (p *Parser) Parse(src string) string {
	var out []string
	i := 0

	// 混合分数：数字后紧跟 \frac 时补一个空格
	spaceBeforeFrac := func(cmd string) {
		if cmd != "\\frac" || len(out) == 0 {
			return
		}
		last := out[len(out)-1]
		if last != "" && last[len(last)-1] >= '0' && last[len(last)-1] <= '9' {
			out[len(out)-1] += " "
		}
	}

	for i < len(src) {
		switch c := src[i]; {
		case c == '\\':
			cmd, next := scanCommand(src, i)
			spaceBeforeFrac(cmd)
			var s string
			s, i = p.handleCommand(cmd, src, next)
			out = append(out, s)

		case c == '{':
			var s string
			s, i = p.parseBlock(src, i)
			out = append(out, s)

		case c == '_' || c == '^':
			i++
			arg := ""
			switch {
			case i >= len(src):
			case src[i] == '{':
				arg, i = p.parseBlock(src, i)
			case src[i] == '\\':
				cmd, next := scanCommand(src, i)
				spaceBeforeFrac(cmd)
				arg, i = p.handleCommand(cmd, src, next)
			default:
				arg, i = nextRune(src, i)
			}
			if c == '_' {
				out = append(out, MakeSubscript(arg))
			} else {
				out = append(out, MakeSuperscript(arg))
			}

		case isSpace(c):
			var s string
			s, i = parseSpaces(src, i)
			out = append(out, s)

		default:
			var s string
			s, i = nextRune(src, i)
			out = append(out, s)
		}
	}
	return strings.Join(out, "")
}

// textCommands 参数原样输出的命令
var textCommands = map[string]bool{
	"\\text": true, "\\operatorname": true, "\\mbox": true,
	"\\textrm": true, "\\textup": true, "\\mathop": true,
	"\\textnormal": true,
}

// structuralCommands 由 handleCommand 直接处理的命令
var structuralCommands = map[string]bool{
	"\\not": true, "\\frac": true, "\\dfrac": true, "\\tfrac": true, "\\cfrac": true,
	"\\sqrt": true, "\\left": true, "\\right": true,
	"\\binom": true, "\\tbinom": true, "\\dbinom": true, "\\boxed": true,
	"\\pmod": true, "\\phantom": true, "\\hphantom": true, "\\vphantom": true,
	"\\overset": true, "\\underset": true, "\\stackrel": true, "\\substack": true,
	"\\color": true, "\\textcolor": true, "\\cancel": true, "\\bcancel": true,
	"\\xcancel": true, "\\sout": true, "\\overbrace": true, "\\underbrace": true,
	"\\xrightarrow": true, "\\xleftarrow": true, "\\begin": true, "\\end": true,
}

// IsKnownCommand 命令是否有对应的转换规则
func IsKnownCommand(cmd string) bool {
	if _, ok := LatexSymbols[cmd]; ok {
		return true
	}
	if _, ok := Combining[cmd]; ok {
		return true
	}
	if _, ok := LatexStyles[cmd]; ok {
		return true
	}
	return textCommands[cmd] || structuralCommands[cmd]
}

func (p *Parser) handleCommand(cmd, src string, i int) (string, int) {
	// 符号表直查（最常见路径）
	if sym, ok := LatexSymbols[cmd]; ok {
		return sym, i
	}
	if _, ok := Combining[cmd]; ok {
		arg, next := p.parseBlock(src, i)
		return TranslateCombining(cmd, arg), next
	}
	if _, ok := LatexStyles[cmd]; ok {
		arg, next := p.parseBlock(src, i)
		return TranslateStyles(cmd, arg), next
	}
	if textCommands[cmd] {
		return p.rawBlock(src, i)
	}

	switch cmd {
	case "\\not":
		if i >= len(src) {
			return "\u0338", i
		}
		if src[i] == '\\' {
			next, j := scanCommand(src, i)
			sym := LatexSymbols[next]
			if sym == "" {
				sym = next
			}
			return MakeNot(sym), j
		}
		s, j := nextRune(src, i)
		return MakeNot(s), j

	case "\\frac", "\\dfrac", "\\tfrac", "\\cfrac":
		num, j := p.parseBlock(src, i)
		den, k := p.parseBlock(src, j)
		return MakeFraction(num, den), k

	case "\\sqrt":
		opt, j := p.parseOptional(src, i)
		arg, k := p.parseBlock(src, j)
		return MakeSqrt(strings.TrimSpace(opt), strings.TrimSpace(arg)), k

	case "\\left", "\\right":
		return parseDelimiter(src, i)

	case "\\binom", "\\tbinom", "\\dbinom":
		n, j := p.parseBlock(src, i)
		k, l := p.parseBlock(src, j)
		return "C(" + n + "," + k + ")", l

	case "\\boxed":
		arg, j := p.parseBlock(src, i)
		return "[" + arg + "]", j

	case "\\pmod":
		arg, j := p.parseBlock(src, i)
		return " (mod " + arg + ")", j

	case "\\phantom", "\\hphantom", "\\vphantom":
		arg, j := p.parseBlock(src, i)
		return strings.Repeat(" ", max(len([]rune(arg)), 1)), j

	case "\\overset", "\\stackrel":
		over, j := p.parseBlock(src, i)
		base, k := p.parseBlock(src, j)
		if sup := TryMakeSuperscript(over); sup != "" {
			return base + sup, k
		}
		return base + "^(" + over + ")", k

	case "\\underset":
		under, j := p.parseBlock(src, i)
		base, k := p.parseBlock(src, j)
		if sub := TryMakeSubscript(under); sub != "" {
			return base + sub, k
		}
		return base + "_(" + under + ")", k

	case "\\substack":
		body, j := blockSource(src, i)
		var lines []string
		for _, line := range strings.Split(body, "\\\\") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, p.Parse(line))
			}
		}
		return strings.Join(lines, ", "), j

	case "\\color":
		_, j := blockSource(src, i)
		return "", j

	case "\\textcolor":
		_, j := blockSource(src, i)
		return p.parseBlock(src, j)

	case "\\cancel", "\\bcancel", "\\xcancel", "\\sout", "\\underbrace":
		arg, j := p.parseBlock(src, i)
		return TranslateCombining("\\underline", arg), j

	case "\\overbrace":
		arg, j := p.parseBlock(src, i)
		return TranslateCombining("\\overline", arg), j

	case "\\xrightarrow", "\\xleftarrow":
		_, j := p.parseOptional(src, i)
		arg, k := p.parseBlock(src, j)
		arrow := "→"
		if cmd == "\\xleftarrow" {
			arrow = "←"
		}
		if strings.TrimSpace(arg) != "" {
			return arrow + "(" + arg + ")", k
		}
		return arrow, k

	case "\\begin":
		env, j := parseEnvName(src, i)
		body, k := environmentBody(src, j, env)
		return p.renderEnvironment(env, body), k

	case "\\end":
		_, j := parseEnvName(src, i)
		return "", j
	}

	// 兜底：返回原始命令文本
	if p.Strict {
		p.unknown = append(p.unknown, cmd)
	}
	return cmd, i
}

// ──────────────────────────────────────────────
// 词法
// ──────────────────────────────────────────────

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// scanCommand 读取 \name 或 \x，返回命令及其后的位置
func scanCommand(src string, start int) (string, int) {
	i := start + 1
	if i >= len(src) {
		return "\\", i
	}
	if !isLetter(src[i]) {
		_, next := nextRune(src, i)
		return src[start:next], next
	}
	for i < len(src) && isLetter(src[i]) {
		i++
	}
	return src[start:i], i
}

// nextRune 读取一个完整的 UTF-8 字符
func nextRune(src string, i int) (string, int) {
	for j := i + 1; j <= len(src); j++ {
		if j == len(src) || src[j]&0xC0 != 0x80 {
			return src[i:j], j
		}
	}
	return src[i:], len(src)
}

// blockSource 返回 {...} 中的原始文本；无大括号时读取单个 token
func blockSource(src string, start int) (string, int) {
	for start < len(src) && isSpace(src[start]) {
		start++
	}
	if start >= len(src) {
		return "", start
	}
	switch src[start] {
	case '{':
	case '\\':
		cmd, next := scanCommand(src, start)
		return cmd, next
	default:
		return nextRune(src, start)
	}

	depth, pos := 1, start+1
	for pos < len(src) {
		switch src[pos] {
		case '\\':
			pos += 2
			continue
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return src[start+1 : pos], pos + 1
		}
		pos++
	}
	// 未闭合：吃掉剩余部分
	return src[start+1:], len(src)
}

func (p *Parser) parseBlock(src string, start int) (string, int) {
	j := start
	for j < len(src) && isSpace(src[j]) {
		j++
	}
	if j < len(src) && src[j] == '\\' {
		// 无 {} 包裹的命令作为单个参数
		cmd, next := scanCommand(src, j)
		return p.handleCommand(cmd, src, next)
	}
	body, next := blockSource(src, start)
	return p.Parse(body), next
}

// rawBlock 取 {...} 的原文，不做转换
func (p *Parser) rawBlock(src string, start int) (string, int) {
	return blockSource(src, start)
}

func (p *Parser) parseOptional(src string, start int) (string, int) {
	if start >= len(src) || src[start] != '[' {
		return "", start
	}
	depth, pos := 1, start+1
	for pos < len(src) {
		switch src[pos] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 {
			return p.Parse(src[start+1 : pos]), pos + 1
		}
		pos++
	}
	return p.Parse(src[start+1:]), len(src)
}

func parseSpaces(src string, start int) (string, int) {
	end := start
	newline := false
	for end < len(src) && isSpace(src[end]) {
		if src[end] == '\n' {
			newline = true
		}
		end++
	}
	if newline {
		return "\n", end
	}
	return " ", end
}

// parseDelimiter 读取 \left / \right 后的定界符
func parseDelimiter(src string, i int) (string, int) {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	if i >= len(src) {
		return "", i
	}
	switch src[i] {
	case '\\':
		cmd, next := scanCommand(src, i)
		if sym, ok := LatexSymbols[cmd]; ok {
			return sym, next
		}
		return strings.TrimPrefix(cmd, "\\"), next
	case '.':
		// 不可见定界符
		return "", i + 1
	}
	return nextRune(src, i)
}

// ──────────────────────────────────────────────
// 环境
// ──────────────────────────────────────────────

func parseEnvName(src string, i int) (string, int) {
	if i < len(src) && src[i] == '{' {
		if end := strings.IndexByte(src[i:], '}'); end != -1 {
			return src[i+1 : i+end], i + end + 1
		}
	}
	return "", i
}

// environmentBody 找到与 \begin{env} 配对的 \end{env}，允许同名嵌套
func environmentBody(src string, i int, env string) (string, int) {
	begin, end := "\\begin{"+env+"}", "\\end{"+env+"}"
	depth, pos := 1, i
	for pos < len(src) {
		nb := strings.Index(src[pos:], begin)
		ne := strings.Index(src[pos:], end)
		if ne == -1 {
			break
		}
		if nb != -1 && nb < ne {
			depth++
			pos += nb + len(begin)
			continue
		}
		depth--
		if depth == 0 {
			return src[i : pos+ne], pos + ne + len(end)
		}
		pos += ne + len(end)
	}
	return src[i:], len(src)
}

// 矩阵类环境 → (左定界符, 右定界符)
var matrixTypes = map[string][2]string{
	"matrix":      {"", ""},
	"pmatrix":     {"(", ")"},
	"bmatrix":     {"[", "]"},
	"Bmatrix":     {"{", "}"},
	"vmatrix":     {"|", "|"},
	"Vmatrix":     {"‖", "‖"},
	"smallmatrix": {"", ""},
}

var alignTypes = map[string]bool{
	"align": true, "align*": true, "aligned": true, "gather": true, "gather*": true,
	"gathered": true, "equation": true, "equation*": true, "multline": true,
	"multline*": true, "split": true, "flalign": true, "flalign*": true,
	"alignat": true, "eqnarray": true,
}

func (p *Parser) renderEnvironment(env, body string) string {
	if d, ok := matrixTypes[env]; ok {
		return p.renderMatrix(body, d[0], d[1], env == "smallmatrix")
	}
	switch {
	case env == "cases" || env == "dcases":
		return p.renderCases(body)
	case alignTypes[env]:
		return p.renderAlign(body)
	case env == "array":
		return p.renderArray(body)
	}
	return p.Parse(body)
}

func splitRows(body string) []string {
	var rows []string
	for _, row := range strings.Split(body, "\\\\") {
		if row = strings.TrimSpace(row); row != "" {
			rows = append(rows, row)
		}
	}
	return rows
}

func (p *Parser) renderMatrix(body, left, right string, compact bool) string {
	cellSep, rowSep := "  ", "\n"
	if compact {
		cellSep, rowSep = ", ", "; "
	}
	var rows []string
	for _, row := range splitRows(body) {
		var cells []string
		for _, cell := range strings.Split(row, "&") {
			cells = append(cells, p.Parse(strings.TrimSpace(cell)))
		}
		rows = append(rows, strings.Join(cells, cellSep))
	}
	return left + strings.Join(rows, rowSep) + right
}

func (p *Parser) renderCases(body string) string {
	var parts []string
	for _, row := range splitRows(body) {
		value, cond, _ := strings.Cut(row, "&")
		line := p.Parse(strings.TrimSpace(value))
		if c := p.Parse(strings.TrimSpace(cond)); c != "" {
			line += ", " + c
		}
		parts = append(parts, line)
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return "⎧ " + parts[0]
	}
	lines := make([]string, len(parts))
	for i, part := range parts {
		brace := "⎨ "
		if i == 0 {
			brace = "⎧ "
		} else if i == len(parts)-1 {
			brace = "⎩ "
		}
		lines[i] = brace + part
	}
	return strings.Join(lines, "\n")
}

func (p *Parser) renderAlign(body string) string {
	var lines []string
	for _, row := range splitRows(body) {
		lines = append(lines, p.Parse(strings.ReplaceAll(row, "&", " ")))
	}
	return strings.Join(lines, "\n")
}

func (p *Parser) renderArray(body string) string {
	// 第一个 {} 是列格式（如 {ccc}），跳过
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") {
		if end := strings.IndexByte(trimmed, '}'); end != -1 {
			body = trimmed[end+1:]
		}
	}
	return p.renderMatrix(body, "", "", false)
}

// Convert 将 LaTeX 字符串转换为 Unicode 文本。出错时返回原文。
func (p *Parser) Convert(src string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = src
		}
	}()
	return p.Parse(src)
}
