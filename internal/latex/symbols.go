package latex

// CombiningType 组合字符的附着方式
type CombiningType int

const (
	// FirstChar 附着在第一个字符后
	FirstChar CombiningType = iota
	// LastChar 附着在末尾
	LastChar
	// AllChars 附着在每个字符后（上划线、下划线）
	AllChars
)

// CombiningMark 组合字符及其附着方式
type CombiningMark struct {
	Char rune
	Type CombiningType
}

// Combining 重音类命令 → 组合字符
var Combining = map[string]CombiningMark{
	"\\hat":            {'\u0302', FirstChar},
	"\\widehat":        {'\u0302', FirstChar},
	"\\check":          {'\u030C', FirstChar},
	"\\tilde":          {'\u0303', FirstChar},
	"\\widetilde":      {'\u0303', FirstChar},
	"\\acute":          {'\u0301', FirstChar},
	"\\grave":          {'\u0300', FirstChar},
	"\\dot":            {'\u0307', FirstChar},
	"\\ddot":           {'\u0308', FirstChar},
	"\\dddot":          {'\u20DB', FirstChar},
	"\\breve":          {'\u0306', FirstChar},
	"\\bar":            {'\u0304', FirstChar},
	"\\vec":            {'\u20D7', FirstChar},
	"\\mathring":       {'\u030A', FirstChar},
	"\\overrightarrow": {'\u20D7', LastChar},
	"\\overleftarrow":  {'\u20D6', LastChar},
	"\\overline":       {'\u0305', AllChars},
	"\\underline":      {'\u0332', AllChars},
}

// NotMap 否定形式有专用码位的符号
var NotMap = map[string]string{
	"=": "≠",
	"<": "≮",
	">": "≯",
	"∈": "∉",
	"∋": "∌",
	"≡": "≢",
	"⊂": "⊄",
	"⊃": "⊅",
	"⊆": "⊈",
	"⊇": "⊉",
	"∼": "≁",
	"≃": "≄",
	"≅": "≇",
	"≈": "≉",
	"≤": "≰",
	"≥": "≱",
	"∃": "∄",
	"|": "∤",
	"∣": "∤",
	"∥": "∦",
	"≺": "⊀",
	"≻": "⊁",
}

// Subscripts 可用 Unicode 下标表示的字符
var Subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄',
	'5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
	'+': '₊', '-': '₋', '−': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ',
	'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ', 'n': 'ₙ', 'o': 'ₒ',
	'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ', 't': 'ₜ', 'u': 'ᵤ',
	'v': 'ᵥ', 'x': 'ₓ',
	'β': 'ᵦ', 'γ': 'ᵧ', 'ρ': 'ᵨ', 'φ': 'ᵩ', 'χ': 'ᵪ',
}

// Superscripts 可用 Unicode 上标表示的字符
var Superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻', '−': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ',
	'f': 'ᶠ', 'g': 'ᵍ', 'h': 'ʰ', 'i': 'ⁱ', 'j': 'ʲ',
	'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ', 'n': 'ⁿ', 'o': 'ᵒ',
	'p': 'ᵖ', 'r': 'ʳ', 's': 'ˢ', 't': 'ᵗ', 'u': 'ᵘ',
	'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ', 'z': 'ᶻ',
	'A': 'ᴬ', 'B': 'ᴮ', 'D': 'ᴰ', 'E': 'ᴱ', 'G': 'ᴳ',
	'H': 'ᴴ', 'I': 'ᴵ', 'J': 'ᴶ', 'K': 'ᴷ', 'L': 'ᴸ',
	'M': 'ᴹ', 'N': 'ᴺ', 'O': 'ᴼ', 'P': 'ᴾ', 'R': 'ᴿ',
	'T': 'ᵀ', 'U': 'ᵁ', 'V': 'ⱽ', 'W': 'ᵂ',
	'α': 'ᵅ', 'β': 'ᵝ', 'γ': 'ᵞ', 'δ': 'ᵟ', 'θ': 'ᶿ',
	'φ': 'ᵠ', 'χ': 'ᵡ', '′': '′', '*': '*', '∗': '*',
	'∘': '°',
}

// FracMap 有专用码位的分数
var FracMap = map[[2]string]string{
	{"1", "2"}:  "½",
	{"1", "3"}:  "⅓",
	{"2", "3"}:  "⅔",
	{"1", "4"}:  "¼",
	{"3", "4"}:  "¾",
	{"1", "5"}:  "⅕",
	{"2", "5"}:  "⅖",
	{"3", "5"}:  "⅗",
	{"4", "5"}:  "⅘",
	{"1", "6"}:  "⅙",
	{"5", "6"}:  "⅚",
	{"1", "7"}:  "⅐",
	{"1", "8"}:  "⅛",
	{"3", "8"}:  "⅜",
	{"5", "8"}:  "⅝",
	{"7", "8"}:  "⅞",
	{"1", "9"}:  "⅑",
	{"1", "10"}: "⅒",
}

// alphabet 从连续码位区间生成字母映射，overrides 处理 Unicode 保留位
func alphabet(upper, lower, digits rune, overrides map[rune]rune) map[rune]rune {
	m := make(map[rune]rune, 62)
	for i := rune(0); i < 26; i++ {
		if upper != 0 {
			m['A'+i] = upper + i
		}
		if lower != 0 {
			m['a'+i] = lower + i
		}
	}
	if digits != 0 {
		for i := rune(0); i < 10; i++ {
			m['0'+i] = digits + i
		}
	}
	for k, v := range overrides {
		m[k] = v
	}
	return m
}

var (
	boldStyle   = alphabet(0x1D400, 0x1D41A, 0x1D7CE, nil)
	italicStyle = alphabet(0x1D434, 0x1D44E, 0, map[rune]rune{'h': 'ℎ'})
)

// LatexStyles 字体样式命令 → 字符映射，nil 表示原样输出
var LatexStyles = map[string]map[rune]rune{
	"\\mathbf":     boldStyle,
	"\\boldsymbol": boldStyle,
	"\\bm":         boldStyle,
	"\\textbf":     boldStyle,
	"\\mathit":     italicStyle,
	"\\textit":     italicStyle,
	"\\mathbb": alphabet(0x1D538, 0x1D552, 0x1D7D8, map[rune]rune{
		'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
	}),
	"\\mathcal": alphabet(0x1D49C, 0x1D4B6, 0, map[rune]rune{
		'B': 'ℬ', 'E': 'ℰ', 'F': 'ℱ', 'H': 'ℋ', 'I': 'ℐ', 'L': 'ℒ', 'M': 'ℳ', 'R': 'ℛ',
		'e': 'ℯ', 'g': 'ℊ', 'o': 'ℴ',
	}),
	"\\mathscr": alphabet(0x1D49C, 0x1D4B6, 0, map[rune]rune{
		'B': 'ℬ', 'E': 'ℰ', 'F': 'ℱ', 'H': 'ℋ', 'I': 'ℐ', 'L': 'ℒ', 'M': 'ℳ', 'R': 'ℛ',
		'e': 'ℯ', 'g': 'ℊ', 'o': 'ℴ',
	}),
	"\\mathfrak": alphabet(0x1D504, 0x1D51E, 0, map[rune]rune{
		'C': 'ℭ', 'H': 'ℌ', 'I': 'ℑ', 'R': 'ℜ', 'Z': 'ℨ',
	}),
	"\\mathtt": alphabet(0x1D670, 0x1D68A, 0x1D7F6, nil),
	"\\texttt": alphabet(0x1D670, 0x1D68A, 0x1D7F6, nil),
	"\\mathrm": nil,
	"\\mathsf": nil,
	"\\textsf": nil,
}

// LatexSymbols 命令 → Unicode
var LatexSymbols = map[string]string{
	// 希腊字母
	"\\alpha": "α", "\\beta": "β", "\\gamma": "γ", "\\delta": "δ",
	"\\epsilon": "ϵ", "\\varepsilon": "ε", "\\zeta": "ζ", "\\eta": "η",
	"\\theta": "θ", "\\vartheta": "ϑ", "\\iota": "ι", "\\kappa": "κ",
	"\\lambda": "λ", "\\mu": "μ", "\\nu": "ν", "\\xi": "ξ",
	"\\pi": "π", "\\varpi": "ϖ", "\\rho": "ρ", "\\varrho": "ϱ",
	"\\sigma": "σ", "\\varsigma": "ς", "\\tau": "τ", "\\upsilon": "υ",
	"\\phi": "ϕ", "\\varphi": "φ", "\\chi": "χ", "\\psi": "ψ",
	"\\omega": "ω",
	"\\Gamma": "Γ", "\\Delta": "Δ", "\\Theta": "Θ", "\\Lambda": "Λ",
	"\\Xi": "Ξ", "\\Pi": "Π", "\\Sigma": "Σ", "\\Upsilon": "Υ",
	"\\Phi": "Φ", "\\Psi": "Ψ", "\\Omega": "Ω",

	// 二元运算
	"\\pm": "±", "\\mp": "∓", "\\times": "×", "\\div": "÷",
	"\\cdot": "⋅", "\\ast": "∗", "\\star": "⋆", "\\circ": "∘",
	"\\bullet": "∙", "\\oplus": "⊕", "\\ominus": "⊖", "\\otimes": "⊗",
	"\\oslash": "⊘", "\\odot": "⊙", "\\cup": "∪", "\\cap": "∩",
	"\\setminus": "∖", "\\wedge": "∧", "\\land": "∧", "\\vee": "∨",
	"\\lor": "∨", "\\sqcup": "⊔", "\\sqcap": "⊓", "\\uplus": "⊎",
	"\\amalg": "⨿", "\\dagger": "†", "\\ddagger": "‡",

	// 关系
	"\\leq": "≤", "\\le": "≤", "\\geq": "≥", "\\ge": "≥",
	"\\leqslant": "⩽", "\\geqslant": "⩾",
	"\\neq": "≠", "\\ne": "≠", "\\equiv": "≡", "\\approx": "≈",
	"\\cong": "≅", "\\sim": "∼", "\\simeq": "≃", "\\propto": "∝",
	"\\ll": "≪", "\\gg": "≫", "\\prec": "≺", "\\succ": "≻",
	"\\preceq": "⪯", "\\succeq": "⪰", "\\subset": "⊂", "\\supset": "⊃",
	"\\subseteq": "⊆", "\\supseteq": "⊇", "\\subsetneq": "⊊", "\\supsetneq": "⊋",
	"\\in": "∈", "\\notin": "∉", "\\ni": "∋", "\\mid": "∣",
	"\\nmid": "∤", "\\parallel": "∥", "\\perp": "⊥", "\\models": "⊨",
	"\\vdash": "⊢", "\\dashv": "⊣", "\\asymp": "≍", "\\doteq": "≐",
	"\\triangleq": "≜", "\\coloneqq": "≔",

	// 箭头
	"\\to": "→", "\\rightarrow": "→", "\\leftarrow": "←", "\\gets": "←",
	"\\leftrightarrow": "↔", "\\Rightarrow": "⇒", "\\Leftarrow": "⇐",
	"\\Leftrightarrow": "⇔", "\\implies": "⟹", "\\impliedby": "⟸",
	"\\iff": "⟺", "\\mapsto": "↦", "\\longrightarrow": "⟶",
	"\\longleftarrow": "⟵", "\\longmapsto": "⟼", "\\uparrow": "↑",
	"\\downarrow": "↓", "\\updownarrow": "↕", "\\Uparrow": "⇑",
	"\\Downarrow": "⇓", "\\nearrow": "↗", "\\searrow": "↘",
	"\\swarrow": "↙", "\\nwarrow": "↖", "\\hookrightarrow": "↪",
	"\\hookleftarrow": "↩", "\\rightleftharpoons": "⇌",

	// 大型运算符
	"\\sum": "∑", "\\prod": "∏", "\\coprod": "∐", "\\int": "∫",
	"\\iint": "∬", "\\iiint": "∭", "\\oint": "∮", "\\bigcup": "⋃",
	"\\bigcap": "⋂", "\\bigoplus": "⨁", "\\bigotimes": "⨂",
	"\\bigvee": "⋁", "\\bigwedge": "⋀",

	// 杂项
	"\\infty": "∞", "\\partial": "∂", "\\nabla": "∇", "\\forall": "∀",
	"\\exists": "∃", "\\nexists": "∄", "\\emptyset": "∅", "\\varnothing": "∅",
	"\\neg": "¬", "\\lnot": "¬", "\\angle": "∠", "\\measuredangle": "∡",
	"\\triangle": "△", "\\square": "□", "\\Box": "□", "\\diamond": "⋄",
	"\\prime": "′", "\\degree": "°", "\\hbar": "ℏ", "\\ell": "ℓ",
	"\\Re": "ℜ", "\\Im": "ℑ", "\\aleph": "ℵ", "\\wp": "℘",
	"\\therefore": "∴", "\\because": "∵", "\\top": "⊤", "\\bot": "⊥",
	"\\checkmark": "✓", "\\clubsuit": "♣", "\\diamondsuit": "♢",
	"\\heartsuit": "♡", "\\spadesuit": "♠", "\\flat": "♭", "\\sharp": "♯",
	"\\natural": "♮",

	// 定界符
	"\\langle": "⟨", "\\rangle": "⟩", "\\lceil": "⌈", "\\rceil": "⌉",
	"\\lfloor": "⌊", "\\rfloor": "⌋", "\\lvert": "|", "\\rvert": "|",
	"\\lVert": "‖", "\\rVert": "‖", "\\vert": "|", "\\Vert": "‖",
	"\\|": "‖", "\\{": "{", "\\}": "}", "\\lbrace": "{", "\\rbrace": "}",
	"\\lbrack": "[", "\\rbrack": "]",

	// 省略号
	"\\dots": "…", "\\ldots": "…", "\\cdots": "⋯", "\\vdots": "⋮",
	"\\ddots": "⋱", "\\dotsc": "…", "\\dotsb": "⋯",

	// 函数名
	"\\sin": "sin", "\\cos": "cos", "\\tan": "tan", "\\cot": "cot",
	"\\sec": "sec", "\\csc": "csc", "\\arcsin": "arcsin", "\\arccos": "arccos",
	"\\arctan": "arctan", "\\sinh": "sinh", "\\cosh": "cosh", "\\tanh": "tanh",
	"\\coth": "coth", "\\log": "log", "\\ln": "ln", "\\lg": "lg",
	"\\exp": "exp", "\\lim": "lim", "\\liminf": "lim inf", "\\limsup": "lim sup",
	"\\max": "max", "\\min": "min", "\\sup": "sup", "\\inf": "inf",
	"\\det": "det", "\\dim": "dim", "\\ker": "ker", "\\deg": "deg",
	"\\gcd": "gcd", "\\lcm": "lcm", "\\arg": "arg", "\\Pr": "Pr",
	"\\hom": "hom", "\\mod": " mod ", "\\bmod": " mod ",

	// 间距
	"\\,": " ", "\\:": " ", "\\;": " ", "\\>": " ", "\\!": "",
	"\\ ": " ", "\\quad": "  ", "\\qquad": "    ", "\\enspace": " ",
	"\\thinspace": " ", "\\medspace": " ", "\\thickspace": " ",
	"\\\\": "\n", "\\newline": "\n",

	// 转义
	"\\%": "%", "\\$": "$", "\\&": "&", "\\#": "#", "\\_": "_",

	// 无输出的尺寸命令
	"\\displaystyle": "", "\\textstyle": "", "\\scriptstyle": "",
	"\\limits": "", "\\nolimits": "", "\\big": "", "\\Big": "",
	"\\bigg": "", "\\Bigg": "", "\\bigl": "", "\\bigr": "",
	"\\Bigl": "", "\\Bigr": "", "\\biggl": "", "\\biggr": "",
	"\\middle": "",
}
