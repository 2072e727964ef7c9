package mathchat

import "github.com/riverfjs/mathchat-go/internal/latex"

// Typesetter 将公式源码排版为展示文本，无法排版时返回错误
type Typesetter interface {
	Typeset(tex string) (string, error)
}

// TypesetterFunc adapts a function to the Typesetter interface.
type TypesetterFunc func(tex string) (string, error)

// Typeset calls f(tex).
func (f TypesetterFunc) Typeset(tex string) (string, error) {
	return f(tex)
}

// DefaultTypesetter LaTeX → Unicode 排版，每次调用使用独立的解析器
var DefaultTypesetter Typesetter = TypesetterFunc(latex.Typeset)

// StrictTypesetter 与 DefaultTypesetter 相同，但未知命令视为错误
var StrictTypesetter Typesetter = TypesetterFunc(func(tex string) (string, error) {
	p := latex.NewParser()
	p.Strict = true
	return p.Typeset(tex)
})

// Options holds options for segmentation and rendering.
type Options struct {
	CodeAware     bool
	LatexBrackets bool
	Typesetter    Typesetter
	Config        *RenderConfig
}

// Option is a function that configures Options.
type Option func(*Options)

// WithCodeAware 代码（行内代码、代码块）中的 $ 和 ** 不做解析
func WithCodeAware(enable bool) Option {
	return func(opts *Options) {
		opts.CodeAware = enable
	}
}

// WithLatexBrackets 切分前将 \(...\) 和 \[...\] 改写为 $...$ 和 $$...$$
func WithLatexBrackets(enable bool) Option {
	return func(opts *Options) {
		opts.LatexBrackets = enable
	}
}

// WithTypesetter sets the math typesetter used by Render.
func WithTypesetter(ts Typesetter) Option {
	return func(opts *Options) {
		if ts != nil {
			opts.Typesetter = ts
		}
	}
}

// WithConfig sets a custom RenderConfig.
func WithConfig(config *RenderConfig) Option {
	return func(opts *Options) {
		if config != nil {
			opts.Config = config
		}
	}
}

func defaultOptions() *Options {
	return &Options{
		Typesetter: DefaultTypesetter,
		Config:     DefaultConfig(),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
