// Package config 加载 mathchat 的应用配置
//
// 优先级：内置默认值 < TOML 文件 < 环境变量。默认路径为
// $XDG_CONFIG_HOME/mathchat/config.toml（各平台取 os.UserConfigDir）。
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
)

// 环境变量
const (
	EnvBackendURL = "MATHCHAT_BACKEND_URL"
	EnvLogLevel   = "MATHCHAT_LOG_LEVEL"
	EnvTheme      = "MATHCHAT_THEME"
)

// 主题
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemePlain = "plain"
)

// Config 应用配置
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Chat    ChatConfig    `toml:"chat"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
	Web     WebConfig     `toml:"web"`
}

// BackendConfig 问答服务
type BackendConfig struct {
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
	// RequestsPerSecond 客户端限速，0 表示不限
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ChatConfig 对话与渲染
type ChatConfig struct {
	Greeting string `toml:"greeting"`
	Refusal  string `toml:"refusal"`
	// LatexBrackets 将 \( \) 与 \[ \] 视为公式定界符
	LatexBrackets bool `toml:"latex_brackets"`
	// CodeAware 不在 Markdown 代码中识别公式
	CodeAware bool `toml:"code_aware"`
	// StrictMath 未知命令视为排版错误
	StrictMath bool `toml:"strict_math"`
}

// UIConfig 终端界面
type UIConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig 日志
type LogConfig struct {
	Level string `toml:"level"`
	// File 为空时 TUI 不记录日志，其他命令写 stderr
	File string `toml:"file"`
}

// WebConfig 网页客户端
type WebConfig struct {
	Addr string `toml:"addr"`
}

// Default 返回内置默认配置
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: 60 * time.Second,
		},
		UI:  UIConfig{Theme: ThemeAuto},
		Log: LogConfig{Level: "info"},
		Web: WebConfig{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath 默认配置文件路径
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "mathchat", "config.toml"), nil
}

// Load 读取配置
//
// path 为空时使用 DefaultPath，文件不存在则只用默认值；
// 显式指定的文件必须存在。
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile 将 TOML 文件合并到 c，文件中未出现的字段保持不变
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("decode %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnvOverrides 应用环境变量
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
}

// Encode 以 TOML 写出配置
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ValidationError 单个字段的校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors 多个校验错误
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate 校验配置，返回 ValidateErrors
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL %q, must be http(s)://host[:port]", c.Backend.URL),
		})
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout", Message: "must not be negative"})
	}
	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "backend.requests_per_second", Message: "must not be negative"})
	}

	switch c.UI.Theme {
	case ThemeAuto, ThemeDark, ThemeLight, ThemePlain:
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme %q, must be one of: auto, dark, light, plain", c.UI.Theme),
		})
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if c.Web.Addr == "" {
		errs = append(errs, ValidationError{Field: "web.addr", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
