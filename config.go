package mathchat

import (
	"sync"

	"github.com/riverfjs/mathchat-go/internal/types"
)

// 导出类型别名
type HTMLClasses = types.HTMLClasses
type RenderConfig = types.RenderConfig

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultRenderConfig()
	})
	return defaultConfig
}

// NewConfig 返回一份新的默认配置，可自由修改
func NewConfig() *RenderConfig {
	return types.DefaultRenderConfig()
}
