package mathchat

import "go.uber.org/zap"

// Logger 全局日志记录器，默认丢弃所有日志
var Logger = zap.NewNop()

// SetLogger 设置自定义日志记录器，传 nil 恢复默认
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	Logger = logger
}
