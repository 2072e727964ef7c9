package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	mathchat "github.com/riverfjs/mathchat-go"
	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/chat"
	"github.com/riverfjs/mathchat-go/internal/config"
)

// app 各子命令共享的运行时状态，由 PersistentPreRunE 初始化
type app struct {
	configPath string
	backendURL string
	theme      string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "mathchat",
		Short:         "Chat with the Math Professor",
		Long:          "mathchat is a terminal and web client for a math question-answering service.\nRun without a subcommand to start the interactive chat.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runChat,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/mathchat/config.toml)")
	flags.StringVarP(&a.backendURL, "backend-url", "b", "", "backend base URL (overrides config)")
	flags.StringVar(&a.theme, "theme", "", "color theme: auto, dark, light or plain")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newChatCmd(a),
		newAskCmd(a),
		newSegmentCmd(a),
		newHealthCmd(a),
		newWebCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
	}
	if a.theme != "" {
		cfg.UI.Theme = a.theme
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	// 交互式界面占用终端，只在指定了日志文件时记录
	interactive := cmd.Name() == "chat" || cmd == cmd.Root()
	a.logger, err = newLogger(cfg.Log, interactive)
	if err != nil {
		return err
	}
	mathchat.SetLogger(a.logger.Named("render"))
	return nil
}

// newLogger 根据配置创建 zap logger
func newLogger(cfg config.LogConfig, interactive bool) (*zap.Logger, error) {
	if cfg.File == "" && interactive {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		zc.OutputPaths = []string{cfg.File}
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func (a *app) client() (*backend.Client, error) {
	return backend.New(backend.Options{
		BaseURL:           a.cfg.Backend.URL,
		Timeout:           a.cfg.Backend.Timeout,
		RequestsPerSecond: a.cfg.Backend.RequestsPerSecond,
		Logger:            a.logger.Named("backend"),
	})
}

func (a *app) chatOptions() chat.Options {
	return chat.Options{
		Greeting: a.cfg.Chat.Greeting,
		Refusal:  a.cfg.Chat.Refusal,
		Logger:   a.logger.Named("chat"),
	}
}

// renderOptions 切分与排版选项
func (a *app) renderOptions() []mathchat.Option {
	opts := []mathchat.Option{
		mathchat.WithLatexBrackets(a.cfg.Chat.LatexBrackets),
		mathchat.WithCodeAware(a.cfg.Chat.CodeAware),
	}
	if a.cfg.Chat.StrictMath {
		opts = append(opts, mathchat.WithTypesetter(mathchat.StrictTypesetter))
	}
	return opts
}
