package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riverfjs/mathchat-go/internal/chat"
	"github.com/riverfjs/mathchat-go/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runChat,
	}
}

func (a *app) runChat(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	conv := chat.New(client, a.chatOptions())
	a.logger.Info("chat started", zap.String("session_id", conv.SessionID()), zap.String("backend", client.BaseURL()))
	return tui.Run(cmd.Context(), tui.Options{
		Conversation: conv,
		Theme:        a.cfg.UI.Theme,
		Render:       a.renderOptions(),
		Logger:       a.logger.Named("tui"),
	})
}
