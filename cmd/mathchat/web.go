package main

import (
	"github.com/spf13/cobra"

	"github.com/riverfjs/mathchat-go/internal/web"
)

func newWebCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the chat in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Web.Addr
			}
			srv := web.New(web.Options{
				Backend: client,
				Chat:    a.chatOptions(),
				Render:  a.renderOptions(),
				Logger:  a.logger.Named("web"),
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
