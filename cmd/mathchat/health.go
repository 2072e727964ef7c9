package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverfjs/mathchat-go/internal/backend"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %s", client.BaseURL(), backend.Describe(err))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", client.BaseURL())
			return err
		},
	}
}
