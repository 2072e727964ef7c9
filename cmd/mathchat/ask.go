package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	mathchat "github.com/riverfjs/mathchat-go"
	"github.com/riverfjs/mathchat-go/internal/backend"
	"github.com/riverfjs/mathchat-go/internal/chat"
	"github.com/riverfjs/mathchat-go/internal/termrender"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		raw     bool
		session string
	)
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long:  "Ask a single question. The question is read from the arguments, or from stdin when none are given.\nMath in the answer is typeset; use --raw to print the answer unchanged.",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(question) == "" {
				return errors.New("empty question")
			}
			if session == "" {
				session = chat.NewSessionID()
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			answer, err := client.Ask(cmd.Context(), question, session)
			if err != nil {
				return fmt.Errorf("%s: %w", backend.Describe(err), err)
			}

			out := cmd.OutOrStdout()
			if raw {
				_, err = fmt.Fprintln(out, answer)
				return err
			}
			opts := a.renderOptions()
			if width, ok := terminalWidth(out); ok {
				r := termrender.Renderer{Styles: termrender.NewStyles(a.cfg.UI.Theme), Width: width}
				_, err = fmt.Fprintln(out, r.Render(mathchat.Render(mathchat.SegmentWith(answer, opts...), opts...)))
				return err
			}
			_, err = fmt.Fprintln(out, mathchat.RenderString(answer, opts...))
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the answer without typesetting")
	cmd.Flags().StringVar(&session, "session", "", "session id to send (default: a new one)")
	return cmd
}

// readInput 参数拼接为输入，没有参数时读 stdin
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// terminalWidth 输出为终端时返回其宽度
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 80, true
	}
	return width, true
}
