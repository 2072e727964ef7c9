package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mathchat "github.com/riverfjs/mathchat-go"
)

type runJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type nodeJSON struct {
	Kind     string `json:"kind"`
	Text     string `json:"text"`
	Source   string `json:"source"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newSegmentCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		nodes  bool
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "segment [text]",
		Short: "Split text into text, bold and math runs",
		Long:  "Split text into runs and print them, one per line. Reads stdin when no text is given.\n--nodes typesets math and prints display nodes instead. --check verifies that the runs reproduce the input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			opts := a.renderOptions()
			runs := mathchat.SegmentWith(input, opts...)

			if check {
				if err := checkLossless(input, runs, opts, a.cfg.Chat.LatexBrackets); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if nodes {
				rendered := mathchat.Render(runs, opts...)
				if asJSON {
					list := make([]nodeJSON, len(rendered))
					for i, n := range rendered {
						list[i] = nodeJSON{Kind: n.Kind.String(), Text: n.Text, Source: n.Source, Fallback: n.Fallback}
						if n.Err != nil {
							list[i].Error = n.Err.Error()
						}
					}
					return writeJSON(out, list)
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, n := range rendered {
					mark := ""
					if n.Fallback {
						mark = "fallback: " + n.Err.Error()
					}
					fmt.Fprintf(tw, "%s\t%q\t%s\n", n.Kind, n.Text, mark)
				}
				return tw.Flush()
			}

			if asJSON {
				list := make([]runJSON, len(runs))
				for i, r := range runs {
					list[i] = runJSON{Kind: r.Kind.String(), Value: r.Value}
				}
				return writeJSON(out, list)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%q\n", r.Kind, r.Value)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&nodes, "nodes", false, "typeset math and print display nodes")
	cmd.Flags().BoolVar(&check, "check", false, "fail unless the runs reproduce the input")
	return cmd
}

// checkLossless 校验切分结果可还原输入
//
// 启用 \( \) 改写时输入已被修改，改为校验再次切分的结果不变。
func checkLossless(input string, runs []mathchat.Run, opts []mathchat.Option, rewritten bool) error {
	got := mathchat.Reconstruct(runs)
	if !rewritten {
		if got != input {
			return fmt.Errorf("lossless check failed: runs reproduce %q", got)
		}
		return nil
	}
	if again := mathchat.Reconstruct(mathchat.SegmentWith(got, opts...)); again != got {
		return errors.New("lossless check failed: segmentation is not stable")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
