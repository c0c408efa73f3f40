package main

import (
	"encoding/json"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"srccheck/internal/diag"
)

type ruleJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Title   string `json:"title"`
}

func newRulesCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule codes and their messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			codes := diag.Codes()
			switch format {
			case "json":
				list := make([]ruleJSON, len(codes))
				for i, c := range codes {
					list[i] = ruleJSON{Code: c.ID(), Message: c.Message(), Title: c.Title()}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			case "text":
				width := 0
				for _, c := range codes {
					width = max(width, runewidth.StringWidth(c.Message()))
				}
				for _, c := range codes {
					fmt.Fprintf(out, "%s  %s  %s\n", c.ID(), runewidth.FillRight(c.Message(), width), c.Title())
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be text or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json)")
	return cmd
}
