package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links [text...]",
		Short: "Rewrite URLs in text into labeled links",
		Long:  "Rewrite absolute http(s) URLs into labeled <a> links. Reads the arguments, or stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if len(args) > 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), app.Links.Normalize(strings.Join(args, " ")))
				return err
			}
			in, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), app.Links.Normalize(string(in)))
			return err
		},
	}
}
