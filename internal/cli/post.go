package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/blogview/internal/present"
	"github.com/mithrel/blogview/internal/present/tui"
	"github.com/mithrel/blogview/pkg/api"
)

func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Work with blog posts",
	}
	cmd.AddCommand(newPostShowCmd())
	return cmd
}

func newPostShowCmd() *cobra.Command {
	var output string
	var indent bool
	var width int
	cmd := &cobra.Command{
		Use:   "show <id> [slug]",
		Short: "Fetch a post and display it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			key := api.Key{ID: args[0]}
			if len(args) > 1 {
				key.Slug = args[1]
			}
			if !key.Valid() {
				return errors.New("post id is required")
			}

			mode := defaultMode(cmd.OutOrStdout())
			if output != "" {
				m, ok := present.ParseMode(output)
				if !ok {
					return fmt.Errorf("unknown output %q (plain|pretty|json|html|tui)", output)
				}
				mode = m
			}

			if mode == present.ModeTUI {
				return tui.Run(cmd.Context(), app.NewLoader, key, func(p api.Post, w int) (string, error) {
					return present.Pretty(app.Renderer, p, w)
				})
			}

			view := app.NewLoader()
			defer view.Close()
			st := view.Load(cmd.Context(), key)
			if st.Post == nil {
				return errors.New("post not found")
			}
			opts := present.Options{Mode: mode, JSONIndent: indent, Width: width}
			if mode == present.ModePretty && width <= 0 {
				opts.Width = terminalWidth(cmd.OutOrStdout())
			}
			return renderPost(cmd, key, *st.Post, opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: plain|pretty|json|html|tui (default pretty on a terminal, plain otherwise)")
	cmd.Flags().BoolVar(&indent, "indent", true, "indent JSON output")
	cmd.Flags().IntVar(&width, "width", 0, "wrap width for pretty output (default terminal width)")
	return cmd
}

func renderPost(cmd *cobra.Command, key api.Key, p api.Post, opts present.Options) error {
	app := getApp(cmd)
	write := func(w io.Writer) error {
		return present.RenderPost(w, app.Renderer, key, p, opts)
	}
	if opts.Mode == present.ModePretty || opts.Mode == present.ModePlain {
		return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), write)
	}
	return write(cmd.OutOrStdout())
}

func isTerminal(w io.Writer) (*os.File, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, false
	}
	return f, true
}

func defaultMode(w io.Writer) present.Mode {
	if _, ok := isTerminal(w); ok {
		return present.ModePretty
	}
	return present.ModePlain
}

func terminalWidth(w io.Writer) int {
	f, ok := isTerminal(w)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	if width > 120 {
		width = 120
	}
	return width
}
