package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/blogview/internal/config"
	"github.com/mithrel/blogview/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP page server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if listen != "" {
				app.Cfg.Set("http_addr", listen)
			}
			if err := config.CheckConfigValidity(app.Cfg); err != nil {
				return err
			}
			addr := app.Cfg.GetString("http_addr")
			if addr == "" {
				addr = ":8080"
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "blogview listening on %s\n", addr)
			defer app.Log.Sync() //nolint:errcheck
			return server.New(app).Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (override config http_addr)")
	return cmd
}
