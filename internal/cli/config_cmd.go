package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/blogview/internal/config"
	"github.com/mithrel/blogview/internal/linkify"
)

// newConfigCmd only loads configuration; it does not build the app so a
// broken setting can still be inspected and fixed.
func newConfigCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), cfgKey, v))
			return nil
		},
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	cmd.AddCommand(newConfigLabelCmd())
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getConfig(cmd)
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			src := v.ConfigFileUsed()
			if src == "" {
				src = "(defaults)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK: %s\n", src)
			return nil
		},
	}
}

func newConfigLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage link labels by host",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List effective link labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom := getConfig(cmd).GetStringMapString("links.labels")
			labels := linkify.New(linkify.WithLabels(custom)).Labels()
			configured := make(map[string]bool, len(custom))
			for host := range custom {
				configured[linkify.Host(host)] = true
			}
			hosts := make([]string, 0, len(labels))
			for h := range labels {
				hosts = append(hosts, h)
			}
			sort.Strings(hosts)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, h := range hosts {
				src := "builtin"
				if configured[h] {
					src = "config"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", h, labels[h], src)
			}
			return tw.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <host> <label>",
		Short: "Set the label used for links to host",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := linkify.Host(args[0])
			label := strings.TrimSpace(args[1])
			if host == "" || label == "" {
				return errors.New("host and label must not be empty")
			}
			return editConfigFile(cmd, func(existing string) (string, bool) {
				return config.SetLinkLabel(existing, host, label), true
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <host>",
		Short: "Remove a configured label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := linkify.Host(args[0])
			return editConfigFile(cmd, func(existing string) (string, bool) {
				return config.DeleteLinkLabel(existing, host)
			})
		},
	})
	return cmd
}

// editConfigFile applies edit to the config file in use (or the default
// location) and writes the result back.
func editConfigFile(cmd *cobra.Command, edit func(string) (string, bool)) error {
	path := getConfig(cmd).ConfigFileUsed()
	if path == "" {
		path = config.DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	updated, changed := edit(string(data))
	if !changed {
		return fmt.Errorf("no matching label in %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", path)
	return nil
}

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite bool
	var update bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default config.toml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = config.DefaultConfigPath()
			}
			if overwrite && update {
				return fmt.Errorf("choose either --overwrite or --update")
			}
			return writeConfigFile(cmd, out, overwrite, update)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing config (creates a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "merge defaults into existing config (creates a backup)")
	return cmd
}

func writeConfigFile(cmd *cobra.Command, out string, overwrite, update bool) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
		return err
	}

	exists := fileExists(out)
	if exists && !overwrite && !update {
		return fmt.Errorf("config already exists at %s; use --overwrite to replace (this will delete your current config) or --update to merge defaults", out)
	}

	content := ""
	if update && exists {
		data, err := os.ReadFile(out)
		if err != nil {
			return err
		}
		updated, changed := config.UpdateTOML(string(data))
		if !changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config already up to date: %s\n", out)
			return nil
		}
		content = updated
	} else {
		content = config.RenderDefaultTOML()
	}

	var backupPath string
	if exists && (overwrite || update) {
		var err error
		backupPath, err = backupConfig(out)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	if backupPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backup: %s\n", backupPath)
	}
	return nil
}

func backupConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := path + ".bak"
	if fileExists(backup) {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	if err := os.WriteFile(backup, data, 0o600); err != nil {
		return "", err
	}
	return backup, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
