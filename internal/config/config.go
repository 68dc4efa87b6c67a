package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < .env < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// If SetConfigFile was provided upstream it takes precedence; these paths
	// are fallbacks.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "blogview"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "blogview"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	// A missing file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// .env only fills variables that are not already set in the process.
	if err := godotenv.Load(envFile()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// Environment variables: BLOGVIEW_* (highest among these sources)
	v.SetEnvPrefix("blogview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Comma-separated env override for tls.domains
	if s := strings.TrimSpace(os.Getenv("BLOGVIEW_TLS_DOMAINS")); s != "" {
		v.Set("tls.domains", splitList(s))
	}
	if idx := strings.TrimSpace(v.GetString("site.index_path")); idx == "" {
		v.Set("site.index_path", "/blog")
	}
	return nil
}

func envFile() string {
	if p := strings.TrimSpace(os.Getenv("BLOGVIEW_ENV_FILE")); p != "" {
		return p
	}
	return ".env"
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "blogview", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address for the page server"},

		{Key: "api.base_url", Default: "http://localhost:5000", Comment: "Base URL of the posts API; posts are read from {base_url}/posts/{id}/{slug}"},
		{Key: "api.timeout", Default: "20s", Comment: "Timeout for a single post request"},

		{Key: "site.base_url", Default: "http://localhost:8080", Comment: "Public origin used for og:url"},
		{Key: "site.index_path", Default: "/blog", Comment: "Target of the \"All Blogs\" back link"},
		{Key: "site.twitter_handle", Default: "", Comment: "twitter:site handle, omitted when empty"},

		{Key: "render.content_format", Default: "html", Comment: "Post text format: html or markdown"},
		{Key: "render.sanitize", Default: true, Comment: "Run post text through an allow-list HTML sanitizer"},

		{Key: "loader.refetch_on_slug", Default: true, Comment: "Refetch when only the slug part of the key changes"},

		{Key: "tls.domains", Default: []string{}, Comment: "Serve HTTPS with ACME certificates for these domains"},
		{Key: "tls.email", Default: "", Comment: "ACME account email"},
		{Key: "tls.storage_dir", Default: "", Comment: "Certificate storage; defaults to $XDG_CACHE_HOME/blogview/certmagic"},
		{Key: "tls.http3", Default: false, Comment: "Also serve HTTP/3 (requires tls.domains)"},
		{Key: "tls.challenge_addr", Default: "", Comment: "Serve ACME HTTP-01 challenges on this address (e.g. \":80\"); TLS-ALPN only when empty"},

		{Key: "log.level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "log.format", Default: "console", Comment: "console or json"},

		{Key: "links.class", Default: "", Comment: "class attribute added to generated links"},
		{Key: "links.labels", Default: map[string]any{}, Comment: "Extra link labels by host, e.g. \"medium.com\" = \"Read on Medium\""},
	}
}
