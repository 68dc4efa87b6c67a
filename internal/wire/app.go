package wire

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mithrel/blogview/internal/client"
	"github.com/mithrel/blogview/internal/linkify"
	"github.com/mithrel/blogview/internal/loader"
	"github.com/mithrel/blogview/internal/render"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *zap.Logger
	Client   *client.Client
	Links    *linkify.Normalizer
	Renderer *render.Renderer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	logger, err := NewLogger(cfg.GetString("log.level"), cfg.GetString("log.format"))
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.GetString("api.base_url"), cfg.GetDuration("api.timeout"))

	norm := linkify.New(
		linkify.WithLabels(cfg.GetStringMapString("links.labels")),
		linkify.WithClass(cfg.GetString("links.class")),
	)
	r := render.New(render.Options{
		SiteBaseURL:   cfg.GetString("site.base_url"),
		IndexPath:     cfg.GetString("site.index_path"),
		TwitterHandle: cfg.GetString("site.twitter_handle"),
		Markdown:      cfg.GetString("render.content_format") == "markdown",
		Sanitize:      cfg.GetBool("render.sanitize"),
		Links:         norm,
	})
	return &App{
		Cfg:      cfg,
		Log:      logger,
		Client:   c,
		Links:    norm,
		Renderer: r,
	}, nil
}

// NewLoader returns a view loader for one activation, reading through the
// app's posts client.
func (a *App) NewLoader(opts ...loader.Option) *loader.Loader {
	mode := loader.TriggerComposite
	if !a.Cfg.GetBool("loader.refetch_on_slug") {
		mode = loader.TriggerIDOnly
	}
	base := []loader.Option{loader.WithLogger(a.Log), loader.WithTrigger(mode)}
	return loader.New(a.Client, append(base, opts...)...)
}

// NewLogger builds a zap logger from level (debug|info|warn|error) and
// format (console|json).
func NewLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("log.format must be console or json, got %q", format)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
