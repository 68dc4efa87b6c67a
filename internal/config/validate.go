package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if err := checkBaseURL(v.GetString("api.base_url")); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url %w", err))
	}
	if v.GetDuration("api.timeout") <= 0 {
		errs = append(errs, errors.New("api.timeout must be a positive duration"))
	}
	if err := checkBaseURL(v.GetString("site.base_url")); err != nil {
		errs = append(errs, fmt.Errorf("site.base_url %w", err))
	}
	if p := v.GetString("site.index_path"); !strings.HasPrefix(p, "/") {
		errs = append(errs, fmt.Errorf("site.index_path must start with /, got %q", p))
	}
	switch f := v.GetString("render.content_format"); f {
	case "html", "markdown":
	default:
		errs = append(errs, fmt.Errorf("render.content_format must be html or markdown, got %q", f))
	}
	switch l := strings.ToLower(v.GetString("log.level")); l {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not supported", l))
	}
	switch f := v.GetString("log.format"); f {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", f))
	}
	if v.GetBool("tls.http3") && len(v.GetStringSlice("tls.domains")) == 0 {
		errs = append(errs, errors.New("tls.http3 requires tls.domains"))
	}
	for host, label := range v.GetStringMapString("links.labels") {
		if strings.TrimSpace(label) == "" {
			errs = append(errs, fmt.Errorf("links.labels %s has an empty label", host))
		}
	}
	return errors.Join(errs...)
}

func checkBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("is not an absolute http(s) url: %q", raw)
	}
	return nil
}
