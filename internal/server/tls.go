package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/caddyserver/certmagic"
)

// CertMagicConfig configures automatic certificate management with CertMagic.
type CertMagicConfig struct {
	Domains    []string
	Email      string
	StorageDir string // optional; defaults to XDG or ~/.cache/blogview/certmagic
	CA         string // optional; defaults to Let's Encrypt prod
	// EnableHTTP returns a handler answering HTTP-01 challenges and
	// redirecting everything else to https.
	EnableHTTP bool
}

// BuildCertMagicTLS provisions/loads certificates via CertMagic and returns a
// TLS config plus an optional HTTP handler for HTTP-01 challenges.
func BuildCertMagicTLS(ctx context.Context, cfg CertMagicConfig) (*tls.Config, http.Handler, error) {
	if len(cfg.Domains) == 0 {
		return nil, nil, errors.New("at least one domain is required")
	}

	cm := certmagic.NewDefault()
	if cfg.StorageDir == "" {
		cfg.StorageDir = defaultStorageDir()
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("cert storage: %w", err)
	}
	cm.Storage = &certmagic.FileStorage{Path: cfg.StorageDir}

	issuer := certmagic.NewACMEIssuer(cm, certmagic.ACMEIssuer{
		CA:                   ifEmpty(cfg.CA, certmagic.LetsEncryptProductionCA),
		Email:                cfg.Email,
		Agreed:               true,
		DisableHTTPChallenge: !cfg.EnableHTTP,
	})
	cm.Issuers = []certmagic.Issuer{issuer}

	if err := cm.ManageSync(ctx, cfg.Domains); err != nil {
		return nil, nil, fmt.Errorf("manage certificates: %w", err)
	}

	tlsConf := cm.TLSConfig()
	tlsConf.NextProtos = append([]string{"h2", "http/1.1"}, tlsConf.NextProtos...)
	tlsConf.MinVersion = tls.VersionTLS12

	if cfg.EnableHTTP {
		return tlsConf, issuer.HTTPChallengeHandler(http.HandlerFunc(redirectHTTPS)), nil
	}
	return tlsConf, nil, nil
}

func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	target := "https://" + r.Host + r.URL.RequestURI()
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func defaultStorageDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "blogview", "certmagic")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "blogview", "certmagic")
}

func ifEmpty(s, d string) string {
	if s == "" {
		return d
	}
	return s
}
