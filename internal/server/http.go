package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/quic-go/quic-go/http3"
	"go.uber.org/zap"

	"github.com/mithrel/blogview/internal/client"
	"github.com/mithrel/blogview/internal/wire"
	"github.com/mithrel/blogview/pkg/api"
)

// Server renders post pages over HTTP.
type Server struct {
	app *wire.App
	log *zap.Logger
	h3  *http3.Server
}

func New(app *wire.App) *Server {
	return &Server{app: app, log: app.Log}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.HandleFunc("/blogpost/{id}", s.handlePost).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/blogpost/{id}/{slug}", s.handlePost).Methods(http.MethodGet, http.MethodHead)
	r.Use(s.requestID, s.accessLog)
	if s.h3 != nil {
		r.Use(s.altSvc)
	}
	return r
}

// handlePost is one activation of the post view: load once, render the
// result. Every failure ends on the same "Post not found" page.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := api.Key{ID: vars["id"], Slug: vars["slug"]}

	view := s.app.NewLoader()
	defer view.Close()
	st := view.Load(r.Context(), key)

	if st.Post == nil {
		s.notFound(w)
		return
	}

	etag := s.app.Renderer.ETag(*st.Post)
	w.Header().Set("ETag", etag)
	if etagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := s.app.Renderer.RenderPost(&buf, key, *st.Post); err != nil {
		s.log.Error("render post", zap.String("id", key.ID), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) notFound(w http.ResponseWriter) {
	var buf bytes.Buffer
	if err := s.app.Renderer.RenderNotFound(&buf); err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(buf.Bytes())
}

func etagMatch(header, etag string) bool {
	for _, part := range strings.Split(header, ",") {
		p := strings.TrimSpace(part)
		if p == "*" || strings.TrimPrefix(p, "W/") == etag {
			return true
		}
	}
	return false
}

// requestID reuses an incoming X-Request-ID or assigns one, echoes it and
// forwards it to the posts API.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(client.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", client.RequestID(r.Context())),
		)
	})
}

func (s *Server) altSvc(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = s.h3.SetQUICHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

// Serve listens on addr until ctx is cancelled. With tls.domains set it
// serves HTTPS from ACME certificates, and HTTP/3 as well when tls.http3 is on.
func (s *Server) Serve(ctx context.Context, addr string) error {
	cfg := s.app.Cfg
	domains := cfg.GetStringSlice("tls.domains")
	if len(domains) == 0 {
		srv := &http.Server{Addr: addr, Handler: s.Router()}
		return run(ctx, srv, srv.ListenAndServe)
	}

	tlsConf, challenge, err := BuildCertMagicTLS(ctx, CertMagicConfig{
		Domains:    domains,
		Email:      cfg.GetString("tls.email"),
		StorageDir: cfg.GetString("tls.storage_dir"),
		EnableHTTP: cfg.GetString("tls.challenge_addr") != "",
	})
	if err != nil {
		return err
	}
	if cfg.GetBool("tls.http3") {
		s.h3 = &http3.Server{Addr: addr, TLSConfig: http3.ConfigureTLSConfig(tlsConf)}
	}
	handler := s.Router()

	if challenge != nil {
		redirect := &http.Server{Addr: cfg.GetString("tls.challenge_addr"), Handler: challenge}
		go func() {
			if err := run(ctx, redirect, redirect.ListenAndServe); err != nil {
				s.log.Warn("challenge listener stopped", zap.Error(err))
			}
		}()
	}
	if s.h3 != nil {
		s.h3.Handler = handler
		go func() {
			if err := s.h3.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Warn("http3 listener stopped", zap.Error(err))
			}
		}()
		defer s.h3.Close()
	}
	srv := &http.Server{Addr: addr, Handler: handler, TLSConfig: tlsConf}
	return run(ctx, srv, func() error { return srv.ListenAndServeTLS("", "") })
}

// run starts listen and shuts srv down when ctx ends.
func run(ctx context.Context, srv *http.Server, listen func() error) error {
	errc := make(chan error, 1)
	go func() { errc <- listen() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
