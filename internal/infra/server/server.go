// Where: internal/infra/server/server.go
// What: Local preview server for the built front end.
// Why: Serve the host page and compressed bundle the way production does.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/poruru-code/elmpack/internal/infra/bundle"
	"github.com/poruru-code/elmpack/internal/meta"
)

const shutdownTimeout = 5 * time.Second

// Options configures the preview handler.
type Options struct {
	// StaticDir is served under /static.
	StaticDir string
	// Index is returned for every path outside /static and the API path.
	Index string
	// APIUpstream, when set, receives requests for the API path.
	APIUpstream *url.URL
}

// NewHandler builds the preview HTTP handler.
func NewHandler(opts Options) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(meta.StaticRoute+"/", staticHandler(opts.StaticDir))
	mux.Handle(meta.APIPath, apiHandler(opts.APIUpstream))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write([]byte(opts.Index))
	})
	return mux
}

func staticHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), meta.StaticRoute+"/")
		if name == "" || strings.Contains(name, "..") {
			http.NotFound(w, r)
			return
		}
		full := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		contentType, encoding := bundle.ContentHeaders(full)
		w.Header().Set("Content-Type", contentType)
		if encoding != "" {
			w.Header().Set("Content-Encoding", encoding)
		}
		file, err := os.Open(full)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer file.Close()
		http.ServeContent(w, r, "", info.ModTime(), file)
	})
}

func apiHandler(upstream *url.URL) http.Handler {
	if upstream == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "no API upstream configured for "+meta.APIPath, http.StatusBadGateway)
		})
	}
	return httputil.NewSingleHostReverseProxy(upstream)
}

// Serve listens on addr until ctx is cancelled. ready, when non-nil,
// receives the bound address once the listener is open.
func Serve(ctx context.Context, addr string, handler http.Handler, ready func(net.Addr)) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(listener.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown preview server: %w", err)
		}
		return nil
	}
}
