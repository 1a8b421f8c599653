package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Enabled reports whether addr names a listener. Empty, "off", "disabled"
// and "false" all mean no metrics server.
func Enabled(addr string) bool {
	switch strings.ToLower(strings.TrimSpace(addr)) {
	case "", "off", "disabled", "false":
		return false
	}
	return true
}

// StartServer serves /metrics on addr until ctx is canceled. When addr is not
// Enabled it returns nil values. The channel receives at most one listener
// error.
func StartServer(ctx context.Context, addr string, logger *slog.Logger) (*http.Server, <-chan error) {
	if !Enabled(addr) {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := &http.Server{
		Addr:              strings.TrimSpace(addr),
		Handler:           newMux(prometheus.DefaultGatherer),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return srv, errCh
}

func newMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
