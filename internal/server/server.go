// Package server exposes the services over a gin REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/metrics"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	CORSOrigins []string
	// TrustedProxies lists the addresses or CIDRs whose X-Forwarded-For is
	// believed. Empty trusts none.
	TrustedProxies  []string
	LoginRatePerMin int
	// Metrics is optional. With Gatherer set, /metrics serves it.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(svc Services, opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(Recovery(), RequestLogger(), CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	SetupRoutes(r, NewHandlers(svc), opts.LoginRatePerMin)
	return r, nil
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		utils.Log.Info("API listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		utils.Log.Info("Shutting down API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
