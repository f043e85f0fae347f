/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/numaproj/cdstream/pkg/shared/logging"
)

// DefaultPort is the port the metrics server listens on when none is configured.
const DefaultPort = 2469

// metricsServer runs an HTTP server to:
// 1. Expose metrics;
// 2. Serve an endpoint to execute health checks
type metricsServer struct {
	port         int
	enablePprof  bool
	readyTimeout time.Duration
	// Functions that health check executes
	healthCheckExecutors []func(ctx context.Context) error
}

type Option func(*metricsServer)

// WithPort sets the listening port
func WithPort(port int) Option {
	return func(m *metricsServer) {
		m.port = port
	}
}

// WithPprof enables the /debug/pprof endpoints
func WithPprof(enable bool) Option {
	return func(m *metricsServer) {
		m.enablePprof = enable
	}
}

// WithHealthCheckExecutor appends a health check executor
func WithHealthCheckExecutor(f func(ctx context.Context) error) Option {
	return func(m *metricsServer) {
		m.healthCheckExecutors = append(m.healthCheckExecutors, f)
	}
}

// NewMetricsServer returns a Prometheus metrics server instance.
func NewMetricsServer(opts ...Option) *metricsServer {
	m := new(metricsServer)
	m.port = DefaultPort
	m.readyTimeout = 10 * time.Second
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (ms *metricsServer) handler(log *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), ms.readyTimeout)
		defer cancel()
		for _, ex := range ms.healthCheckExecutors {
			if err := ex(ctx); err != nil {
				log.Errorw("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if ms.enablePprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		log.Info("Not enabling pprof debug endpoints")
	}
	return mux
}

// Start starts the HTTP service exposing metrics, it returns a shutdown function.
func (ms *metricsServer) Start(ctx context.Context) (func(ctx context.Context) error, error) {
	log := logging.FromContext(ctx)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", ms.port),
		Handler:           ms.handler(log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infow("Starting metrics HTTP server", zap.Int("port", ms.port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("Failed to listen-and-serve on HTTP", zap.Error(err))
		}
		log.Info("Metrics server shutdown")
	}()
	return httpServer.Shutdown, nil
}
