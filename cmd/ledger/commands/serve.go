package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/duoledger/internal/auth"
	"github.com/mmynk/duoledger/internal/metrics"
	"github.com/mmynk/duoledger/internal/notify"
	"github.com/mmynk/duoledger/internal/service"
	"github.com/mmynk/duoledger/internal/storage/sqlite"
	"github.com/mmynk/duoledger/internal/worker"
)

var port string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Connect API server",
	Long: `Start the Connect API server together with the subscription worker.
Ledger events are published to AMQP when AMQP_URL is set, and Prometheus
metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServer() error {
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "path", cfg.DBPath)
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	publisher := newPublisher()
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	mux := http.NewServeMux()
	service.Register(mux, service.Deps{
		Store:     store,
		JWT:       auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Publisher: publisher,
		Metrics:   m,
		Logger:    slog.Default(),
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// h2c serves HTTP/2 without TLS for Connect and gRPC clients.
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", httpServer.Addr, "url", fmt.Sprintf("http://localhost%s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("Subscription worker starting", "interval", cfg.MaterializeInterval)
		return worker.NewMaterializer(store, m, slog.Default()).Start(ctx, cfg.MaterializeInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		return err
	}
	slog.Info("Server exited gracefully")
	return nil
}

// newPublisher connects to AMQP when configured. Without a broker the
// server keeps running and events are dropped.
func newPublisher() notify.Publisher {
	if cfg.AMQPURL == "" {
		slog.Info("AMQP disabled, ledger events will not be published")
		return notify.Nop{}
	}
	p, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		return notify.Nop{}
	}
	slog.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return p
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
