package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/sexpad/internal/scratchpad/server"
	"github.com/msto63/sexpad/pkg/core/cache"
	"github.com/msto63/sexpad/pkg/core/logging"
)

var (
	serveNoGRPC    bool
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP/WebSocket and gRPC servers",
	Long: `Starts the scratchpad API.

HTTP:
  POST /api/v1/parse        {"source": "..."}
  POST /api/v1/format       {"source": "..."}
  GET  /api/v1/history      ?limit=&offset=
  GET  /api/v1/history/{id}
  GET  /health
  GET  /ws                  live parse channel

gRPC:
  sexpad.v1.Reader          Parse, Format, History
  grpc.health.v1.Health

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveNoGRPC, "no-grpc", false, "disable the gRPC server")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "keep submissions in memory only")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New("sexpad")

	if serveNoHistory {
		appConfig.Store.Driver = "memory"
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	formatCache := cache.New(cache.DefaultConfig())
	defer formatCache.Close()

	svc, err := newService(st, formatCache, "scratchpad")
	if err != nil {
		return err
	}

	if days := appConfig.Store.RetentionDays; days > 0 {
		go svc.RunRetention(ctx, time.Hour, time.Duration(days)*24*time.Hour)
	}

	cfg := server.Config{
		Host:            appConfig.HTTP.Host,
		HTTPPort:        appConfig.HTTP.Port,
		ReadTimeout:     appConfig.HTTP.ReadTimeout.Duration,
		WriteTimeout:    appConfig.HTTP.WriteTimeout.Duration,
		ShutdownTimeout: appConfig.HTTP.ShutdownTimeout.Duration,
		AllowedOrigins:  appConfig.HTTP.AllowedOrigins,
		GRPCEnabled:     appConfig.GRPC.Enabled && !serveNoGRPC,
		GRPCHost:        appConfig.GRPC.Host,
		GRPCPort:        appConfig.GRPC.Port,
		GRPCReflection:  appConfig.GRPC.Reflection,
	}

	srv, err := server.New(cfg, svc, st, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting sexpad",
		"config", appConfig.Source,
		"store", appConfig.Store.Driver,
		"http", appConfig.HTTPAddress(),
	)
	return srv.Start(ctx)
}
