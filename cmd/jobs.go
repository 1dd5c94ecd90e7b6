package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soliddigital/mpesa-stk-gateway/app/service"
	"github.com/soliddigital/mpesa-stk-gateway/config"
	"github.com/spf13/cobra"
)

var workerMode bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Run callback log maintenance commands",
}

var logsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete callback audit logs past the configured retention",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"logs_prune",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.LogsPruneInterval },
			func(s *service.GatewayService, ctx context.Context) error {
				return s.RunPruneCallbackLogsBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsPruneCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.GatewayService, ctx context.Context) error,
) {
	cfg, gatewayService, cleanup := mustCreateGatewayService()
	defer cleanup()

	if workerMode {
		runWorker(name, intervalResolver(cfg), gatewayService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(gatewayService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	gatewayService *service.GatewayService,
	fn func(s *service.GatewayService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(gatewayService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(gatewayService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
