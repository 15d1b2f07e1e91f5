package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockForecaster/internal/api"
	"StockForecaster/internal/forecast"
	"StockForecaster/internal/scheduler"
)

func newRootCmd() *cobra.Command {
	var cfgFlag string

	rootCmd := &cobra.Command{
		Use:           "forecaster",
		Short:         "Stock price forecaster",
		Long:          `forecaster derives technical indicators from recent daily bars and feeds them to a regression model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFlag, "config", "", "configuration file path (default $CONFIG_PATH or configs/config.yaml)")

	rootCmd.AddCommand(newServeCmd(&cfgFlag))
	rootCmd.AddCommand(newPredictCmd(&cfgFlag))
	rootCmd.AddCommand(newSyncCmd(&cfgFlag))
	return rootCmd
}

func newServeCmd(cfgFlag *string) *cobra.Command {
	var syncOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP forecast server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgFlag)
			if err != nil {
				return err
			}
			defer a.close()
			return runServe(a, syncOnStart || os.Getenv("RUN_ON_START") == "true")
		},
	}
	cmd.Flags().BoolVar(&syncOnStart, "sync-on-start", false, "run one store sync before serving (requires sync.enabled)")
	return cmd
}

func newPredictCmd(cfgFlag *string) *cobra.Command {
	var withFeatures bool
	cmd := &cobra.Command{
		Use:   "predict [SYMBOL]",
		Short: "Run the pipeline once and print the forecast",
		Long: `Run the forecast pipeline once for SYMBOL (default data_source.default_symbol).
Example: forecaster predict 9104.T --features`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgFlag)
			if err != nil {
				return err
			}
			defer a.close()

			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			return runPredict(cmd.Context(), a, symbol, withFeatures)
		},
	}
	cmd.Flags().BoolVar(&withFeatures, "features", false, "include the feature row in the output")
	return cmd
}

func newSyncCmd(cfgFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy recent daily bars of sync.symbols into the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgFlag)
			if err != nil {
				return err
			}
			defer a.close()

			sched, err := newSyncScheduler(cmd.Context(), a)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range sched.RunNow() {
				if r.Err != nil {
					failed++
					fmt.Printf("%-10s error: %v\n", r.Symbol, r.Err)
					continue
				}
				fmt.Printf("%-10s %d bars\n", r.Symbol, r.Bars)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d symbols failed", failed, len(sched.Symbols))
			}
			return nil
		},
	}
}

func newSyncScheduler(ctx context.Context, a *app) (*scheduler.SyncScheduler, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	upstream, err := a.fetcher(a.cfg.Sync.Provider)
	if err != nil {
		return nil, err
	}
	return scheduler.NewSyncScheduler(ctx, upstream, st, a.cfg.Sync.Symbols, a.cfg.Sync.LookbackDays, a.logger, a.metrics), nil
}

func runPredict(ctx context.Context, a *app, symbol string, withFeatures bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	fc, err := svc.Forecast(ctx, symbol)
	if err != nil {
		code, msg := forecast.Describe(err)
		return fmt.Errorf("%s: %s", code, msg)
	}
	if !withFeatures {
		fc.Features = nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

func runServe(a *app, syncOnStart bool) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Sync.Enabled {
		sched, err := newSyncScheduler(ctx, a)
		if err != nil {
			return err
		}
		if err := sched.Register(a.cfg.Sync.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		if syncOnStart {
			go sched.RunNow()
		}
	}

	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewForecastHandler(svc, a.logger), a.registry, a.logger)

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	a.logger.Info("Shutting down server...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("Server exited properly")
	return nil
}
