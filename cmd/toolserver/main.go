package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amoylab/toolserver/internal/common/cnst"
	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/core"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/internal/tools"
	"github.com/amoylab/toolserver/pkg/logger"
	"github.com/amoylab/toolserver/pkg/metrics"
	"github.com/amoylab/toolserver/pkg/trace"
	"github.com/amoylab/toolserver/pkg/utils"
	"github.com/amoylab/toolserver/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	pidFile    string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + cnst.CommandName,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cnst.CommandName, version.Get())
		},
	}

	testCmd = &cobra.Command{
		Use:   "test",
		Short: "Test the configuration file",
		Long:  "Load and validate the configuration file, then assemble the enabled tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("configuration file %s test failed: %w", cfgPath, err)
			}
			set, err := tools.Build(zap.NewNop(), cfg)
			if err != nil {
				return fmt.Errorf("configuration file %s test failed: %w", cfgPath, err)
			}
			defer set.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "configuration file %s is valid, %d tools enabled\n", cfgPath, set.Registry.Len())
			return nil
		},
	}

	toolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "List the tools the configuration enables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			set, err := tools.Build(zap.NewNop(), cfg)
			if err != nil {
				return err
			}
			defer set.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(set.Registry.List())
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop the server recorded in the PID file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.SignalPIDFile(pidFile, syscall.SIGTERM); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent stop signal to the process in %s\n", pidFile)
			return nil
		},
	}

	rootCmd = &cobra.Command{
		Use:   cnst.CommandName,
		Short: "JSON-RPC tool server",
		Long:  "toolserver exposes a registry of tools over JSON-RPC 2.0 (tools/list and tools/call)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "conf", "c", cnst.DefaultConfigFile, "path to configuration file, like /etc/toolserver/toolserver.yaml")
	rootCmd.PersistentFlags().StringVar(&pidFile, "pid", "", "path to PID file, written while serving")
	rootCmd.AddCommand(versionCmd, testCmd, toolsCmd, stopCmd)
}

func run(ctx context.Context) error {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration %s: %w", cfgPath, err)
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Sync()

	lg.Info("Starting toolserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	if pidFile != "" {
		pf := utils.NewPIDFile(pidFile)
		if err := pf.Write(); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() {
			if err := pf.Remove(); err != nil {
				lg.Warn("failed to remove PID file", zap.Error(err))
			}
		}()
	}

	opts := []core.ServerOption{core.WithRPCConfig(cfg.RPC)}
	if cfg.CORS != nil {
		opts = append(opts, core.WithCORS(cfg.CORS))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, core.WithMetrics(metrics.New(cfg.Metrics), cfg.Metrics.Path))
	}
	if cfg.Tracing.Enabled {
		shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				lg.Warn("failed to shutdown tracing", zap.Error(err))
			}
		}()
		opts = append(opts, core.WithTracing())
	}

	set, err := tools.Build(lg, cfg)
	if err != nil {
		return fmt.Errorf("failed to build tools: %w", err)
	}
	defer func() {
		if err := set.Close(); err != nil {
			lg.Error("failed to release tool resources", zap.Error(err))
		}
	}()

	srv := core.NewServer(lg, cfg.Port, tool.NewEngine(lg, set.Registry), opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		lg.Info("Received shutdown signal")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		lg.Error("failed to shutdown server", zap.Error(err))
		return err
	}
	lg.Info("Server shutdown completed")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
