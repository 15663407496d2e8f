package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kprusa/ripd/internal/config"
	"github.com/kprusa/ripd/internal/diag"
	"github.com/kprusa/ripd/internal/metrics"
	"github.com/kprusa/ripd/internal/rlog"
	"github.com/kprusa/ripd/internal/scheduler"
	"github.com/kprusa/ripd/internal/transport"
)

var verbosity int

// newRootCmd builds the ripd command tree. Invoking the root command
// directly with a single positional argument (`ripd config.ini`)
// preserves the distilled spec's CLI contract; `ripd run config.ini`
// and `ripd validate config.ini` are the explicit, supplemental forms.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ripd [config-file]",
		Short:        "RIP-derived distance-vector routing daemon",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Help()
			}
			return runDaemon(args[0])
		},
	}
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")

	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <config-file>",
		Short: "Start the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(args[0])
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Parse and validate a configuration file without starting the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: router_id=%d neighbors=%d input_ports=%v\n",
				cfg.RouterID, len(cfg.Outputs), cfg.InputPorts)
			return nil
		},
	}
}

func runDaemon(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	logger, err := rlog.New(cfg.LogLevel, verbosity)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := metrics.New()

	neighbors := make([]scheduler.Neighbor, len(cfg.Outputs))
	for i, o := range cfg.Outputs {
		neighbors[i] = scheduler.Neighbor{
			Port:       o.Port,
			LinkMetric: uint16(o.LinkMetric),
			RouterID:   uint16(o.RouterID),
		}
	}

	tr, err := transport.NewUDPTransport(cfg.InputPorts)
	if err != nil {
		return err
	}
	defer tr.Close()

	sched := scheduler.New(scheduler.Config{
		SelfID:           uint16(cfg.RouterID),
		Neighbors:        neighbors,
		InputPorts:       cfg.InputPorts,
		PeriodicInterval: cfg.PeriodicValue,
		ExpiryInterval:   cfg.TimeoutValue,
		Logger:           logger,
		Metrics:          reg,
	}, tr)

	if err := startDiagServer(cfg.MetricsAddr, reg, sched, logger); err != nil {
		logger.Warn("diagnostics server not started", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("router started",
		zap.Int("router_id", cfg.RouterID),
		zap.Ints("input_ports", cfg.InputPorts),
		zap.Int("neighbors", len(neighbors)),
	)

	sched.Run(ctx)
	logger.Info("router stopped")
	return nil
}

func startDiagServer(addr string, reg *metrics.Registry, sched *scheduler.Scheduler, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: diag.NewHandler(reg, sched.Table())}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Warn("diagnostics server stopped", zap.Error(err))
		}
	}()
	logger.Info("diagnostics listening", zap.String("addr", ln.Addr().String()))
	return nil
}
