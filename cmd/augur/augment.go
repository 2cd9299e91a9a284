package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/augur/internal/cli"
	"github.com/aretw0/augur/internal/packs"
	"github.com/aretw0/augur/pkg/adapters/memory"
	"github.com/aretw0/augur/pkg/observability"
	"github.com/aretw0/augur/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var augmentCmd = &cobra.Command{
	Use:   "augment <ontology.yaml>...",
	Short: "Run a directive pack over YAML ontologies",
	Long: `Loads every ontology, runs the selected directive pack over them in
argument order and writes the augmented documents back.

With --out a single ontology is written to that path ("-" for stdout);
otherwise each file is rewritten in place. The run report is printed as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		packName, _ := cmd.Flags().GetString("pack")
		out, _ := cmd.Flags().GetString("out")
		metricsFile, _ := cmd.Flags().GetString("metrics-file")

		decl, ok := packs.Lookup(packName)
		if !ok {
			return fmt.Errorf("unknown pack %q (available: %s)", packName, strings.Join(packs.Names(), ", "))
		}
		if out != "" && len(args) > 1 {
			return errors.New("--out takes a single ontology")
		}
		reg := decl.MustBuild()

		ontologies := make([]*memory.Ontology, 0, len(args))
		for _, path := range args {
			o, err := memory.LoadFile(path)
			if err != nil {
				return err
			}
			ontologies = append(ontologies, o)
		}

		backends, err := cli.OpenBackends(cfg)
		if err != nil {
			return err
		}
		defer backends.Close()

		metricsReg := prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(metricsReg)
		if err != nil {
			return err
		}
		hooks := metrics.Hooks().Merge(observability.LoggingHooks(logger))

		engine, err := cli.NewEngine(cfg, reg, backends, logger, hooks)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.MetricsAddr != "" {
			shutdown := serveMetrics(cfg.MetricsAddr, metricsReg)
			defer shutdown()
		}

		targets := make([]ports.Ontology, len(ontologies))
		for i, o := range ontologies {
			targets[i] = o
		}
		report, augErr := engine.Augment(ctx, targets...)

		if metricsFile != "" {
			if err := prometheus.WriteToTextfile(metricsFile, metricsReg); err != nil {
				logger.Warn("failed to write metrics", "path", metricsFile, "error", err)
			}
		}
		if augErr != nil {
			return augErr
		}

		for i, o := range ontologies {
			dest := args[i]
			if out != "" {
				dest = out
			}
			if err := writeOntology(ctx, o, dest, cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		stats := engine.Stats()
		logger.Info("augmentation finished",
			"changes", report.Changes(),
			"new_individuals", len(report.NewIndividuals()),
			"cache_hits", stats.Hits,
			"cache_misses", stats.Misses,
		)

		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func writeOntology(ctx context.Context, o *memory.Ontology, dest string, stdout io.Writer) error {
	if dest == "-" {
		return o.Save(ctx, stdout)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if err := o.Save(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// serveMetrics exposes /metrics until the returned function is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func init() {
	rootCmd.AddCommand(augmentCmd)

	augmentCmd.Flags().StringP("pack", "p", "traffic", "Directive pack to run")
	augmentCmd.Flags().StringP("out", "o", "", `Write the augmented ontology here ("-" for stdout)`)
	augmentCmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file")
}
