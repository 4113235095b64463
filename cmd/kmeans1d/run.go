package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexshd/kmeans1d"
	"github.com/alexshd/kmeans1d/dataset"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type runOptions struct {
	assignOut    string
	centroidsOut string
	summary      string
	metricsFile  string
}

func newRunCmd(app *cli) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <points> <centroids>",
		Short: "Cluster points starting from the given centroids",
		Long: `Run reads one value per line from <points> and the K initial centroids
from <centroids>, then alternates assignment and update until the relative
SSE change drops below --eps or --max-iter passes have run.

Files ending in .gz, .zst or .lz4 are decompressed on read and compressed
on write.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.assignOut, "assign-out", "", "write the cluster index of every point to this file")
	f.StringVar(&opts.centroidsOut, "centroids-out", "", "write the final centroids to this file")
	f.StringVar(&opts.summary, "summary", "", "write a YAML run summary to this file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	return cmd
}

// runSummary is the YAML document written by --summary.
type runSummary struct {
	RunID         string    `yaml:"run_id"`
	PointsFile    string    `yaml:"points_file"`
	CentroidsFile string    `yaml:"centroids_file"`
	N             int       `yaml:"n"`
	K             int       `yaml:"k"`
	MaxIter       int       `yaml:"max_iter"`
	Eps           float64   `yaml:"eps"`
	Workers       int       `yaml:"workers"`
	Iterations    int       `yaml:"iterations"`
	Converged     bool      `yaml:"converged"`
	SSE           float64   `yaml:"sse"`
	SSEIncreases  int       `yaml:"sse_increases"`
	EmptyClusters int       `yaml:"empty_clusters"`
	DurationMS    float64   `yaml:"duration_ms"`
	Centroids     []float64 `yaml:"centroids"`
}

func (app *cli) run(out io.Writer, pointsPath, centroidsPath string, opts runOptions) error {
	cfg, err := engineConfig(app.v)
	if err != nil {
		return err
	}

	x, err := dataset.ReadFile(pointsPath)
	if err != nil {
		return fmt.Errorf("read points: %w", err)
	}
	c, err := dataset.ReadFile(centroidsPath)
	if err != nil {
		return fmt.Errorf("read centroids: %w", err)
	}

	runID := uuid.NewString()
	logger := app.logger.With("run_id", runID)
	logger.Info("starting run",
		"points", len(x),
		"clusters", len(c),
		"max_iter", cfg.MaxIter,
		"eps", cfg.Eps,
		"workers", cfg.Workers,
	)

	reg := prometheus.NewRegistry()
	res, err := kmeans1d.Cluster(x, c, cfg,
		kmeans1d.WithLogger(logger),
		kmeans1d.WithMetrics(kmeans1d.NewMetrics(reg)),
	)
	if err != nil {
		return err
	}

	ms := float64(res.Duration) / float64(time.Millisecond)
	fmt.Fprintf(out, "Iterations: %d | SSE: %.6f | Time: %.1f ms\n", res.Iterations, res.SSE, ms)

	if opts.assignOut != "" {
		if err := dataset.WriteFile(opts.assignOut, func(w io.Writer) error {
			return dataset.WriteAssignments(w, res.Assignments)
		}); err != nil {
			return err
		}
		logger.Debug("wrote assignments", "path", opts.assignOut)
	}
	if opts.centroidsOut != "" {
		if err := dataset.WriteFile(opts.centroidsOut, func(w io.Writer) error {
			return dataset.WriteCentroids(w, c)
		}); err != nil {
			return err
		}
		logger.Debug("wrote centroids", "path", opts.centroidsOut)
	}

	if opts.summary != "" {
		s := runSummary{
			RunID:         runID,
			PointsFile:    pointsPath,
			CentroidsFile: centroidsPath,
			N:             len(x),
			K:             len(c),
			MaxIter:       cfg.MaxIter,
			Eps:           cfg.Eps,
			Workers:       res.Workers,
			Iterations:    res.Iterations,
			Converged:     res.Converged,
			SSE:           res.SSE,
			SSEIncreases:  res.SSEIncreases,
			EmptyClusters: res.EmptyClusters,
			DurationMS:    ms,
			Centroids:     c,
		}
		if err := writeSummary(opts.summary, s); err != nil {
			return err
		}
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func writeSummary(path string, s runSummary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
