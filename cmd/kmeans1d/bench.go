package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/alexshd/kmeans1d"
	"github.com/alexshd/kmeans1d/dataset"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	levels        []int
	duration      time.Duration
	warmup        time.Duration
	minRuns       int
	minEfficiency float64
	tol           float64
}

func newBenchCmd(app *cli) *cobra.Command {
	var opts benchOptions
	d := kmeans1d.DefaultScalingConfig()

	cmd := &cobra.Command{
		Use:   "bench <points> <centroids>",
		Short: "Measure clustering throughput across worker counts",
		Long: `Bench repeatedly clusters the input at each worker count, fits the
Universal Scalability Law to the measured throughput and recommends a worker
count. Every level must reproduce the clustering of the first level.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.bench(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.IntSliceVar(&opts.levels, "levels", d.Levels, "worker counts to measure")
	f.DurationVar(&opts.duration, "duration", d.Duration, "measurement time per level")
	f.DurationVar(&opts.warmup, "warmup", d.Warmup, "warmup time per level")
	f.IntVar(&opts.minRuns, "min-runs", d.MinRuns, "minimum runs per level")
	f.Float64Var(&opts.minEfficiency, "min-efficiency", 0.5, "lowest acceptable parallel efficiency for the recommendation")
	f.Float64Var(&opts.tol, "tol", 1e-9, "relative tolerance for centroid equivalence")
	return cmd
}

func (app *cli) bench(ctx context.Context, out io.Writer, pointsPath, centroidsPath string, opts benchOptions) error {
	engine, err := engineConfig(app.v)
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

	cfg := kmeans1d.ScalingConfig{
		Duration: opts.duration,
		Warmup:   opts.warmup,
		Levels:   opts.levels,
		MinRuns:  opts.minRuns,
		Engine:   engine,
	}

	app.logger.Info("measuring scaling",
		"points", len(x),
		"clusters", len(c),
		"levels", opts.levels,
		"duration", opts.duration,
	)
	results, err := kmeans1d.MeasureScaling(ctx, x, c, cfg)
	if err != nil {
		return err
	}

	speedup := kmeans1d.Speedup(results)
	base := results[0]
	var diverged []int

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKERS\tRUNS\tRUNS/SEC\tSPEEDUP\tP50\tP95\tITER P99/P50\tITER\tSSE\tSAME")
	for i, r := range results {
		stats := kmeans1d.CalculateStatistics(r)
		same := kmeans1d.CompareResults(base.Last, r.Last, base.Centroids, r.Centroids, opts.tol).Equivalent()
		if !same {
			diverged = append(diverged, r.Workers)
		}
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2fx\t%v\t%v\t%.1f\t%d\t%.6f\t%t\n",
			r.Workers, r.Runs, r.Throughput, speedup[i],
			stats.P50.Round(time.Microsecond), stats.P95.Round(time.Microsecond),
			r.Tail.Ratio, r.Last.Iterations, r.Last.SSE, same)
		if r.Tail.HeavyTailed {
			app.logger.Warn("iteration times are heavy-tailed", "workers", r.Workers, "p50", r.Tail.P50, "p99", r.Tail.P99)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(results) >= 3 {
		coeffs, err := kmeans1d.FitUSL(results)
		if err != nil {
			app.logger.Warn("USL fit failed", "err", err)
		} else {
			rec := kmeans1d.RecommendWorkers(coeffs, slices.Max(opts.levels), opts.minEfficiency)
			fmt.Fprintf(out, "\nUSL: λ=%.3f runs/sec  α=%.4f  β=%.5f  R²=%.3f\n",
				coeffs.Lambda, coeffs.Alpha, coeffs.Beta, coeffs.RSquared)
			fmt.Fprintf(out, "Recommended workers: %d (%s, efficiency %.0f%%)\n",
				rec.Workers, rec.Reason, rec.Efficiency*100)
			if rec.InRetrograde {
				app.logger.Warn("largest level is past the throughput peak", "peak_workers", rec.PeakWorkers)
			}
		}
	} else {
		app.logger.Info("skipping USL fit, need at least 3 levels", "levels", len(results))
	}

	if len(diverged) > 0 {
		return fmt.Errorf("clustering at workers=%v differs from workers=%d", diverged, base.Workers)
	}
	return nil
}
