package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/alexshd/kmeans1d/dataset"
	"github.com/spf13/cobra"
)

type genOptions struct {
	preset        string
	seed          uint64
	outDir        string
	pointsName    string
	centroidsName string
}

func newGenCmd(app *cli) *cobra.Command {
	var opts genOptions

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic dataset and initial centroids",
		Long: fmt.Sprintf(`Gen writes Gaussian clusters around fixed means, shuffled, and the means
themselves as initial centroids. Presets: %v.`, dataset.PresetNames()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.gen(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.preset, "preset", "medium", "dataset size preset")
	f.Uint64Var(&opts.seed, "seed", 1, "random seed")
	f.StringVar(&opts.outDir, "out-dir", ".", "output directory")
	f.StringVar(&opts.pointsName, "points", "points.csv", "points file name")
	f.StringVar(&opts.centroidsName, "centroids", "centroids.csv", "initial centroids file name")
	return cmd
}

func (app *cli) gen(out io.Writer, opts genOptions) error {
	p, err := dataset.LookupPreset(opts.preset)
	if err != nil {
		return err
	}
	d, err := dataset.Generate(p, opts.seed)
	if err != nil {
		return err
	}

	pointsPath := filepath.Join(opts.outDir, opts.pointsName)
	centroidsPath := filepath.Join(opts.outDir, opts.centroidsName)

	if err := dataset.WriteFile(pointsPath, func(w io.Writer) error {
		return dataset.WritePoints(w, d.Points)
	}); err != nil {
		return err
	}
	if err := dataset.WriteFile(centroidsPath, func(w io.Writer) error {
		return dataset.WriteCentroids(w, d.Centroids)
	}); err != nil {
		return err
	}

	app.logger.Info("generated dataset",
		"preset", p.Name,
		"n", len(d.Points),
		"k", p.K(),
		"seed", opts.seed,
		"compression", dataset.CompressionFor(pointsPath).String(),
	)
	fmt.Fprintf(out, "%s\n%s\n", pointsPath, centroidsPath)
	return nil
}
