package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexshd/kmeans1d"
	"github.com/alexshd/kmeans1d/dataset"
	"github.com/spf13/cobra"
)

var errMismatch = errors.New("files differ")

type compareOptions struct {
	assignments bool
	tol         float64
}

func newCompareCmd(app *cli) *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two centroid or assignment files",
		Long: `Compare checks that two centroid files hold the same values in any order,
within --tol relative to each value. With --assignments it checks that two
assignment files are identical line by line.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.compare(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.assignments, "assignments", false, "compare assignment files instead of centroids")
	f.Float64Var(&opts.tol, "tol", 1e-6, "relative tolerance for centroids")
	return cmd
}

func (app *cli) compare(out io.Writer, pathA, pathB string, opts compareOptions) error {
	if opts.assignments {
		a, err := dataset.ReadAssignments(pathA)
		if err != nil {
			return err
		}
		b, err := dataset.ReadAssignments(pathB)
		if err != nil {
			return err
		}
		n := kmeans1d.CompareAssignments(a, b)
		if n > 0 {
			fmt.Fprintf(out, "assignments: %d of %d points differ\n", n, max(len(a), len(b)))
			return errMismatch
		}
		fmt.Fprintf(out, "assignments: identical (%d points)\n", len(a))
		return nil
	}

	a, err := dataset.ReadFile(pathA)
	if err != nil {
		return err
	}
	b, err := dataset.ReadFile(pathB)
	if err != nil {
		return err
	}
	ok, diff := kmeans1d.CompareCentroids(a, b, opts.tol)
	app.logger.Debug("compared centroids", "k_a", len(a), "k_b", len(b), "max_diff", diff)
	if !ok {
		fmt.Fprintf(out, "centroids: different (max diff %.6g)\n", diff)
		return errMismatch
	}
	fmt.Fprintf(out, "centroids: equivalent (max diff %.3g)\n", diff)
	return nil
}
