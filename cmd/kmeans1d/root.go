package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli is the state shared by every subcommand.
type cli struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{v: viper.New(), logger: slog.Default()}

	root := &cobra.Command{
		Use:   "kmeans1d",
		Short: "Parallel one-dimensional K-means",
		Long: `kmeans1d clusters a column of numbers into K groups with Lloyd's
algorithm. Assignment and update passes are split across a fixed number of
workers; any worker count produces the same clustering.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(app.v); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), app.v.GetString(keyLogLevel), app.v.GetString(keyLogFormat))
			if err != nil {
				return err
			}
			app.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is ./kmeans1d.yaml or $HOME/.config/kmeans1d/kmeans1d.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Int("max-iter", 50, "maximum assign/update iterations")
	pf.Float64("eps", 1e-4, "relative SSE change that stops the loop")
	pf.Int("workers", 4, "parallel workers")

	for key, flag := range map[string]string{
		keyConfig:    "config",
		keyLogLevel:  "log-level",
		keyLogFormat: "log-format",
		keyMaxIter:   "max-iter",
		keyEps:       "eps",
		keyWorkers:   "workers",
	} {
		_ = app.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newRunCmd(app),
		newGenCmd(app),
		newBenchCmd(app),
		newCompareCmd(app),
	)
	return root
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05",
			NoColor:    !isTerminal(w),
		})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(f.Fd())
}
