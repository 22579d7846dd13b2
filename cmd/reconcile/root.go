package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/reconciler/internal/app"
	"github.com/MrJamesThe3rd/reconciler/internal/config"
	"github.com/MrJamesThe3rd/reconciler/internal/logger"
)

// newRunner is replaced in tests so the command runs without live ledgers.
var newRunner = func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (app.Runner, func(context.Context) error, error) {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	return a, a.Close, nil
}

type flags struct {
	config   string
	start    string
	end      string
	output   string
	compress bool
	workers  int
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile negative invoices between Biller and Jano",
		Long: `Fetches the negative invoices billed in a period from Biller, looks each one up
in Jano together with its credit notes and replacement invoices, and writes the
evaluated rows to a semicolon-separated CSV report.

Without --start and --end the period comes from config.toml, or defaults to the
previous calendar month.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReconcile(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", "", "tuning file (default $RECONCILER_CONFIG or config.toml)")
	cmd.Flags().StringVar(&f.start, "start", "", "first billing day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "last billing day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory the report is written to")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "gzip the report file")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "concurrent invoice lookups")
	cmd.MarkFlagsRequiredTogether("start", "end")

	return cmd
}

// apply overrides the tuning file with the flags set on the command line.
func (f flags) apply(cmd *cobra.Command, s *config.Settings) {
	if cmd.Flags().Changed("start") {
		s.StartDate, s.EndDate = f.start, f.end
	}

	if cmd.Flags().Changed("output") {
		s.OutputDir = f.output
	}

	if cmd.Flags().Changed("compress") {
		s.Compress = f.compress
	}

	if cmd.Flags().Changed("workers") {
		s.Workers = f.workers
	}
}

func runReconcile(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}

	f.apply(cmd, &cfg.Settings)

	if err := cfg.Validate(); err != nil {
		return err
	}

	period, err := cfg.Settings.Period(time.Now())
	if err != nil {
		return err
	}

	log, closer, err := logger.New(logger.Config{
		ConsoleLevel: cfg.Settings.LogConsoleLevel,
		FileLevel:    cfg.Settings.LogFileLevel,
		File:         cfg.Settings.LogFile,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, closeRunner, err := newRunner(ctx, cfg, log)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeRunner(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing connections")
		}
	}()

	out, err := runner.Reconcile(ctx, period, "")
	if err != nil {
		return err
	}

	cmd.Printf("Period %s (run %s)\n\n", out.Period, out.RunID)
	cmd.Print(out.Summary.String())
	cmd.Printf("\nReport written to %s\n", out.Location)

	return nil
}
