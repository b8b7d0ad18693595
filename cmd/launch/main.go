// Command launch expands a YAML experiment config into cluster jobs and
// submits them through sbatch.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	launch "github.com/ronuchit/predicators"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath    string
	phase         string
	dbPath        string
	logDir        string
	partition     string
	timeLimit     string
	useGPU        bool
	dryRun        bool
	relaunchEvery time.Duration
	logFormat     string
	logLevel      string
}

func run(outW io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("launch", flag.ContinueOnError)
	flagSet.SetOutput(outW)
	flagSet.Usage = func() {
		fmt.Fprint(outW, `
launch - submit experiment grids to the cluster.

Usage:
  launch -config experiment.yaml -phase generate
  launch -config experiment.yaml -phase load

Run the load phase only after the generate wave has finished on the
cluster; the launcher does not wait for job completion.

Options:
`)
		flagSet.PrintDefaults()
	}

	var opts options
	flagSet.StringVar(&opts.configPath, "config", "", "Path to the YAML experiment config.")
	flagSet.StringVar(&opts.phase, "phase", string(launch.PhaseGenerate), "Run phase: 'generate' or 'load'.")
	flagSet.StringVar(&opts.dbPath, "db", "launch_records.db", "Path to the submission record database.")
	flagSet.StringVar(&opts.logDir, "log-dir", "logs", "Directory for per-job cluster logs.")
	flagSet.StringVar(&opts.partition, "partition", "", "Slurm partition override.")
	flagSet.StringVar(&opts.timeLimit, "time-limit", "", "Slurm time limit override (e.g. 99:00:00).")
	flagSet.BoolVar(&opts.useGPU, "gpu", false, "Submit to the GPU partition.")
	flagSet.BoolVar(&opts.dryRun, "dry-run", false, "Print sbatch commands instead of executing them.")
	flagSet.DurationVar(&opts.relaunchEvery, "relaunch-every", 0, "Re-run on this interval until no job fails (0 disables).")
	flagSet.StringVar(&opts.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "Log level: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if opts.configPath == "" {
		flagSet.Usage()
		return fmt.Errorf("launch: -config is required")
	}

	configureLogging(opts.logFormat, opts.logLevel)

	phase, err := launch.ParsePhase(opts.phase)
	if err != nil {
		return fmt.Errorf("%w: %q", err, opts.phase)
	}

	exp, err := launch.LoadExperiment(opts.configPath)
	if err != nil {
		return err
	}
	g, err := exp.Grid()
	if err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(opts.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("launch: open record db %s: %w", opts.dbPath, err)
	}
	store := launch.NewGormStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("launch: migrate record db: %w", err)
	}

	backendOpts := []launch.SlurmOption{launch.LogDir(opts.logDir)}
	if opts.partition != "" {
		backendOpts = append(backendOpts, launch.Partition(opts.partition))
	}
	if opts.timeLimit != "" {
		backendOpts = append(backendOpts, launch.TimeLimit(opts.timeLimit))
	}
	if opts.useGPU {
		backendOpts = append(backendOpts, launch.UseGPU())
	}
	if opts.dryRun {
		backendOpts = append(backendOpts, launch.DryRun(outW))
	}

	if err := reportRetries(ctx, outW, store); err != nil {
		return err
	}

	l := launch.New(g, store, launch.NewSlurm(backendOpts...))

	var records []*launch.SubmissionRecord
	if opts.relaunchEvery > 0 {
		relauncher := launch.NewRelauncher(l, launch.Every(opts.relaunchEvery), phase)
		records, err = relauncher.Start(ctx)
	} else {
		records, err = l.Run(ctx, phase)
	}
	report(outW, records)
	return err
}

// retryReportLimit caps the per-outcome listing of earlier failures.
const retryReportLimit = 100

// reportRetries lists identities whose last recorded outcome was a failure.
// Those are the jobs this run will attempt again.
func reportRetries(ctx context.Context, w io.Writer, store launch.Store) error {
	for _, outcome := range []launch.Outcome{launch.OutcomeSubmissionFailed, launch.OutcomeDependencyNotFound} {
		records, err := store.ListByOutcome(ctx, outcome, retryReportLimit)
		if err != nil {
			return fmt.Errorf("launch: listing %s records: %w", outcome, err)
		}
		for _, rec := range records {
			fmt.Fprintf(w, "retrying   %s (last outcome %s)\n", rec.Identity, rec.Outcome)
		}
	}
	return nil
}

// report prints one line per considered job, failures last.
func report(w io.Writer, records []*launch.SubmissionRecord) {
	var failed []*launch.SubmissionRecord
	for _, rec := range records {
		switch rec.Outcome {
		case launch.OutcomeSubmitted:
			fmt.Fprintf(w, "submitted  %s (handle %s)\n", rec.Identity, rec.Handle)
		case launch.OutcomeSkipped:
			fmt.Fprintf(w, "skipped    %s (handle %s)\n", rec.Identity, rec.Handle)
		case launch.OutcomeDryRun:
			fmt.Fprintf(w, "dry-run    %s\n", rec.Identity)
		default:
			failed = append(failed, rec)
		}
	}
	for _, rec := range failed {
		fmt.Fprintf(w, "FAILED     %s: %s: %s\n", rec.Identity, rec.Outcome, rec.Reason)
	}
}

func configureLogging(format, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}
