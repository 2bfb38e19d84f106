// Command dataset prepares and inspects the SQLite file the API reads.
//
//	dataset init     create the station and measurement tables
//	dataset inspect  print row counts and the latest measurement date
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"climate-server/internal/config"
	"climate-server/internal/dataset"
	"climate-server/internal/db"
	"climate-server/internal/logging"
)

const appName = "climate-dataset"

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], cfg, os.Stdout, logger); err != nil {
		logger.Error("dataset command failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg config.Config, out io.Writer, logger *slog.Logger) error {
	fset := flag.NewFlagSet("dataset", flag.ContinueOnError)
	fset.SetOutput(out)
	path := fset.String("path", cfg.SQLitePath, "dataset file")
	fset.Usage = func() {
		fmt.Fprintln(out, "usage: dataset [-path file] init|inspect")
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() != 1 {
		fset.Usage()
		return errors.New("expected exactly one command")
	}

	switch fset.Arg(0) {
	case "init":
		return initDataset(ctx, cfg.SQLiteDriver, *path, out, logger)
	case "inspect":
		return inspectDataset(ctx, cfg, *path, out, logger)
	default:
		fset.Usage()
		return fmt.Errorf("unknown command %q", fset.Arg(0))
	}
}

func initDataset(ctx context.Context, driver, path string, out io.Writer, logger *slog.Logger) error {
	conn, err := db.OpenWritable(ctx, driver, path)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	applied, err := dataset.Migrate(ctx, conn)
	if err != nil {
		return err
	}
	logger.Info("schema ready", "path", path, "applied", applied)
	if len(applied) == 0 {
		fmt.Fprintf(out, "%s: schema already up to date\n", path)
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(out, "%s: applied %s\n", path, v)
	}
	return nil
}

func inspectDataset(ctx context.Context, cfg config.Config, path string, out io.Writer, logger *slog.Logger) error {
	cfg.SQLiteDSN = ""
	cfg.SQLitePath = path
	conn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	s, err := dataset.Inspect(ctx, conn)
	if err != nil {
		return err
	}
	latest := s.LatestDate
	if latest == "" {
		latest = "none"
	}
	fmt.Fprintf(out, "stations:     %d\nmeasurements: %d\nlatest date:  %s\n", s.Stations, s.Measurements, latest)
	return nil
}
