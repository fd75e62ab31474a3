// Command shotinsights derives shot insights from files, outside the Kafka
// service. It shares the engine, benchmark loading and Arccos aggregation
// with cmd/etl.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/shot-insights-etl/internal/insights"
	"github.com/couchcryptid/shot-insights-etl/internal/observability"
	"github.com/couchcryptid/shot-insights-etl/internal/reference"
	"github.com/spf13/cobra"
)

// engineFlags are shared by every command that runs the engine.
type engineFlags struct {
	benchmark    string
	benchmarkCSV string
	puttingCSV   string
	lastShot     string
	workers      int
	logLevel     string
	out          string
	pretty       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags engineFlags

	root := &cobra.Command{
		Use:          "shotinsights",
		Short:        "Derive golf shot insights from shot records or Arccos exports",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.benchmark, "benchmark", "", "benchmark YAML file (default: embedded PGA Tour tables)")
	pf.StringVar(&flags.benchmarkCSV, "benchmark-csv", "", "long-game benchmark CSV (Distance,Tee,Fairway,Rough,Sand)")
	pf.StringVar(&flags.puttingCSV, "putting-csv", "", "putting benchmark CSV (Distance (feet),Expected putts)")
	pf.StringVar(&flags.lastShot, "last-shot", "reference", "strokes gained for a hole's last shot: reference or undefined")
	pf.IntVar(&flags.workers, "workers", 1, "goroutines for the per-shot phases")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level for stderr")
	pf.StringVarP(&flags.out, "out", "o", "", "output file (default: stdout)")
	pf.BoolVar(&flags.pretty, "pretty", false, "indent the JSON output")

	root.AddCommand(newDeriveCmd(&flags), newAggregateCmd(&flags))
	return root
}

func (f *engineFlags) logger(cmd *cobra.Command) *slog.Logger {
	return observability.NewLoggerTo(cmd.ErrOrStderr(), f.logLevel, "text")
}

func (f *engineFlags) engine(logger *slog.Logger) (*insights.Engine, error) {
	policy, err := insights.ParseLastShotPolicy(f.lastShot)
	if err != nil {
		return nil, err
	}
	if f.workers < 1 {
		return nil, fmt.Errorf("--workers must be at least 1, got %d", f.workers)
	}

	tables, err := reference.Load(f.benchmark, f.benchmarkCSV, f.puttingCSV)
	if err != nil {
		return nil, err
	}
	model, err := insights.NewBenchmarkModel(tables)
	if err != nil {
		return nil, err
	}
	return insights.NewEngine(model,
		insights.WithWorkers(f.workers),
		insights.WithLastShotPolicy(policy),
		insights.WithLogger(logger),
	), nil
}

// write sends JSON to --out or the command's stdout.
func (f *engineFlags) write(cmd *cobra.Command, data []byte) error {
	if f.pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')

	if f.out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(f.out, data, 0o644)
}

// readInput reads a path, or stdin for "" and "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
