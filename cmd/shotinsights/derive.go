package main

import (
	"fmt"

	"github.com/couchcryptid/shot-insights-etl/internal/domain"
	"github.com/couchcryptid/shot-insights-etl/internal/pipeline"
	"github.com/spf13/cobra"
)

func newDeriveCmd(flags *engineFlags) *cobra.Command {
	var in, source string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive insights for a batch of shot records",
		Long: `Reads a JSON array of shot records, or a batch payload as published on
the source topic (optionally carrying an Arccos export), and writes the
derived batch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := flags.logger(cmd)
			engine, err := flags.engine(logger)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, in)
			if err != nil {
				return fmt.Errorf("read shots: %w", err)
			}

			raw := domain.RawEvent{Value: data}
			if source != "" {
				raw.Headers = map[string]string{"source": source}
			}
			out, err := pipeline.NewTransformer(engine, logger, nil).Transform(cmd.Context(), raw)
			if err != nil {
				return err
			}

			logger.Info("batch derived", "batch_id", string(out.Key), "shots", out.Headers["shot_count"])
			return flags.write(cmd, out.Value)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "-", "input file (- for stdin)")
	cmd.Flags().StringVar(&source, "source", "", "source name when the payload has none")
	return cmd
}
