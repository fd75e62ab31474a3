package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/shot-insights-etl/internal/adapter/arccos"
	"github.com/spf13/cobra"
)

func newAggregateCmd(flags *engineFlags) *cobra.Command {
	var rounds, terrain, course string
	var derive bool

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Flatten an Arccos export into shot records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs := make([][]byte, 3)
			for i, path := range []string{rounds, terrain, course} {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read export: %w", err)
				}
				docs[i] = data
			}

			shots, err := arccos.Aggregate(docs[0], docs[1], docs[2])
			if err != nil {
				return err
			}

			if derive {
				logger := flags.logger(cmd)
				engine, err := flags.engine(logger)
				if err != nil {
					return err
				}
				summary, err := engine.Derive(shots)
				if err != nil {
					return err
				}
				logger.Info("export derived",
					"shots", summary.Shots,
					"holes", summary.Holes,
					"undefined_strokes_gained", summary.UndefinedStrokesGained,
				)
			}

			data, err := json.Marshal(shots)
			if err != nil {
				return fmt.Errorf("encode shots: %w", err)
			}
			return flags.write(cmd, data)
		},
	}

	cmd.Flags().StringVar(&rounds, "rounds", "", "rounds document (JSON)")
	cmd.Flags().StringVar(&terrain, "terrain", "", "terrain document (JSON)")
	cmd.Flags().StringVar(&course, "course", "", "course document (JSON)")
	cmd.Flags().BoolVar(&derive, "derive", false, "derive insights for the aggregated shots")
	for _, name := range []string{"rounds", "terrain", "course"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
