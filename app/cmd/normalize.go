package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"stratint/outlook/app/analysis"
	"stratint/outlook/app/logger"
)

type normalizeOutput struct {
	Outcome analysis.Outcome `json:"outcome"`
	Error   string           `json:"error,omitempty"`
	Record  analysis.Record  `json:"record"`
}

// normalizeCmd replays a saved model reply through the parser. Useful when a
// provider starts drifting from the expected JSON shape.
func normalizeCmd() *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "normalize [FILE]",
		Short: "Normalize a raw model reply read from FILE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return runNormalize(cmd.OutOrStdout(), topic, string(raw))
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "Ad hoc", "topic used when the reply names none")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}
	return data, nil
}

func runNormalize(w io.Writer, topic, raw string) error {
	rec, outcome, err := analysis.Parse(topic, raw)

	res := normalizeOutput{Outcome: outcome, Record: rec}
	if err != nil {
		logger.Warn("reply could not be normalized", "error", err)
		res.Error = err.Error()
		res.Record = analysis.Failure(topic, nil, outcome)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}
