package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"textforge/internal/domain/entity"
	sumUC "textforge/internal/usecase/summary"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type summaryOutput struct {
	Summary             string   `json:"summary"`
	OriginalLength      int      `json:"original_length"`
	SummaryLength       int      `json:"summary_length"`
	ReductionPercentage float64  `json:"reduction_percentage"`
	Error               string   `json:"error,omitempty"`
	Degraded            []string `json:"degraded,omitempty"`
}

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		maxLength int
		kind      string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Extract the most relevant sentences of a text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return fmt.Errorf("--output must be %q or %q", outputText, outputJSON)
			}
			if cmd.Flags().Changed("max-length") && maxLength <= 0 {
				return errors.New("--max-length must be a positive integer")
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc, _ := a.core()
			out, err := svc.Summarize(cmd.Context(), sumUC.Input{Text: text, MaxLength: maxLength, Type: kind})
			if err != nil {
				return cliError(err)
			}
			if out.Error != "" {
				a.logger.Warn("summarizer fell back to a text prefix", slog.String("error", out.Error))
			}
			return writeSummary(cmd, output, out)
		},
	}
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "maximum summary length in words (default: chosen from the text)")
	cmd.Flags().StringVar(&kind, "type", string(entity.SummaryConcise), "summary type: concise or detailed")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

func writeSummary(cmd *cobra.Command, format string, out *sumUC.Output) error {
	if format == outputText {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out.Summary)
		return err
	}
	rec := entity.Summary{OriginalLength: out.OriginalLength, SummaryLength: out.SummaryLength}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summaryOutput{
		Summary:             out.Summary,
		OriginalLength:      out.OriginalLength,
		SummaryLength:       out.SummaryLength,
		ReductionPercentage: rec.ReductionPercentage(),
		Error:               out.Error,
		Degraded:            out.Degraded,
	})
}

// cliError turns use case validation failures into flag-oriented messages.
func cliError(err error) error {
	var ve *entity.ValidationError
	switch {
	case errors.Is(err, entity.ErrEmptyInput):
		return errors.New("no input text: provide a file or pipe text to stdin")
	case errors.Is(err, entity.ErrInvalidSummaryType):
		return errors.New("--type must be 'concise' or 'detailed'")
	case errors.Is(err, entity.ErrInvalidMode):
		return errors.New("--mode must be 'to_markdown' or 'to_text'")
	case errors.As(err, &ve):
		return fmt.Errorf("--%s %s", flagName(ve.Field), ve.Message)
	}
	return err
}

func flagName(field string) string {
	if field == "max_length" {
		return "max-length"
	}
	return field
}
