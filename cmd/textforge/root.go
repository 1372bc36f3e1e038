package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"textforge/internal/config"
	"textforge/internal/infra/lexicon"
	"textforge/internal/infra/markdown"
	"textforge/internal/infra/summarizer"
	"textforge/internal/observability/logging"
	convUC "textforge/internal/usecase/conversion"
	sumUC "textforge/internal/usecase/summary"
)

// app holds what the subcommands share. The core is built lazily so that
// --help and version never load the sentence model.
type app struct {
	logger   *slog.Logger
	newCore  func(*slog.Logger) (*sumUC.Service, *convUC.Service)
	renderer func() (func(string) (string, error), error)

	summaries   *sumUC.Service
	conversions *convUC.Service
}

func defaultApp() *app {
	return &app{
		logger:   logging.NewTextLogger(),
		newCore:  newCore,
		renderer: newRenderer,
	}
}

func (a *app) core() (*sumUC.Service, *convUC.Service) {
	if a.summaries == nil {
		a.summaries, a.conversions = a.newCore(a.logger)
	}
	return a.summaries, a.conversions
}

// newCore builds the use cases without a store: nothing is persisted.
func newCore(logger *slog.Logger) (*sumUC.Service, *convUC.Service) {
	lex := lexicon.Load(lexicon.LoadConfig(), logger)
	sum := summarizer.New(lex, summarizer.WithLogger(logger))
	conv := markdown.New(
		markdown.WithWeights(markdown.WeightsFromEnv(logger)),
		markdown.WithLogger(logger))
	return sumUC.NewService(nil, sum, 0, logger), convUC.NewService(nil, conv, 0, logger)
}

func newRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "textforge",
		Short: "Summarize text and convert between plain text and markdown",
		Long: `textforge runs the extractive summarizer and the markdown converter locally.
Input is read from the file argument, or from stdin when no file or "-" is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.LoadDotEnv()
		},
	}
	root.AddCommand(newSummarizeCmd(a), newMarkdownCmd(a), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of textforge",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "textforge version %s\n", config.APIVersion)
		},
	}
}
