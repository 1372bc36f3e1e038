package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"textforge/internal/domain/entity"
	convUC "textforge/internal/usecase/conversion"
)

func newMarkdownCmd(a *app) *cobra.Command {
	var (
		mode   string
		render bool
	)
	cmd := &cobra.Command{
		Use:   "markdown [file]",
		Short: "Convert plain text to markdown, or markdown back to plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if render && mode == string(entity.ModeToText) {
				return errors.New("--render needs --mode to_markdown")
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			_, svc := a.core()
			out, err := svc.Convert(cmd.Context(), convUC.Input{Text: text, Mode: mode})
			if err != nil {
				return cliError(err)
			}

			result := out.Result
			if render {
				r, err := a.renderer()
				if err != nil {
					return fmt.Errorf("create renderer: %w", err)
				}
				if result, err = r(result); err != nil {
					return fmt.Errorf("render markdown: %w", err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), result)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
			return err
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(entity.ModeToMarkdown), "conversion mode: to_markdown or to_text")
	cmd.Flags().BoolVarP(&render, "render", "r", false, "pretty-print the markdown for the terminal")
	return cmd
}
