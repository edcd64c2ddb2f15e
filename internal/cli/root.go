// Package cli implements resumectl, a local driver for the analysis, rewrite
// and export flows that the HTTP API serves.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"resume-ats/internal/shared/config"
)

// NewRootCmd builds the command tree. cfg supplies the LLM credentials for
// analyze and rewrite.
func NewRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "resumectl",
		Short: "Analyze, rewrite and export résumés from the command line",
		Long: `resumectl runs the résumé ATS flows locally: extract text from PDF or
DOCX files, score a résumé against a job description, produce a tailored
rewrite, and render structured résumés to DOCX or PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newExtractCmd(),
		newAnalyzeCmd(cfg),
		newRewriteCmd(cfg),
		newExportCmd(),
		newSampleCmd(),
	)
	return root
}

// Execute runs the command tree with args taken from os.Args.
func Execute(ctx context.Context, cfg config.Config) error {
	return NewRootCmd(cfg).ExecuteContext(ctx)
}
