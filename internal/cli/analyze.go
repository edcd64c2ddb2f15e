package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"resume-ats/internal/analyses"
	"resume-ats/internal/bootstrap"
	"resume-ats/internal/shared/config"
)

type analyzeOptions struct {
	jdPath  string
	outPath string
}

func newAnalyzeCmd(cfg config.Config) *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Score a résumé for ATS compatibility",
		Long: `Analyze extracts the résumé text (PDF, DOCX, plain text, or stdin with "-"),
applies the same validation as POST /api/analyze and prints the analysis JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resumeText, source, err := readResume(ctx, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			jd, err := readOptional(opts.jdPath)
			if err != nil {
				return err
			}
			if err := analyses.ValidateResumeText(resumeText, source); err != nil {
				return err
			}
			if err := analyses.ValidateJobDescription(jd); err != nil {
				return err
			}

			provider, err := bootstrap.BuildProvider(ctx, cfg.LLM)
			if err != nil {
				return err
			}
			resp, err := analyses.NewService(provider).Analyze(ctx, resumeText, jd)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			var buf bytes.Buffer
			if err := writeJSON(&buf, resp); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.outPath, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "Path to a job description text file")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Output file path (default: stdout)")
	return cmd
}
