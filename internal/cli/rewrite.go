package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"resume-ats/internal/bootstrap"
	"resume-ats/internal/rewrites"
	"resume-ats/internal/shared/config"
)

type rewriteOptions struct {
	jdPath       string
	analysisPath string
	outPath      string
	markdownOnly bool
}

func newRewriteCmd(cfg config.Config) *cobra.Command {
	var opts rewriteOptions
	cmd := &cobra.Command{
		Use:   "rewrite <file|->",
		Short: "Produce a tailored rewrite of a résumé",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resumeText, _, err := readResume(ctx, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			jd, err := readOptional(opts.jdPath)
			if err != nil {
				return err
			}
			analysisText, err := readOptional(opts.analysisPath)
			if err != nil {
				return err
			}
			var analysis json.RawMessage
			if analysisText != "" {
				if !json.Valid([]byte(analysisText)) {
					return fmt.Errorf("%s is not valid JSON", opts.analysisPath)
				}
				analysis = json.RawMessage(analysisText)
			}
			if err := rewrites.ValidateRequest(resumeText, analysis); err != nil {
				return err
			}

			provider, err := bootstrap.BuildProvider(ctx, cfg.LLM)
			if err != nil {
				return err
			}
			result, err := rewrites.NewService(provider).Rewrite(ctx, resumeText, jd, analysis)
			if err != nil {
				return fmt.Errorf("rewrite: %w", err)
			}

			if opts.markdownOnly {
				return writeOutput(cmd.OutOrStdout(), opts.outPath, []byte(result.Markdown))
			}
			var buf bytes.Buffer
			if err := writeJSON(&buf, result); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.outPath, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "Path to a job description text file")
	cmd.Flags().StringVar(&opts.analysisPath, "analysis", "", "Path to a previous analyze result (JSON)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.markdownOnly, "markdown", false, "Write only the Markdown rendering")
	return cmd
}
