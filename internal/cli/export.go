package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-ats/internal/exports"
	"resume-ats/resume/model"
)

type exportOptions struct {
	format  string
	outPath string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export <document.json>",
		Short: "Render a structured résumé to DOCX or PDF",
		Long: `Export reads a résumé document (the "json" field of a rewrite, or a whole
rewrite result) and renders it. Without --out the file is written to the
current directory using the server's naming scheme.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := exports.ParseFormat(opts.format)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			doc, err := decodeDocument(raw)
			if err != nil {
				return err
			}
			format, _ := exports.ParseFormat(opts.format)

			file, err := exports.NewService().Export(doc, format, "")
			if err != nil {
				return err
			}
			out := opts.outPath
			if strings.TrimSpace(out) == "" {
				out = file.Name
			}
			if err := writeOutput(cmd.OutOrStdout(), out, file.Data); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(file.Data))
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "pdf", "Output format: docx or pdf")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Output file path")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(exports.FormatDOCX), string(exports.FormatPDF)}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// decodeDocument accepts either a bare document or a {markdown, json} rewrite.
func decodeDocument(raw []byte) (model.ResumeDocument, error) {
	var wrapped struct {
		JSON *model.ResumeDocument `json:"json"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return model.ResumeDocument{}, fmt.Errorf("decode document: %w", err)
	}
	if wrapped.JSON != nil {
		return *wrapped.JSON, nil
	}
	var doc model.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.ResumeDocument{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
