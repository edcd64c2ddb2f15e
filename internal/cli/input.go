package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-ats/internal/analyses"
	"resume-ats/internal/extract"
)

const stdinArg = "-"

// readResume loads résumé text from a PDF or DOCX file, a plain text file, or
// stdin when path is "-".
func readResume(ctx context.Context, path string, stdin io.Reader) (string, analyses.ResumeSource, error) {
	if path == stdinArg {
		data, err := io.ReadAll(io.LimitReader(stdin, extract.MaxFileBytes+1))
		if err != nil {
			return "", analyses.SourcePasted, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), analyses.SourcePasted, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx":
		text, err := extractFile(ctx, path)
		return text, analyses.SourceFile, err
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", analyses.SourcePasted, fmt.Errorf("read resume: %w", err)
		}
		return string(data), analyses.SourcePasted, nil
	}
}

func extractFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	name := filepath.Base(path)
	res, err := extract.ExtractFile(ctx, f, info.Size(), extract.MimeFromFileName(name), name)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// readOptional returns the file contents, or "" when path is empty.
func readOptional(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// writeJSON pretty-prints v to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if strings.TrimSpace(path) == "" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
