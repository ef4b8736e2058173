package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsum/internal/adapter/writer"
	"docsum/internal/domain"
	"docsum/internal/port"
)

func runSummarize(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", errPathNotFound, path)
	}

	if info.IsDir() {
		return summarizeDir(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), path)
	}
	return summarizeFile(cmd.Context(), cmd.OutOrStdout(), path)
}

func summarizeFile(ctx context.Context, stdout io.Writer, path string) error {
	if !domain.IsSupported(path) {
		return fmt.Errorf("%w: %q (currently supported: .pdf, .docx, .txt)",
			domain.ErrUnsupportedExtension, domain.Ext(path))
	}

	pipeline, err := newPipeline(ctx, nil)
	if err != nil {
		return err
	}

	summary, err := pipeline.SummarizePath(ctx, path)
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Fprint(stdout, "\n--- Summary ---\n\n")
		fmt.Fprintln(stdout, summary.Text)
		return nil
	}

	w, err := writer.ForPath(outputPath, cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := w.Write(outputPath, titleOf(path), summary.Text); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ Summary saved to %s\n", outputPath)
	return nil
}

func summarizeDir(ctx context.Context, stdout, stderr io.Writer, dir string) error {
	outDir := outputPath
	if outDir == "" {
		outDir = filepath.Join(dir, cfg.Output.Dir)
	}

	w, err := writer.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	var walkExcludes []string
	if pattern := outputExclude(dir, outDir); pattern != "" {
		walkExcludes = append(walkExcludes, pattern)
	}

	pipeline, err := newPipeline(ctx, walkExcludes)
	if err != nil {
		return err
	}

	result, err := pipeline.SummarizeDir(ctx, dir, saveTo(stdout, outDir, w))
	if err != nil {
		return err
	}

	for _, f := range result.Failures {
		fmt.Fprintf(stderr, "Could not summarize file: %s\n    Reason: %s\n", f.Path, reason(f.Err))
	}
	fmt.Fprintf(stdout, "\nSummarized %d of %d documents into %s\n", result.Succeeded, result.Processed, outDir)
	return nil
}

// saveTo returns a sink writing each summary into outDir and reporting the
// saved path on stdout.
func saveTo(stdout io.Writer, outDir string, w port.SummaryWriter) func(context.Context, domain.Summary) error {
	return func(_ context.Context, s domain.Summary) error {
		out := writer.OutputPath(outDir, s.Path, w)
		if err := w.Write(out, titleOf(s.Path), s.Text); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✓ Saved: %s\n", out)
		return nil
	}
}

func titleOf(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func reason(err error) string {
	var u *domain.UnreadableError
	if errors.As(err, &u) {
		return u.Reason
	}
	return err.Error()
}
