package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsum/internal/adapter/watch"
	"docsum/internal/adapter/writer"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Summarize documents as they appear in a folder",
	Long: `Watch a folder and summarize every supported document that is created or
modified in it. Documents are handled one at a time; summaries are written into
the output directory (default <dir>/summaries). Stop with Ctrl+C.

Examples:
  docsum watch ./inbox
  docsum watch ./inbox -o ./digests --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", errPathNotFound, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}

	outDir := outputPath
	if outDir == "" {
		outDir = filepath.Join(dir, cfg.Output.Dir)
	}

	w, err := writer.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pipeline, err := newPipeline(ctx, nil)
	if err != nil {
		return err
	}
	sink := saveTo(cmd.OutOrStdout(), outDir, w)

	watcher, err := watch.New(dir, func(ctx context.Context, path string) error {
		summary, err := pipeline.SummarizePath(ctx, path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not summarize file: %s\n    Reason: %s\n", path, reason(err))
			return err
		}
		return sink(ctx, summary)
	}, watch.DefaultSettle, slog.Default())
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (summaries go to %s)\n", dir, outDir)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
