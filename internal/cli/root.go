package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docsum/config"
	"docsum/internal/domain"
)

// Version is set at build time with -ldflags "-X docsum/internal/cli.Version=...".
var Version = "dev"

var (
	cfgFile    string
	cfg        *config.Config
	env        config.Env
	outputPath string
	modelName  string
	maxTokens  int
	provider   string
	format     string
	excludes   []string
	noProgress bool
	verbose    bool
)

var errPathNotFound = errors.New("path not found")

var rootCmd = &cobra.Command{
	Use:   "docsum [path]",
	Short: "Summarize documents or folders using a language model",
	Long: `docsum extracts the text of PDF, DOCX and TXT documents, splits it into
token-bounded chunks, summarizes each chunk and merges the partial summaries
into one final summary.

Example usage:
  docsum report.pdf                    # Print the summary
  docsum report.pdf -o report.txt      # Save the summary
  docsum ./docs                        # Summarize a folder into ./docs/summaries
  docsum ./docs --format docx -o out   # Write Word summaries into ./out`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		env, err = config.LoadEnv()
		if err != nil {
			return fmt.Errorf("failed to load environment: %w", err)
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(".")
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv(env)
		applyFlags(cmd)

		slog.SetDefault(newLogger(cfg.Logging.Level, verbose))
		return nil
	},
	RunE: runSummarize,
}

// Execute runs the root command and exits with the code matching the error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	var unreadable *domain.UnreadableError
	if errors.As(err, &unreadable) {
		fmt.Fprintf(os.Stderr, "Could not summarize file: %s\n    Reason: %s\n", unreadable.Path, unreadable.Reason)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(exitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docsum.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output file (single file) or directory (folder)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "model name (overrides DOCUMENT_SUMMARIZER_MODEL)")
	rootCmd.PersistentFlags().IntVar(&maxTokens, "max-tokens", 1000, "max tokens per chunk before calling the model")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "completion provider: openai or gemini (default from config)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "summary file format: text, markdown or docx (default from config)")
	rootCmd.PersistentFlags().StringSliceVar(&excludes, "exclude", nil, "extra glob patterns to skip in folder mode")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable the chunk progress bar")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("max-tokens") {
		cfg.Chunk.MaxTokens = maxTokens
	}
	if flags.Changed("provider") {
		cfg.LLM.Provider = provider
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("exclude") {
		cfg.Walk.Excludes = append(cfg.Walk.Excludes, excludes...)
	}
	cfg.LLM.Model = cfg.ResolveModel(modelName)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errPathNotFound):
		return 1
	case errors.Is(err, domain.ErrUnsupportedExtension):
		return 2
	case domain.IsUnreadable(err), errors.Is(err, domain.ErrNothingToSummarize):
		return 3
	case domain.IsServiceError(err):
		return 4
	default:
		return 1
	}
}
