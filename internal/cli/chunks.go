package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docsum/internal/adapter/extractor"
	"docsum/internal/domain"
	"docsum/internal/usecase"
)

var chunksJSON bool

var chunksCmd = &cobra.Command{
	Use:   "chunks <file>",
	Short: "Show how a document would be chunked",
	Long: `Extract a document and print its chunk plan (index, tokens, words)
without calling the model. Useful for tuning --max-tokens.

Examples:
  docsum chunks report.pdf
  docsum chunks report.pdf --max-tokens 500 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output as JSON")
}

func runChunks(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", errPathNotFound, path)
	}

	chk, err := newChunker()
	if err != nil {
		return err
	}

	plan := usecase.NewDocumentUseCase(extractor.Default(), chk, nil, nil, nil)
	chunks, err := plan.Plan(cmd.Context(), path)
	if err != nil {
		return err
	}

	if chunksJSON {
		return printChunksJSON(os.Stdout, chunks)
	}
	printChunkPlan(os.Stdout, path, chk.MaxTokens(), chunks)
	return nil
}

type chunkRow struct {
	Index  int    `json:"index"`
	Tokens int    `json:"tokens"`
	Words  int    `json:"words"`
	Head   string `json:"head"`
}

func chunkRows(chunks []domain.Chunk) []chunkRow {
	rows := make([]chunkRow, len(chunks))
	for i, c := range chunks {
		rows[i] = chunkRow{
			Index:  c.Index,
			Tokens: c.Tokens,
			Words:  c.Words(),
			Head:   preview(c.Text, 48),
		}
	}
	return rows
}

func printChunksJSON(w io.Writer, chunks []domain.Chunk) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(chunkRows(chunks))
}

func printChunkPlan(w io.Writer, path string, maxTokens int, chunks []domain.Chunk) {
	fmt.Fprintf(w, "%s: %d chunk(s), max %d tokens\n\n", path, len(chunks), maxTokens)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTOKENS\tWORDS\tSTART")
	for _, r := range chunkRows(chunks) {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", r.Index+1, r.Tokens, r.Words, r.Head)
	}
	tw.Flush()
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
