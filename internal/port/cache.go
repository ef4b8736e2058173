package port

// SummaryCache remembers partial summaries keyed by model and chunk text.
type SummaryCache interface {
	Get(model, text string) (string, bool)
	Put(model, text, summary string)
}
