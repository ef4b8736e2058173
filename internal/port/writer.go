package port

// SummaryWriter persists a final summary to a file.
type SummaryWriter interface {
	Write(path, title, summary string) error

	// Ext is the file extension, with dot, the writer produces.
	Ext() string
}
