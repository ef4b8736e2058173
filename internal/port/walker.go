package port

// FileWalker lists the files below a root directory.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

// FileInfo describes a walked file. Path is absolute.
type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}
