package port

import "docsum/internal/domain"

type Chunker interface {
	Chunk(text string) ([]domain.Chunk, error)
}
