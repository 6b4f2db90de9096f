package pipeline

import (
	"context"

	"github.com/filinglens/filinglens-backend/internal/data/repos"
)

// ChunkSource supplies the ordered chunk texts of one filing section. The
// segmentation service owns the chunks; the pipeline only reads them.
type ChunkSource interface {
	ListChunks(ctx context.Context, ticker, accessionNumber, sectionKey string) ([]string, error)
}

type storeChunkSource struct {
	chunks repos.FilingChunkRepo
}

// NewStoreChunkSource reads chunks from the filing_chunk table.
func NewStoreChunkSource(chunks repos.FilingChunkRepo) ChunkSource {
	return &storeChunkSource{chunks: chunks}
}

func (s *storeChunkSource) ListChunks(ctx context.Context, ticker, accessionNumber, sectionKey string) ([]string, error) {
	rows, err := s.chunks.ListBySection(ctx, nil, accessionNumber, sectionKey)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Text)
	}
	return out, nil
}
