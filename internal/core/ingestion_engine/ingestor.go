package ingestion_engine

import "context"

// Archiver accepts uploads for best-effort background storage.
type Archiver interface {
	Start(ctx context.Context, numWorkers int)
	Enqueue(job ArchiveJob) bool
}
