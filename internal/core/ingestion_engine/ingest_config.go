package ingestion_engine

import (
	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/logger"
)

// ChunkConfig tunes the text chunker.
//
// ChunkSize:    approximate tokens per chunk (e.g., 512).
// ChunkOverlap: tokens shared between consecutive chunks (e.g., 20).
type ChunkConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// ArchiveConfig tunes the upload archiver.
//
// Bucket:    destination bucket for raw uploads.
// Prefix:    key prefix inside the bucket.
// QueueSize: pending uploads kept in memory before new ones are dropped.
type ArchiveConfig struct {
	Bucket    string
	Prefix    string
	QueueSize int
}

// ArchiveJob is one raw upload waiting to be copied to object storage.
type ArchiveJob struct {
	FileName    string
	ContentType string
	Data        []byte
}

// UploadArchiver copies raw lecture uploads to object storage in the background:
//
// obj:  object storage client.
// cfg:  bucket and queue settings.
// jobs: in-memory queue of uploads.
type UploadArchiver struct {
	obj  core.ObjectClient
	cfg  *ArchiveConfig
	log  *logger.Logger
	jobs chan ArchiveJob
}

// DocconvExtractor implements core.DocumentExtractor using sajari/docconv.
type DocconvExtractor struct {
	useReadability bool
}

// Chunker implements core.TextSplitter on top of langchaingo's recursive splitter.
type Chunker struct {
	cfg ChunkConfig
}
