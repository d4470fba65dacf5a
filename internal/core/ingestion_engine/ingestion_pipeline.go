package ingestion_engine

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/logger"
)

var _ Archiver = (*UploadArchiver)(nil)

// defaultQueueSize keeps few whole uploads in memory; each may be MAX_UPLOAD_MB.
const defaultQueueSize = 4

// NewUploadArchiver constructs the archiver with a bounded job queue.
func NewUploadArchiver(obj core.ObjectClient, cfg *ArchiveConfig, log *logger.Logger) *UploadArchiver {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &UploadArchiver{
		obj:  obj,
		cfg:  cfg,
		log:  log,
		jobs: make(chan ArchiveJob, size),
	}
}

// Start runs numWorkers goroutines reading from the jobs channel until ctx is done.
func (a *UploadArchiver) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for w := 1; w <= numWorkers; w++ {
		go func(w int) {
			for {
				select {
				case <-ctx.Done():
					a.log.Debug("archiver worker shutting down", "worker", w)
					return
				case job := <-a.jobs:
					key, err := a.processOne(ctx, job)
					if err != nil {
						a.log.Warn("archive upload failed", "worker", w, "file", job.FileName, "error", err)
						continue
					}
					a.log.Info("upload archived", "worker", w, "key", key)
				}
			}
		}(w)
	}
}

// Enqueue schedules an upload for archival. It never blocks: when the queue
// is full the job is dropped and false is returned.
func (a *UploadArchiver) Enqueue(job ArchiveJob) bool {
	select {
	case a.jobs <- job:
		return true
	default:
		a.log.Warn("archive queue full, dropping upload", "file", job.FileName)
		return false
	}
}

func (a *UploadArchiver) processOne(ctx context.Context, job ArchiveJob) (string, error) {
	upctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	key := objectKey(a.cfg.Prefix, job.FileName)
	if _, err := a.obj.UploadFile(upctx, a.cfg.Bucket, key, bytes.NewReader(job.Data), job.ContentType); err != nil {
		return "", err
	}
	return key, nil
}

// objectKey builds "<prefix>/<uuid>/<base name>" so repeated file names never collide.
func objectKey(prefix, fileName string) string {
	name := path.Base(fileName)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return path.Join(prefix, uuid.NewString(), name)
}
