package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofrs/flock"

	"github.com/thebtf/beacon/pkg/models"
)

// ErrLogWrite is the one loud failure in the pipeline: the durable
// record could not be appended.
var ErrLogWrite = errors.New("log write failed")

const (
	lockTimeout = 2 * time.Second
	lockRetry   = 50 * time.Millisecond
)

// LogSink appends NotificationRecords to a JSONL file. Appends from
// concurrent hook processes are serialized with a sidecar flock so no
// record ever interleaves within a line.
type LogSink struct {
	path string
}

// NewLogSink creates a sink writing to path. The file is created on
// first append.
func NewLogSink(path string) *LogSink {
	return &LogSink{path: path}
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}

// Append writes one record as a newline-terminated JSON line. Prior
// lines are never rewritten.
func (s *LogSink) Append(ctx context.Context, record models.NotificationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogWrite, err)
	}
	data = append(data, '\n')

	lock := flock.New(s.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetry)
	if err != nil || !locked {
		return fmt.Errorf("%w: could not acquire append lock: %v", ErrLogWrite, err)
	}
	defer lock.Unlock() //nolint:errcheck

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) // #nosec G304 G302 -- shared log path from configuration
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogWrite, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrLogWrite, err)
	}
	return nil
}
