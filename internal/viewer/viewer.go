// Package viewer renders the notification log: last-N display, live
// follow, and clear-all. It reads the same JSONL contract the pipeline
// writes and tolerates foreign or damaged lines.
package viewer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	json "github.com/goccy/go-json"
	"github.com/gofrs/flock"

	"github.com/thebtf/beacon/internal/dispatch"
	"github.com/thebtf/beacon/pkg/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Viewer reads and renders the notification log at a fixed path.
type Viewer struct {
	path      string
	useColors bool
}

// New creates a viewer for the log at path.
func New(path string, useColors bool) *Viewer {
	return &Viewer{path: path, useColors: useColors}
}

// ReadLast returns the last n records from the log, oldest first.
// Unparseable lines are skipped. A missing log yields no records.
func (v *Viewer) ReadLast(n int) ([]models.NotificationRecord, error) {
	data, err := os.ReadFile(v.path) // #nosec G304 -- log path from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	records := parseLines(data)
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}

// Render writes the records to w, one line each.
func (v *Viewer) Render(w io.Writer, records []models.NotificationRecord) {
	for _, r := range records {
		fmt.Fprintln(w, v.formatRecord(r))
	}
}

// Follow renders records appended to the log until ctx is done. It
// watches the log's parent directory since the file itself may not
// exist yet.
func (v *Viewer) Follow(ctx context.Context, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(v.path)); err != nil {
		return err
	}

	offset := v.currentSize()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(v.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			offset = v.emitFrom(w, offset)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// Clear truncates the log under the same append lock the sinks use.
func (v *Viewer) Clear() error {
	lock := flock.New(v.path + ".lock")
	lockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil || !locked {
		return fmt.Errorf("could not acquire log lock: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck

	return os.Truncate(v.path, 0)
}

// emitFrom renders complete lines appended past offset and returns the
// new offset. Only whole newline-terminated lines advance it, so a
// record mid-append is picked up on the next event.
func (v *Viewer) emitFrom(w io.Writer, offset int64) int64 {
	f, err := os.Open(v.path) // #nosec G304 -- log path from configuration
	if err != nil {
		return offset
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return offset
	}
	if info.Size() < offset {
		// Log was cleared; start over.
		offset = 0
	}
	if info.Size() == offset {
		return offset
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return offset
	}

	complete := len(data)
	if idx := strings.LastIndexByte(string(data), '\n'); idx >= 0 {
		complete = idx + 1
	} else {
		return offset
	}

	v.Render(w, parseLines(data[:complete]))
	return offset + int64(complete)
}

func (v *Viewer) currentSize() int64 {
	info, err := os.Stat(v.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (v *Viewer) formatRecord(r models.NotificationRecord) string {
	glyph := dispatch.RouteFor(r.EventKind).Glyph
	repo := filepath.Base(r.RepositoryPath)
	stamp := r.Timestamp.Local().Format("15:04:05")

	if v.useColors {
		return fmt.Sprintf("%s%s%s %s %s[%s]%s %s",
			colorGray, stamp, colorReset,
			glyph,
			colorCyan, repo, colorReset,
			r.Description)
	}
	return fmt.Sprintf("%s %s [%s] %s", stamp, glyph, repo, r.Description)
}

func parseLines(data []byte) []models.NotificationRecord {
	var records []models.NotificationRecord
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var r models.NotificationRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records
}
