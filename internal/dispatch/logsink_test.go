package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/beacon/pkg/models"
)

func testRecord(session string) models.NotificationRecord {
	return models.NotificationRecord{
		Timestamp:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		SessionID:      session,
		RepositoryPath: "/home/dev/beacon",
		Description:    "Done.",
		EventKind:      models.KindSessionPause,
	}
}

func readRecords(t *testing.T, path string) []models.NotificationRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []models.NotificationRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r models.NotificationRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestLogSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.jsonl")
	sink := NewLogSink(path)

	require.NoError(t, sink.Append(context.Background(), testRecord("s1")))
	require.NoError(t, sink.Append(context.Background(), testRecord("s2")))

	records := readRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "s1", records[0].SessionID)
	assert.Equal(t, "s2", records[1].SessionID)
	assert.Equal(t, models.KindSessionPause, records[0].EventKind)
}

func TestLogSinkAppendNeverRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.jsonl")
	sink := NewLogSink(path)

	require.NoError(t, sink.Append(context.Background(), testRecord("s1")))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, sink.Append(context.Background(), testRecord("s2")))
	after, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after[:len(before)]))
}

func TestLogSinkConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.jsonl")
	sink := NewLogSink(path)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, sink.Append(context.Background(), testRecord(fmt.Sprintf("s%d", n))))
		}(i)
	}
	wg.Wait()

	// Every line parses: no interleaved or torn records.
	records := readRecords(t, path)
	assert.Len(t, records, writers)
}

func TestLogSinkUnwritablePath(t *testing.T) {
	sink := NewLogSink(filepath.Join(t.TempDir(), "missing", "deep", "notifications.jsonl"))
	err := sink.Append(context.Background(), testRecord("s1"))
	assert.ErrorIs(t, err, ErrLogWrite)
}
