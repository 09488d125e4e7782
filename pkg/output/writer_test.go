package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	assert.NotNil(t, w)
	assert.Equal(t, "job-123", w.jobID)
	assert.Equal(t, "root", w.rootName)
}

func TestJSONLWriter_WriteEntry(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	entry := &EntryRecord{Key: "/root/a/b", Value: "hello", Kind: "record"}

	err := w.WriteEntry(context.Background(), entry)
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, TypeEntry, record.Type)
	assert.Equal(t, "job-123", record.JobID)
	assert.Equal(t, "root", record.RootName)
	assert.False(t, record.TS.IsZero())

	var entryData EntryRecord
	require.NoError(t, json.Unmarshal(record.Data, &entryData))
	assert.Equal(t, "/root/a/b", entryData.Key)
	assert.Equal(t, "hello", entryData.Value)
	assert.Equal(t, "record", entryData.Kind)
}

func TestJSONLWriter_WriteListing(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	listing := &ListingRecord{
		Prefix: "/root",
		Depth:  "all",
		Entries: []ListingEntry{
			{Key: "/root/a", Kind: "record"},
			{Key: "/root/b", Kind: "table"},
		},
	}

	err := w.WriteListing(context.Background(), listing)
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, TypeListing, record.Type)

	var listingData ListingRecord
	require.NoError(t, json.Unmarshal(record.Data, &listingData))
	assert.Equal(t, "/root", listingData.Prefix)
	assert.Equal(t, "all", listingData.Depth)
	assert.Len(t, listingData.Entries, 2)
}

func TestJSONLWriter_WriteHook(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	hook := &HookRecord{Prefix: "/root/events", Targets: []string{"http://example.invalid/a"}}

	err := w.WriteHook(context.Background(), hook)
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, TypeHook, record.Type)

	var hookData HookRecord
	require.NoError(t, json.Unmarshal(record.Data, &hookData))
	assert.Equal(t, "/root/events", hookData.Prefix)
	assert.Equal(t, []string{"http://example.invalid/a"}, hookData.Targets)
}

func TestJSONLWriter_WriteQueueItem(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	item := &QueueItemRecord{Key: "/root/q", Value: "task-1", Op: "push"}

	err := w.WriteQueueItem(context.Background(), item)
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, TypeQueueItem, record.Type)

	var itemData QueueItemRecord
	require.NoError(t, json.Unmarshal(record.Data, &itemData))
	assert.Equal(t, "push", itemData.Op)
	assert.Equal(t, "task-1", itemData.Value)
}

func TestJSONLWriter_WriteError(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	errRec := &ErrorRecord{
		Code:    "InvalidKey",
		Message: "key does not exist",
		Key:     "/root/missing",
	}

	err := w.WriteError(context.Background(), errRec)
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, TypeError, record.Type)

	var errData ErrorRecord
	require.NoError(t, json.Unmarshal(record.Data, &errData))
	assert.Equal(t, "InvalidKey", errData.Code)
	assert.Equal(t, "/root/missing", errData.Key)
}

func TestJSONLWriter_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	sum := &SummaryRecord{
		ItemsProcessed: 42,
		Duration:       30 * time.Second,
		DurationHuman:  "30s",
		Errors:         1,
	}

	err := w.WriteSummary(context.Background(), sum)
	require.NoError(t, err)

	var record Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, TypeSummary, record.Type)

	var sumData SummaryRecord
	require.NoError(t, json.Unmarshal(record.Data, &sumData))
	assert.Equal(t, int64(42), sumData.ItemsProcessed)
	assert.Equal(t, 30*time.Second, sumData.Duration)
	assert.Equal(t, int64(1), sumData.Errors)
}

func TestJSONLWriter_NewlineTerminated(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	require.NoError(t, w.WriteEntry(context.Background(), &EntryRecord{Key: "/root/a"}))
	require.NoError(t, w.WriteEntry(context.Background(), &EntryRecord{Key: "/root/b"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	for _, line := range lines {
		var record Record
		assert.NoError(t, json.Unmarshal([]byte(line), &record))
	}
}

func TestJSONLWriter_Close(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	require.NoError(t, w.Close())

	err := w.WriteEntry(context.Background(), &EntryRecord{Key: "/root/a"})
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestJSONLWriter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	const numWriters = 10
	const writesPerWriter = 100

	var wg sync.WaitGroup
	wg.Add(numWriters)

	for i := 0; i < numWriters; i++ {
		go func(writerID int) {
			defer wg.Done()
			for j := 0; j < writesPerWriter; j++ {
				entry := &EntryRecord{Key: "/root/a", Value: "v"}
				_ = w.WriteEntry(context.Background(), entry)
			}
		}(i)
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, numWriters*writesPerWriter)

	for i, line := range lines {
		var record Record
		assert.NoError(t, json.Unmarshal([]byte(line), &record), "line %d should be valid JSON: %s", i, line)
	}
}

func TestJSONLWriter_ContextCancellation(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf, "job-123", "root")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.WriteEntry(ctx, &EntryRecord{Key: "/root/a"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestJSONLWriter_WriteFailure(t *testing.T) {
	failWriter := &failingWriter{err: errors.New("disk full")}
	w := NewJSONLWriter(failWriter, "job-123", "root")

	err := w.WriteEntry(context.Background(), &EntryRecord{Key: "/root/a"})
	require.Error(t, err)

	var writeErr *WriteError
	assert.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "write", writeErr.Op)
}

type failingWriter struct {
	err error
}

func (f *failingWriter) Write(p []byte) (n int, err error) {
	return 0, f.err
}

func TestJSONLWriter_ShortWrite(t *testing.T) {
	shortWriter := &shortWriteWriter{bytesPerWrite: 10}
	w := NewJSONLWriter(shortWriter, "job-123", "root")

	entry := &EntryRecord{Key: "/root/data/2024/file", Value: "abc123"}

	err := w.WriteEntry(context.Background(), entry)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(shortWriter.buf.String()), "\n")
	assert.Len(t, lines, 1)

	var record Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, TypeEntry, record.Type)
}

func TestJSONLWriter_ZeroWrite(t *testing.T) {
	zeroWriter := &zeroWriteWriter{}
	w := NewJSONLWriter(zeroWriter, "job-123", "root")

	err := w.WriteEntry(context.Background(), &EntryRecord{Key: "/root/a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

type shortWriteWriter struct {
	buf           bytes.Buffer
	bytesPerWrite int
}

func (sw *shortWriteWriter) Write(p []byte) (n int, err error) {
	toWrite := len(p)
	if toWrite > sw.bytesPerWrite {
		toWrite = sw.bytesPerWrite
	}
	return sw.buf.Write(p[:toWrite])
}

type zeroWriteWriter struct{}

func (zw *zeroWriteWriter) Write(p []byte) (n int, err error) {
	return 0, nil
}

func TestWriteError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &WriteError{Op: "marshal", Err: underlying}

	assert.Equal(t, "output: marshal: underlying error", err.Error())
	assert.ErrorIs(t, err, underlying)
}

func TestRecord_JSONSerialization(t *testing.T) {
	record := Record{
		Type:     TypeEntry,
		TS:       time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		JobID:    "abc123",
		RootName: "root",
		Data:     json.RawMessage(`{"key":"/root/a","value":"1"}`),
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, TypeEntry, parsed["type"])
	assert.Equal(t, "abc123", parsed["job_id"])
	assert.Equal(t, "root", parsed["root_name"])
	assert.NotNil(t, parsed["ts"])
	assert.NotNil(t, parsed["data"])
}

func TestEntryRecord_OmitEmpty(t *testing.T) {
	entry := EntryRecord{Key: "/root/a"}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "value")
	assert.NotContains(t, string(data), "kind")
}

func TestErrorRecord_OmitEmpty(t *testing.T) {
	errRec := ErrorRecord{Code: "InternalError", Message: "something went wrong"}

	data, err := json.Marshal(errRec)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "key")
}

func BenchmarkJSONLWriter_WriteEntry(b *testing.B) {
	w := NewJSONLWriter(io.Discard, "job-123", "root")
	entry := &EntryRecord{Key: "/root/data/2024/01/15/file", Value: "abc123def456"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.WriteEntry(ctx, entry)
	}
}
