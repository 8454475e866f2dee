package apiclient

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// JournalSchemaVersion is written into every call record. Increment on
// breaking field changes.
const JournalSchemaVersion = 1

// CallRecord is one JSONL line of the call journal. Bodies are never recorded.
type CallRecord struct {
	TimestampUTC  string `json:"timestamp_utc"`
	RequestID     string `json:"request_id"`
	Method        string `json:"method"`
	Endpoint      string `json:"endpoint"`
	Status        int    `json:"status,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
	Error         string `json:"error,omitempty"`
	SchemaVersion int    `json:"schema_version"`
}

// Journal appends call records to a JSONL file from a single writer goroutine.
type Journal struct {
	path    string
	records chan *CallRecord
	wg      sync.WaitGroup
	once    sync.Once
}

// OpenJournal opens (or creates) path for appending and starts the writer.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := &Journal{path: path, records: make(chan *CallRecord, 128)}
	Debugf("[journal] call journal (append): %s", path)
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		defer f.Close()
		enc := json.NewEncoder(f)
		for r := range j.records {
			if r == nil {
				continue
			}
			if err := enc.Encode(r); err != nil {
				Warnf("[journal] encode record: %v", err)
			}
		}
	}()
	return j, nil
}

// Record queues r for writing. Safe on a nil journal.
func (j *Journal) Record(r *CallRecord) {
	if j == nil || r == nil {
		return
	}
	if r.TimestampUTC == "" {
		r.TimestampUTC = time.Now().UTC().Format(time.RFC3339Nano)
	}
	r.SchemaVersion = JournalSchemaVersion
	j.records <- r
}

// Close flushes pending records and stops the writer. Calling it twice is fine;
// Record must not be called after Close.
func (j *Journal) Close() {
	if j == nil {
		return
	}
	j.once.Do(func() {
		close(j.records)
		j.wg.Wait()
		Debugf("[journal] closed %s", j.path)
	})
}
