package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newLoginServer(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login" {
			w.Write([]byte(`{"message":"Login successful","user":"alice"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestJournalRecordsEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	j, err := OpenJournal(path)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	c, err := New(newLoginServer(t), WithJournal(j), WithNotifier(NotifierFunc(func(Notification) {})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if _, err := c.Call(ctx, EndpointLogin, Options{Method: http.MethodPost, Body: map[string]string{"password": "secret"}}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := c.Call(ctx, EndpointLogs, Options{}); err == nil {
		t.Fatalf("expected unauthorized")
	}
	j.Close()
	j.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	var recs []CallRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r CallRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		if r.SchemaVersion != JournalSchemaVersion {
			t.Fatalf("expected schema %d, got %d", JournalSchemaVersion, r.SchemaVersion)
		}
		if r.RequestID == "" || r.TimestampUTC == "" {
			t.Fatalf("record missing id or timestamp: %+v", r)
		}
		recs = append(recs, r)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Endpoint != EndpointLogin || recs[0].Status != 200 || recs[0].Error != "" {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[1].Status != http.StatusUnauthorized || recs[1].Error != "Unauthorized" {
		t.Fatalf("unexpected second record: %+v", recs[1])
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "secret") {
		t.Fatalf("journal must not contain request bodies")
	}
}

func TestNilJournalIsSafe(t *testing.T) {
	var j *Journal
	j.Record(&CallRecord{})
	j.Close()
}
