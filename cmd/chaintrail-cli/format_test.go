package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chaintrail/chaintrail/client"
)

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output and restores os.Stdout. It is NOT safe for parallel use
// because os.Stdout is a package-level variable.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r) //nolint:errcheck
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

func TestFormatJSON(t *testing.T) {
	type sample struct {
		ID     string `json:"id"`
		Action string `json:"action"`
	}
	v := sample{ID: "abc-123", Action: "DELETE"}

	got := captureStdout(t, func() { formatJSON(v) })

	var out sample
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, got)
	}
	if out.ID != "abc-123" {
		t.Errorf("id: got %q, want %q", out.ID, "abc-123")
	}
	if out.Action != "DELETE" {
		t.Errorf("action: got %q, want %q", out.Action, "DELETE")
	}
}

func TestFormatTableAlignment(t *testing.T) {
	got := captureStdout(t, func() {
		formatTable([]string{"ID", "ACTION"}, [][]string{
			{"e1", "CREATE"},
			{"entry-with-long-id", "READ"},
		})
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("header row: %q", lines[0])
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator row: %q", lines[1])
	}
	// All rows pad the first column to the widest cell.
	if !strings.Contains(lines[2], "e1                ") {
		t.Errorf("short cell not padded: %q", lines[2])
	}
}

func TestPrintEntryTable(t *testing.T) {
	got := captureStdout(t, func() {
		printEntryTable([]client.AuditEntry{{
			ID:           "e1",
			Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Action:       "DELETE",
			ActorID:      "user-7",
			ResourceType: "document",
			ResourceID:   "doc-1",
			Outcome:      false,
		}})
	})

	if !strings.Contains(got, "document/doc-1") {
		t.Errorf("resource column missing: %s", got)
	}
	if !strings.Contains(got, "no") {
		t.Errorf("failed outcome not shown: %s", got)
	}
	if !strings.Contains(got, "2026-03-01T12:00:00Z") {
		t.Errorf("timestamp not RFC3339: %s", got)
	}
}

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		name    string
		val     string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "empty is unset", val: "", wantNil: true},
		{name: "rfc3339", val: "2026-03-01T12:00:00Z", want: "2026-03-01T12:00:00Z"},
		{name: "date only", val: "2026-03-01", want: "2026-03-01T00:00:00Z"},
		{name: "garbage", val: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeFlag("from", tt.val)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if got.UTC().Format(time.RFC3339) != tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}
