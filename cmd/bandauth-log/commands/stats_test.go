package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bandauth/bandauth-go/pkg/log"
)

func TestStatsHandshake(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, handshakeEvents(ts))

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 4",
		"FRAME:",
		"STATE:",
		"COMPLETION:",
		"IN:",
		"OUT:",
		"REQUEST_SECRET:",
		"AUTH_OK:",
		"Sessions: 1",
		"[5f0c8a51] 4 events",
		"Device: " + testDevice,
		"Status: OK",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Errors:") {
		t.Errorf("unexpected errors section:\n%s", output)
	}
}

func TestStatsCountsOutcomesAndErrors(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, SessionID: "a", Category: log.CategoryCompletion, Completion: &log.CompletionEvent{Status: "TIMED_OUT"}},
		{Timestamp: ts, SessionID: "b", Category: log.CategoryCompletion, Completion: &log.CompletionEvent{Status: "KEY_MISMATCH"}},
		{Timestamp: ts, SessionID: "c", Category: log.CategoryCompletion, Completion: &log.CompletionEvent{Status: "OK", KeyResets: 3}},
		{Timestamp: ts, SessionID: "c", Category: log.CategoryError, Error: &log.ErrorEventData{Message: "short frame"}},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"TIMED_OUT:", "KEY_MISMATCH:", "OK:", "Sessions: 3", "Key resets: 3", "Errors: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
