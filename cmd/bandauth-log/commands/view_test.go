package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bandauth/bandauth-go/pkg/log"
	"github.com/bandauth/bandauth-go/pkg/wire"
)

func TestFormatFrameEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	op := wire.OpcodeRandomSecret
	event := log.Event{
		Timestamp: ts,
		SessionID: testSession,
		DeviceID:  testDevice,
		Direction: log.DirectionIn,
		Category:  log.CategoryFrame,
		Frame: &log.FrameEvent{
			Size:   19,
			Data:   []byte{0x10, 0x02, 0x01, 0xaa},
			Opcode: &op,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[sess:5f0c8a51]",
		"IN",
		"Frame RANDOM_SECRET",
		"Device: " + testDevice,
		"19 bytes",
		"Data: 100201aa",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatTruncatedFrame(t *testing.T) {
	event := log.Event{
		Category: log.CategoryFrame,
		Frame:    log.NewFrameEvent(make([]byte, log.MaxFrameData+1)),
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	if !strings.Contains(buf.String(), "(truncated)") {
		t.Errorf("expected truncation marker, got: %s", buf.String())
	}
}

func TestFormatStateChangeEvent(t *testing.T) {
	event := log.Event{
		SessionID: testSession,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: "SECRET_REQUESTED",
			NewState: "KEY_SENT",
			Reason:   "KEY_MISMATCH",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "SECRET_REQUESTED -> KEY_SENT") {
		t.Errorf("expected transition, got: %s", output)
	}
	if !strings.Contains(output, "Reason: KEY_MISMATCH") {
		t.Errorf("expected reason, got: %s", output)
	}
}

func TestFormatCompletionEvent(t *testing.T) {
	event := log.Event{
		Category: log.CategoryCompletion,
		Completion: &log.CompletionEvent{
			Status:    "TRANSPORT_ERROR",
			Error:     "transport: write SEND_KEY: not connected",
			KeyResets: 2,
			Duration:  1500 * time.Millisecond,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{"Completion", "Status: TRANSPORT_ERROR", "Duration: 1.500s", "Key resets: 2", "not connected"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatErrorEvent(t *testing.T) {
	event := log.Event{
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Message: "short frame", Context: "decode"},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Message: short frame") || !strings.Contains(output, "Context: decode") {
		t.Errorf("unexpected error output: %s", output)
	}
	if strings.Contains(output, "Fatal") {
		t.Errorf("non-fatal error printed as fatal: %s", output)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "0.500us"},
		{1500 * time.Microsecond, "1.500ms"},
		{2 * time.Second, "2.000s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if d, err := ParseDirectionFlag("OUT"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(OUT) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
	if c, err := ParseCategoryFlag("completion"); err != nil || c != log.CategoryCompletion {
		t.Errorf("ParseCategoryFlag(completion) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestRunViewFilters(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, handshakeEvents(ts))

	dir := log.DirectionIn
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Direction: &dir}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if strings.Count(output, "[sess:") != 1 {
		t.Errorf("expected exactly one inbound event, got: %s", output)
	}
	if !strings.Contains(output, "AUTH_OK") {
		t.Errorf("expected AUTH_OK frame, got: %s", output)
	}

	buf.Reset()
	if err := RunView(path, ViewFilter{SessionID: "other"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no events for unknown session, got: %s", buf.String())
	}
}
