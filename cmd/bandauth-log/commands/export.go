package commands

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bandauth/bandauth-go/pkg/log"
)

// csvColumns is the CSV header. Frame rows carry the raw bytes in "data".
var csvColumns = []string{
	"timestamp", "session_id", "device_id", "direction", "category",
	"type", "size", "detail", "data",
}

// eventSink writes one exported event.
type eventSink interface {
	write(event log.Event) error
	flush() error
}

var exportFormats = map[string]func(io.Writer) (eventSink, error){
	"jsonl": newJSONLSink,
	"csv":   newCSVSink,
}

// RunExport writes every event of the log at path to output (stdout when
// empty) in the given format.
func RunExport(path, format, output string) error {
	newSink, ok := exportFormats[format]
	if !ok {
		return fmt.Errorf("unknown format: %s (supported: %s)", format, supportedFormats())
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	w := io.Writer(os.Stdout)
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	sink, err := newSink(w)
	if err != nil {
		return err
	}
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := sink.write(event); err != nil {
			return err
		}
	}
	return sink.flush()
}

func supportedFormats() string {
	names := make([]string, 0, len(exportFormats))
	for name := range exportFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

type jsonlSink struct {
	enc *json.Encoder
}

func newJSONLSink(w io.Writer) (eventSink, error) {
	return jsonlSink{enc: json.NewEncoder(w)}, nil
}

func (s jsonlSink) write(event log.Event) error {
	if err := s.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

func (jsonlSink) flush() error { return nil }

type csvSink struct {
	w *csv.Writer
}

func newCSVSink(w io.Writer) (eventSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return csvSink{w: cw}, nil
}

func (s csvSink) write(event log.Event) error {
	if err := s.w.Write(csvRecord(event)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

func (s csvSink) flush() error {
	s.w.Flush()
	return s.w.Error()
}

// csvRecord flattens an event into csvColumns order.
func csvRecord(event log.Event) []string {
	kind, size, detail, data := "unknown", "", "", ""
	switch {
	case event.Frame != nil:
		kind = "frame"
		size = strconv.Itoa(event.Frame.Size)
		detail = event.Frame.Kind()
		data = hex.EncodeToString(event.Frame.Data)
	case event.StateChange != nil:
		kind, detail = "state", event.StateChange.NewState
	case event.Completion != nil:
		kind, detail = "completion", event.Completion.Status
	case event.Error != nil:
		kind, detail = "error", event.Error.Message
	}

	return []string{
		event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		event.SessionID,
		event.DeviceID,
		event.Direction.String(),
		event.Category.String(),
		kind,
		size,
		detail,
		data,
	}
}
