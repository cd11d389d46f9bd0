// Package log captures band handshake traffic as structured protocol events.
//
// It is separate from operational logging (slog): operational logs say what
// the agent is doing, protocol capture records every frame that crossed the
// authentication characteristic together with the session state changes it
// caused. A capture file is enough to reconstruct a failed pairing offline.
//
// # Basic Usage
//
//	// Console only
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Binary file, viewable with bandauth-log
//	fileLogger, err := log.NewFileLogger("/var/log/bandauth/agent.blog")
//
//	// Both
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fileLogger)
//
// # Event Types
//
//   - Frame: raw notification or write bytes (FrameEvent)
//   - State: session state transitions (StateChangeEvent)
//   - Completion: terminal outcome of a session (CompletionEvent)
//   - Error: decode or transport errors (ErrorEventData)
//
// # File Format
//
// Files are a plain sequence of CBOR-encoded events with integer keys.
// They are append-only; several agent runs may share one file.
package log
