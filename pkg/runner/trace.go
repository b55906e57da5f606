package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TraceEvent is one line of the JSONL trace: the settled outcome of a
// single action, timestamped at write time.
type TraceEvent struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Outcome   *ActionOutcome `json:"outcome"`
}

// TraceWriter appends action outcomes to a JSONL trace file.
type TraceWriter struct {
	file   *os.File
	writer *bufio.Writer
	enc    *json.Encoder
}

// NewTraceWriter creates a trace writer that appends to the given file.
func NewTraceWriter(path string) (*TraceWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	w := bufio.NewWriter(f)
	return &TraceWriter{
		file:   f,
		writer: w,
		enc:    json.NewEncoder(w),
	}, nil
}

// Write appends an outcome as a JSONL event and flushes to disk.
func (tw *TraceWriter) Write(outcome *ActionOutcome) error {
	event := TraceEvent{
		Type:      "action_outcome",
		Timestamp: time.Now(),
		Outcome:   outcome,
	}
	if err := tw.enc.Encode(event); err != nil {
		return fmt.Errorf("encode trace event: %w", err)
	}
	// Flush and sync at action boundaries
	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("flush trace: %w", err)
	}
	if err := tw.file.Sync(); err != nil {
		return fmt.Errorf("sync trace: %w", err)
	}
	return nil
}

// Close flushes and closes the trace file.
func (tw *TraceWriter) Close() error {
	if err := tw.writer.Flush(); err != nil {
		return err
	}
	return tw.file.Close()
}
