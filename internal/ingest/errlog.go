package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"dexboard/internal/model"
)

// DecodeFailureLog appends decode failures to a JSONL file so bad logs can be
// inspected without stopping the run. A nil log discards failures.
type DecodeFailureLog struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenDecodeFailureLog opens path for appending, creating it if needed.
func OpenDecodeFailureLog(path string) (*DecodeFailureLog, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open decode failure log %s: %w", path, err)
	}
	return &DecodeFailureLog{file: file, enc: json.NewEncoder(file)}, nil
}

// Append writes one failure as a JSON line.
func (l *DecodeFailureLog) Append(failure model.DecodeFailure) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(failure); err != nil {
		return fmt.Errorf("append decode failure: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *DecodeFailureLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
