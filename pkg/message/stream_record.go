package message

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CreatedAtLayout is the created_at format: second precision, UTC, a space
// between date and time and no zone suffix.
const CreatedAtLayout = "2006-01-02 15:04:05"

// RecordDelimiter terminates every record put on a delivery stream.
const RecordDelimiter = '\n'

// Clock returns the current wall-clock time.
type Clock func() time.Time

// StreamRecord is the record appended to a delivery stream for a single file.
type StreamRecord struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NewStreamRecord builds a record stamped with now, converted to UTC.
func NewStreamRecord(filename, content string, now time.Time) *StreamRecord {
	return &StreamRecord{
		Filename:  filename,
		Content:   content,
		CreatedAt: now.UTC().Format(CreatedAtLayout),
	}
}

// ReadStreamRecord reads the file at path as text and stamps the record with
// a single reading of clock. A nil clock means time.Now.
func ReadStreamRecord(path string, clock Clock) (*StreamRecord, error) {
	if clock == nil {
		clock = time.Now
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewStreamRecord(path, string(content), clock()), nil
}

// Marshal returns the JSON encoding of the record followed by RecordDelimiter.
func (r *StreamRecord) Marshal() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stream record: %w", err)
	}
	return append(b, RecordDelimiter), nil
}

// OpenStreamRecord decodes a record produced by Marshal. The trailing
// delimiter is optional.
func OpenStreamRecord(data []byte) (*StreamRecord, error) {
	if n := len(data); n > 0 && data[n-1] == RecordDelimiter {
		data = data[:n-1]
	}
	var r StreamRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream record: %w", err)
	}
	return &r, nil
}
