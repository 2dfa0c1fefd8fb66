package message

import (
	"encoding/json"
	"fmt"
	"os"
)

// QueueMessage is the body sent to a queue for a single file.
//
// Content is encoded by encoding/json as padded standard base64, so the
// receiving side recovers the exact bytes with base64.StdEncoding.
type QueueMessage struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

func NewQueueMessage(name string, content []byte) *QueueMessage {
	return &QueueMessage{
		Name:    name,
		Content: content,
	}
}

// ReadQueueMessage reads the file at path as raw bytes and wraps it in a
// QueueMessage whose Name is path exactly as given.
func ReadQueueMessage(path string) (*QueueMessage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewQueueMessage(path, content), nil
}

func (m *QueueMessage) Marshal() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal queue message: %w", err)
	}
	return b, nil
}

// OpenQueueMessage decodes a body produced by Marshal.
func OpenQueueMessage(data []byte) (*QueueMessage, error) {
	var m QueueMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue message: %w", err)
	}
	return &m, nil
}
