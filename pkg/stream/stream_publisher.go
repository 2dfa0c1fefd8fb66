package stream

import "context"

// Record is a single delivery stream record.
type Record struct {
	Data []byte
}

// Result is the transport's response to a successful Put.
type Result struct {
	RecordID  string
	Encrypted bool
}

type StreamPublisher interface {
	// Put appends one record to the stream. Put makes a single attempt and
	// returns the transport's error unchanged in its chain.
	Put(ctx context.Context, record Record) (*Result, error)
}
