// Package stream appends records to managed delivery streams.
//
// A delivery stream buffers records and forwards them to downstream storage.
// Records are opaque bytes; callers are responsible for framing, e.g. a
// trailing newline per record.
package stream
