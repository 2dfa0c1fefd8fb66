// Package message defines the JSON envelopes built from local files before
// they are handed to a transport.
//
// Envelopes are constructed once per invocation, serialized, and discarded.
// Nothing in this package keeps a reference to the file contents after
// Marshal returns.
package message
