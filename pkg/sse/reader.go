// Package sse maintains the server push channel: it connects to the
// backend's event stream, decodes the named events into typed chat
// events, and delivers them over a channel in arrival order.
package sse

import (
	"bufio"
	"bytes"
	"io"
)

// maxEventSize caps a single SSE event (64KB). Oversized events abort
// the connection rather than growing without bound.
const maxEventSize = 64 * 1024

// ErrEventTooLarge is returned when a single event exceeds maxEventSize.
var ErrEventTooLarge = errEventTooLarge{}

type errEventTooLarge struct{}

func (errEventTooLarge) Error() string { return "sse: event exceeds size limit" }

// Reader parses Server-Sent Events frames from a stream.
type Reader struct {
	reader *bufio.Reader
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// ReadEvent returns the next event's type and data. Multi-line data
// fields are joined with newlines; id:, retry: and comment lines are
// ignored. Returns io.EOF when the stream ends.
func (r *Reader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte
	size := 0

	for {
		line, err := r.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			return "", nil, err
		}

		size += len(line)
		if size > maxEventSize {
			return "", nil, ErrEventTooLarge
		}

		line = bytes.TrimRight(line, "\r\n")

		// Blank line terminates the event.
		if len(line) == 0 {
			if len(dataLines) > 0 || eventType != "" {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[len("event:"):]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, bytes.TrimSpace(line[len("data:"):]))
		}
	}
}
