package command

import "strings"

// StreamParser accumulates raw text deltas from the assistant and
// reports commands as they complete. Completed commands are reported
// exactly once across Feed calls; the trailing partial is reported on
// every call until it completes.
type StreamParser struct {
	buf     strings.Builder
	emitted int
}

// NewStreamParser creates an empty stream parser.
func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// Feed appends a delta to the buffer and returns the commands that
// completed with this delta plus the current trailing partial.
func (p *StreamParser) Feed(delta string) ([]Command, *Partial) {
	p.buf.WriteString(delta)

	commands, partial := ParseStreaming(p.buf.String())
	if len(commands) <= p.emitted {
		return nil, partial
	}

	fresh := commands[p.emitted:]
	p.emitted = len(commands)
	return fresh, partial
}

// Reset clears the buffer for the next assistant turn.
func (p *StreamParser) Reset() {
	p.buf.Reset()
	p.emitted = 0
}
