package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const forwardTimeout = 30 * time.Second

// Forwarder delivers user-authored messages to the backend. The
// Stream fires it and forgets; delivery failures belong to the
// transport and never surface in the transcript.
type Forwarder interface {
	SendMessage(ctx context.Context, text string) error
}

// Stream is the ordered chat transcript. It is written only from the
// UI event loop, so no locking is needed; the last entry is the only
// one ever mutated, and only through replaceLast.
type Stream struct {
	messages  []Message
	forwarder Forwarder
}

// NewStream creates an empty transcript. forwarder may be nil, in
// which case user messages are recorded locally but not forwarded.
func NewStream(forwarder Forwarder) *Stream {
	return &Stream{forwarder: forwarder}
}

// PushUser appends a user message and forwards it to the backend
// without waiting for the result.
func (s *Stream) PushUser(content string) {
	s.messages = append(s.messages, Message{
		Content: content,
		Kind:    KindText,
		Sender:  SenderUser,
	})

	if s.forwarder == nil {
		return
	}
	fw := s.forwarder
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), forwardTimeout)
		defer cancel()
		if err := fw.SendMessage(ctx, content); err != nil {
			slog.Warn("chat_forward_failed", "error", err)
		}
	}()
}

// PushFinal appends a complete assistant message as a new entry.
// It never coalesces with a trailing partial-command entry; if the
// backend sends a final message without closing out the partial, the
// partial entry stays in the transcript as-is.
func (s *Stream) PushFinal(content string) {
	s.messages = append(s.messages, Message{
		Content: content,
		Kind:    KindText,
		Sender:  SenderAI,
	})
}

// PushImage appends an image pushed by the backend as a new markup
// entry.
func (s *Stream) PushImage(url string) {
	s.messages = append(s.messages, Message{
		Content: ImageMarkup(url),
		Kind:    KindMarkup,
		Sender:  SenderAI,
	})
}

// PushPartialCommand merges incremental command progress into the
// trailing assistant entry, starting one if the transcript is empty
// or currently ends with a user message.
func (s *Stream) PushPartialCommand(command, soFar string) {
	if len(s.messages) == 0 || s.messages[len(s.messages)-1].Sender != SenderAI {
		s.messages = append(s.messages, Message{Kind: KindText, Sender: SenderAI})
	}
	last := s.messages[len(s.messages)-1]
	last.Content = fmt.Sprintf("%s: %s", command, soFar)
	// Progress text is plain even when it overwrites a markup entry
	last.Kind = KindText
	s.replaceLast(last)
}

// Apply dispatches a transport event to the matching push operation.
func (s *Stream) Apply(ev Event) {
	switch ev := ev.(type) {
	case FinalMessageEvent:
		s.PushFinal(ev.Content)
	case ImageEvent:
		s.PushImage(ev.URL)
	case PartialCommandEvent:
		s.PushPartialCommand(ev.Command, ev.SoFar)
	}
}

// Messages returns a copy of the transcript in display order.
func (s *Stream) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript entries.
func (s *Stream) Len() int {
	return len(s.messages)
}

func (s *Stream) replaceLast(m Message) {
	s.messages[len(s.messages)-1] = m
}
