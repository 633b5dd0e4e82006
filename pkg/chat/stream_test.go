package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeForwarder records forwarded messages and signals on each send.
type fakeForwarder struct {
	sent chan string
	err  error
}

func newFakeForwarder() *fakeForwarder {
	return &fakeForwarder{sent: make(chan string, 8)}
}

func (f *fakeForwarder) SendMessage(_ context.Context, text string) error {
	f.sent <- text
	return f.err
}

func (f *fakeForwarder) waitForSend(t *testing.T) string {
	t.Helper()
	select {
	case text := <-f.sent:
		return text
	case <-time.After(2 * time.Second):
		t.Fatal("Expected message to be forwarded")
		return ""
	}
}

func TestStream_PushUser(t *testing.T) {
	fw := newFakeForwarder()
	s := NewStream(fw)

	s.PushUser("hi")

	messages := s.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if messages[0].Sender != SenderUser {
		t.Errorf("Expected sender %q, got %q", SenderUser, messages[0].Sender)
	}
	if messages[0].Content != "hi" {
		t.Errorf("Expected content 'hi', got %q", messages[0].Content)
	}

	if got := fw.waitForSend(t); got != "hi" {
		t.Errorf("Expected 'hi' forwarded, got %q", got)
	}
}

func TestStream_PushUser_ForwardFailureNotSurfaced(t *testing.T) {
	fw := newFakeForwarder()
	fw.err = errors.New("connection refused")
	s := NewStream(fw)

	s.PushUser("still recorded")
	fw.waitForSend(t)

	messages := s.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message despite forward failure, got %d", len(messages))
	}
	if messages[0].Content != "still recorded" {
		t.Errorf("Expected content 'still recorded', got %q", messages[0].Content)
	}
}

func TestStream_PushUser_NilForwarder(t *testing.T) {
	s := NewStream(nil)

	s.PushUser("hi")

	if s.Len() != 1 {
		t.Fatalf("Expected 1 message, got %d", s.Len())
	}
}

func TestStream_PushFinal_AlwaysAppends(t *testing.T) {
	s := NewStream(nil)

	s.PushFinal("one")
	s.PushFinal("two")
	s.PushFinal("two")

	messages := s.Messages()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	for i, m := range messages {
		if m.Sender != SenderAI {
			t.Errorf("Message %d: expected sender %q, got %q", i, SenderAI, m.Sender)
		}
	}
	if messages[1].Content != "two" || messages[2].Content != "two" {
		t.Error("Expected duplicate events to produce duplicate entries")
	}
}

func TestStream_PushImage(t *testing.T) {
	s := NewStream(nil)

	s.PushImage("http://x/y.png")

	messages := s.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if !strings.Contains(messages[0].Content, "http://x/y.png") {
		t.Errorf("Expected content to embed the URL, got %q", messages[0].Content)
	}
	if messages[0].Kind != KindMarkup {
		t.Error("Expected image entry to be tagged as markup")
	}
	if messages[0].Sender != SenderAI {
		t.Errorf("Expected sender %q, got %q", SenderAI, messages[0].Sender)
	}
}

func TestStream_PushPartialCommand_Coalesces(t *testing.T) {
	s := NewStream(nil)

	s.PushPartialCommand("search", "ca")
	s.PushPartialCommand("search", "cat")

	messages := s.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if messages[0].Content != "search: cat" {
		t.Errorf("Expected 'search: cat', got %q", messages[0].Content)
	}
	if messages[0].Sender != SenderAI {
		t.Errorf("Expected sender %q, got %q", SenderAI, messages[0].Sender)
	}
}

func TestStream_PushPartialCommand_AfterUserStartsNewEntry(t *testing.T) {
	s := NewStream(nil)

	s.PushUser("hi")
	s.PushPartialCommand("search", "ca")

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "hi" || messages[0].Sender != SenderUser {
		t.Errorf("Expected user entry untouched, got %+v", messages[0])
	}
	if messages[1].Content != "search: ca" {
		t.Errorf("Expected 'search: ca', got %q", messages[1].Content)
	}
}

func TestStream_PushFinal_DoesNotCoalesceWithPartial(t *testing.T) {
	s := NewStream(nil)

	s.PushPartialCommand("search", "cat")
	s.PushFinal("Done")

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "search: cat" {
		t.Errorf("Expected orphaned partial entry 'search: cat', got %q", messages[0].Content)
	}
	if messages[1].Content != "Done" {
		t.Errorf("Expected 'Done', got %q", messages[1].Content)
	}
}

func TestStream_PartialCommand_OverwritesExistingAIEntry(t *testing.T) {
	s := NewStream(nil)

	s.PushFinal("answer")
	s.PushPartialCommand("search", "ca")

	messages := s.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}
	if messages[0].Content != "search: ca" {
		t.Errorf("Expected 'search: ca', got %q", messages[0].Content)
	}
}

func TestStream_Apply(t *testing.T) {
	s := NewStream(nil)

	s.Apply(PartialCommandEvent{Command: "search", SoFar: "ca"})
	s.Apply(PartialCommandEvent{Command: "search", SoFar: "cat"})
	s.Apply(FinalMessageEvent{Content: "Done"})
	s.Apply(ImageEvent{URL: "http://x/y.png"})

	messages := s.Messages()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	if messages[0].Content != "search: cat" {
		t.Errorf("Expected 'search: cat', got %q", messages[0].Content)
	}
	if messages[1].Content != "Done" {
		t.Errorf("Expected 'Done', got %q", messages[1].Content)
	}
	if !strings.Contains(messages[2].Content, "http://x/y.png") {
		t.Errorf("Expected image markup, got %q", messages[2].Content)
	}
}

func TestStream_MessagesReturnsCopy(t *testing.T) {
	s := NewStream(nil)
	s.PushFinal("original")

	messages := s.Messages()
	messages[0].Content = "mutated"

	if s.Messages()[0].Content != "original" {
		t.Error("Expected Messages() to return a copy")
	}
}
