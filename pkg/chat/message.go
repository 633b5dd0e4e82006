package chat

import "fmt"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ContentKind distinguishes plain text from trusted markup. Markup
// content only ever originates from backend events; the renderer
// inserts it without re-escaping.
type ContentKind int

const (
	KindText ContentKind = iota
	KindMarkup
)

// Message is a single entry in the chat transcript.
type Message struct {
	Content string
	Kind    ContentKind
	Sender  Sender
}

// ImageMarkup builds the markup entry content for an image pushed by
// the backend.
func ImageMarkup(url string) string {
	return fmt.Sprintf("![image](%s)", url)
}
