package chat

// Event is a typed chat event decoded from the transport. The
// transport delivers events over a channel; the UI loop applies them
// to a Stream in arrival order.
type Event interface {
	isEvent()
}

// FinalMessageEvent carries a complete assistant message.
type FinalMessageEvent struct {
	Content string
}

// ImageEvent carries the URL of an image pushed by the backend.
type ImageEvent struct {
	URL string
}

// PartialCommandEvent carries incremental progress of one streaming
// command. A run of these for the same turn collapses into a single
// transcript entry.
type PartialCommandEvent struct {
	Command string
	SoFar   string
}

func (FinalMessageEvent) isEvent()   {}
func (ImageEvent) isEvent()          {}
func (PartialCommandEvent) isEvent() {}
