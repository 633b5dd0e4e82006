package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"agentchat/pkg/chat"
	"agentchat/pkg/command"

	"github.com/tidwall/gjson"
)

// Event names pushed by the backend. Fixed for wire compatibility.
const (
	eventNewMessage     = "new_message"
	eventImage          = "image"
	eventPartialCommand = "partial_command"
	eventDelta          = "delta"
)

const (
	reconnectBaseDelay = 500 * time.Millisecond
	reconnectMaxDelay  = 10 * time.Second
)

// ConnState describes the push channel's connection state.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateConnected
	StateDisconnected
)

// String returns the state's display label.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Client consumes the backend's SSE stream for one chat session and
// turns it into typed chat events. It reconnects on connection loss
// with capped backoff and never delivers a malformed event.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
	events     chan chat.Event
	states     chan ConnState
	parser     *command.StreamParser
}

// NewClient creates a client for the given backend and session. Run
// must be called to start delivery.
func NewClient(baseURL, session string) *Client {
	return &Client{
		baseURL: baseURL,
		session: session,
		// No overall timeout: the stream is long-lived by design.
		httpClient: &http.Client{},
		events:     make(chan chat.Event, 64),
		states:     make(chan ConnState, 8),
		parser:     command.NewStreamParser(),
	}
}

// Events returns the channel of decoded chat events. It is closed
// when Run returns.
func (c *Client) Events() <-chan chat.Event {
	return c.events
}

// States returns the channel of connection state changes.
func (c *Client) States() <-chan ConnState {
	return c.states
}

// Run connects and delivers events until ctx is cancelled,
// reconnecting on failure. It closes the event channel on return.
func (c *Client) Run(ctx context.Context) {
	defer close(c.events)

	delay := reconnectBaseDelay
	for {
		c.setState(ctx, StateConnecting)

		err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}

		c.setState(ctx, StateDisconnected)
		slog.Warn("sse_disconnected", "error", err, "retry_in", delay.String())

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

// consume opens one connection and reads events until it breaks.
func (c *Client) consume(ctx context.Context) error {
	url := fmt.Sprintf("%s/chat/%s/events", c.baseURL, c.session)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	c.setState(ctx, StateConnected)
	slog.Info("sse_connected", "url", url)

	reader := NewReader(resp.Body)
	for {
		name, data, err := reader.ReadEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.New("stream closed by server")
			}
			return err
		}
		c.dispatch(ctx, name, data)
	}
}

// dispatch decodes one named event and forwards it. Malformed
// payloads are dropped with a log line; they must never take down the
// stream or reach the reducer.
func (c *Client) dispatch(ctx context.Context, name string, data []byte) {
	payload := string(data)

	switch name {
	case eventNewMessage:
		content := gjson.Get(payload, "content")
		if !content.Exists() {
			c.dropEvent(name, payload)
			return
		}
		c.parser.Reset()
		c.deliver(ctx, chat.FinalMessageEvent{Content: content.String()})

	case eventImage:
		url := gjson.Get(payload, "url")
		if !url.Exists() {
			c.dropEvent(name, payload)
			return
		}
		c.deliver(ctx, chat.ImageEvent{URL: url.String()})

	case eventPartialCommand:
		cmd := gjson.Get(payload, "command")
		soFar := gjson.Get(payload, "so_far")
		if !cmd.Exists() || !soFar.Exists() {
			c.dropEvent(name, payload)
			return
		}
		c.deliver(ctx, chat.PartialCommandEvent{
			Command: cmd.String(),
			SoFar:   soFar.String(),
		})

	case eventDelta:
		content := gjson.Get(payload, "content")
		if !content.Exists() {
			c.dropEvent(name, payload)
			return
		}
		c.feedDelta(ctx, content.String())

	default:
		slog.Debug("sse_event_ignored", "event", name)
	}
}

// feedDelta routes raw assistant deltas through the streaming command
// parser: completed commands become final messages, the trailing
// partial becomes a partial-command event.
func (c *Client) feedDelta(ctx context.Context, delta string) {
	commands, partial := c.parser.Feed(delta)
	for _, cmd := range commands {
		c.deliver(ctx, chat.FinalMessageEvent{Content: cmd.Text()})
	}
	if partial != nil {
		c.deliver(ctx, chat.PartialCommandEvent{
			Command: partial.Name,
			SoFar:   partial.DisplayText(),
		})
	}
}

func (c *Client) deliver(ctx context.Context, ev chat.Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

// setState publishes a state change without blocking; if the UI is
// behind, stale states are droppable.
func (c *Client) setState(_ context.Context, state ConnState) {
	select {
	case c.states <- state:
	default:
	}
}

func (c *Client) dropEvent(name, payload string) {
	slog.Warn("sse_event_malformed", "event", name, "payload_len", len(payload))
}
