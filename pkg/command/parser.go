// Package command parses the backend's streamed command format: a
// growing JSON array of single-key objects, e.g.
//
//	[{"say": {"text": "Hello"}}, {"search": {"query": "cat pic
//
// A buffer is parseable at any prefix: completed elements decode as
// commands while the trailing element, if cut off mid-stream, is
// reported as a partial.
package command

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Command is one completed command from the stream.
type Command struct {
	Name string
	Args gjson.Result
}

// Text returns the most displayable representation of the command's
// arguments: a "text" field when present, the bare string for string
// arguments, and raw JSON otherwise.
func (c Command) Text() string {
	if text := c.Args.Get("text"); text.Exists() {
		return text.String()
	}
	if c.Args.Type == gjson.String {
		return c.Args.String()
	}
	return c.Args.Raw
}

// Partial is the trailing, still-streaming command at the end of a
// buffer. Args holds the raw partial JSON received so far.
type Partial struct {
	Name string
	Args string
}

// DisplayText extracts the first string value from the partial
// arguments, which for streamed commands is the payload being typed
// out. It falls back to the raw partial when no string value has
// started yet.
func (p Partial) DisplayText() string {
	if text, ok := firstStringValue(p.Args); ok {
		return text
	}
	return strings.TrimSpace(p.Args)
}

// ParseStreaming splits a streamed buffer into completed commands and
// the trailing partial. Buffers that are not yet recognizable as a
// command array yield (nil, nil); the caller just waits for more
// bytes. No input can make it fail.
func ParseStreaming(buffer string) ([]Command, *Partial) {
	buffer = strings.TrimSpace(buffer)
	if buffer == "" || buffer[0] != '[' {
		return nil, nil
	}

	// Fast path: the buffer happens to be a complete array.
	if gjson.Valid(buffer) {
		return decodeArray(buffer), nil
	}

	elements, rest := splitElements(buffer[1:])

	var commands []Command
	for _, el := range elements {
		if !gjson.Valid(el) {
			continue
		}
		if cmd, ok := decodeCommand(gjson.Parse(el)); ok {
			commands = append(commands, cmd)
		}
	}

	return commands, parsePartial(rest)
}

func decodeArray(buffer string) []Command {
	var commands []Command
	for _, el := range gjson.Parse(buffer).Array() {
		if cmd, ok := decodeCommand(el); ok {
			commands = append(commands, cmd)
		}
	}
	return commands
}

// decodeCommand turns a single-key object into a Command. Elements of
// any other shape are dropped.
func decodeCommand(el gjson.Result) (Command, bool) {
	if !el.IsObject() {
		return Command{}, false
	}
	var cmd Command
	var found bool
	el.ForEach(func(key, value gjson.Result) bool {
		cmd = Command{Name: key.String(), Args: value}
		found = true
		return false
	})
	return cmd, found
}

// splitElements walks the array body and returns the complete
// top-level elements plus whatever trails the last complete one.
func splitElements(body string) ([]string, string) {
	var elements []string
	depth := 0
	inString := false
	escaped := false
	start := -1

	for i, r := range body {
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch r {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			inString = true
		case '{', '[':
			if depth == 0 {
				start = i
			}
			depth++
		case '}', ']':
			depth--
			if depth == 0 && start >= 0 {
				elements = append(elements, body[start:i+1])
				start = -1
			}
		}
	}

	if start >= 0 {
		return elements, body[start:]
	}
	return elements, ""
}

// parsePartial extracts the command name from a cut-off element. The
// name is only usable once its closing quote has arrived; before that
// there is nothing to display and the partial is nil.
func parsePartial(rest string) *Partial {
	rest = strings.TrimSpace(rest)
	if rest == "" || rest[0] != '{' {
		return nil
	}

	open := strings.IndexByte(rest, '"')
	if open < 0 {
		return nil
	}
	name, end, ok := readString(rest[open:])
	if !ok || name == "" {
		return nil
	}

	args := rest[open+end:]
	if colon := strings.IndexByte(args, ':'); colon >= 0 {
		args = args[colon+1:]
	} else {
		args = ""
	}

	return &Partial{Name: name, Args: strings.TrimSpace(args)}
}

// readString decodes the JSON string starting at s[0] == '"'. It
// returns the decoded value, the index just past the closing quote,
// and whether the closing quote was present.
func readString(s string) (string, int, bool) {
	var sb strings.Builder
	escaped := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		if escaped {
			switch c {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			return sb.String(), i + 1, true
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), len(s), false
}

// firstStringValue finds the first string value (one that follows a
// colon) in a possibly cut-off JSON fragment. The value may itself be
// unterminated; whatever has arrived is returned.
func firstStringValue(fragment string) (string, bool) {
	inString := false
	escaped := false
	afterColon := false

	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if afterColon {
				value, _, _ := readString(fragment[i:])
				return value, true
			}
			inString = true
		case ':':
			afterColon = true
		case ',', '{', '[':
			afterColon = false
		}
	}
	return "", false
}
