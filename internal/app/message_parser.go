// internal/app/message_parser.go
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the only accepted date/time format: dd.mm.yyyy HH:MM, 24-hour clock.
const DateTimeLayout = "02.01.2006 15:04"

const dateTimeBlockLen = len(DateTimeLayout)

// Parse failures. Callers classify them with errors.Is.
var ErrStructuralMismatch = errors.New("message does not look like '<dd.mm.yyyy HH:MM> <text>'")
var ErrDateFormatMismatch = errors.New("date/time is not a valid dd.mm.yyyy HH:MM value")

// Reminder is the result of a successful parse.
type Reminder struct {
	Clock time.Time // seconds and below are always zero
	Text  string
}

// MessageParser turns raw chat text into a Reminder. It holds no state besides the
// location user input is interpreted in, so it is safe for concurrent use.
type MessageParser struct {
	location *time.Location
}

func NewMessageParser(location *time.Location) *MessageParser {
	if location == nil {
		location = time.Local
	}
	return &MessageParser{location: location}
}

// Parse validates the message shape first and the date second, so the two failure
// kinds never overlap.
func (p *MessageParser) Parse(text string) (Reminder, error) {
	block, description, err := splitMessage(text)
	if err != nil {
		return Reminder{}, err
	}

	clock, err := p.parseClock(block)
	if err != nil {
		return Reminder{}, err
	}

	return Reminder{Clock: clock, Text: description}, nil
}

// splitMessage checks the three-part shape: a 16 character date/time block, one
// separating whitespace, then a non-empty description.
func splitMessage(text string) (block string, description string, err error) {
	if len(text) < dateTimeBlockLen+2 {
		return "", "", fmt.Errorf("%w: too short (%d bytes)", ErrStructuralMismatch, len(text))
	}

	for i := 0; i < dateTimeBlockLen; i++ {
		if !isDateTimeByte(text[i]) {
			return "", "", fmt.Errorf("%w: unexpected character at position %d", ErrStructuralMismatch, i+1)
		}
	}

	if !isSpaceByte(text[dateTimeBlockLen]) {
		return "", "", fmt.Errorf("%w: no separator after date/time", ErrStructuralMismatch)
	}

	description = strings.TrimSpace(text[dateTimeBlockLen+1:])
	if description == "" {
		return "", "", fmt.Errorf("%w: empty task text", ErrStructuralMismatch)
	}

	return text[:dateTimeBlockLen], description, nil
}

func (p *MessageParser) parseClock(block string) (time.Time, error) {
	clock, err := time.ParseInLocation(DateTimeLayout, block, p.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrDateFormatMismatch, block, err)
	}
	// time.Parse tolerates unpadded hours and repeated spaces; the wire format does not.
	if clock.Format(DateTimeLayout) != block {
		return time.Time{}, fmt.Errorf("%w: %q is not zero-padded", ErrDateFormatMismatch, block)
	}
	return clock, nil
}

func isDateTimeByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == ':' || isSpaceByte(c)
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
