package decode

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	maxLineSize = 1024 * 1024
	// rawPreview is how much of an over-long line is kept in Message.Raw.
	rawPreview = 512
)

// Parser turns a log stream into Messages. It is modelled as a producer:
// Parse runs until EOF or cancellation, Messages is closed when it returns,
// and Done carries the terminal error.
type Parser struct {
	reader   io.Reader
	messages chan Message
	done     chan error
}

func NewParser(r io.Reader, bufSize int) *Parser {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &Parser{
		reader:   r,
		messages: make(chan Message, bufSize),
		done:     make(chan error, 1),
	}
}

func (p *Parser) Parse(ctx context.Context) {
	defer close(p.messages)

	r := bufio.NewReaderSize(p.reader, 64*1024)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(r)
		if err != nil && len(raw) == 0 && !tooLong {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			p.done <- err
			return
		}
		lineNo++

		select {
		case <-ctx.Done():
			p.done <- ctx.Err()
			return
		default:
		}

		var msg Message
		if tooLong {
			preview := strings.ToValidUTF8(string(raw[:min(len(raw), rawPreview)]), "")
			msg = invalid(Message{Line: lineNo, Raw: preview + "..."},
				fmt.Errorf("%w: over %d bytes", ErrLineTooLong, maxLineSize))
		} else {
			line := string(raw)
			if strings.TrimSpace(line) == "" {
				continue
			}
			msg = ParseLine(lineNo, line)
		}

		if msg.Code == CodeVersion {
			if err := CheckVersion(msg.Text); err != nil {
				p.done <- err
				return
			}
		}
		if !p.send(ctx, msg) {
			p.done <- ctx.Err()
			return
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLineSize is cut to that length and the rest of it is read and dropped,
// so the following line is unaffected.
func readLine(r *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	size := 0
	for {
		chunk, err := r.ReadSlice('\n')
		size += len(chunk)
		if room := maxLineSize - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == nil {
			size--
			if n := len(chunk); n > 1 && chunk[n-2] == '\r' {
				size--
			}
		}
		line = bytes.TrimRight(line, "\r\n")
		return line, size > maxLineSize, err
	}
}

func (p *Parser) send(ctx context.Context, msg Message) bool {
	select {
	case <-ctx.Done():
		return false
	case p.messages <- msg:
		return true
	}
}

func (p *Parser) Messages() <-chan Message {
	return p.messages
}

func (p *Parser) Done() <-chan error {
	return p.done
}
