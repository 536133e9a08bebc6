// Package stream turns a chunked chat-completions SSE body into ordered text deltas.
//
// The wire format is one event per line:
//
//	data: {"choices":[{"delta":{"content":"..."}}]}
//	data: [DONE]
//
// Chunk boundaries carry no meaning: a chunk may end mid-line or in the middle of
// a multi-byte character, and the assembler produces the same deltas either way.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

const (
	// DataPrefix marks an event-data line.
	DataPrefix = "data: "
	// DoneSentinel is the payload that ends the stream.
	DoneSentinel = "[DONE]"
	// MaxLineSize bounds the pending partial line.
	MaxLineSize = 1 << 20

	readBufferSize = 32 * 1024
)

// ErrLineTooLong is returned when a line grows past MaxLineSize without a newline.
var ErrLineTooLong = errors.New("stream: event line exceeds maximum size")

// DeltaFunc receives each non-empty delta in arrival order. A non-nil error
// stops assembly and is returned to the caller unchanged.
type DeltaFunc func(delta string) error

// StreamError is a read failure after streaming began. Delivered counts the
// deltas already handed to the DeltaFunc; they remain valid.
type StreamError struct {
	Delivered int
	Err       error
}

func (e *StreamError) Error() string {
	if e.Delivered > 0 {
		return fmt.Sprintf("stream interrupted after %d deltas: %v", e.Delivered, e.Err)
	}
	return fmt.Sprintf("stream interrupted: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Assembler is the incremental parser state: the bytes of the trailing partial
// line and whether the termination sentinel was seen. The zero value is ready.
type Assembler struct {
	pending   []byte
	done      bool
	delivered int
}

// Done reports whether the termination sentinel has been processed.
func (a *Assembler) Done() bool {
	return a.done
}

// Delivered is the number of deltas passed to a DeltaFunc so far.
func (a *Assembler) Delivered() int {
	return a.delivered
}

// Feed appends a chunk and processes every complete line it closes. Lines after
// the sentinel are ignored, as is everything fed once Done is true.
func (a *Assembler) Feed(chunk []byte, fn DeltaFunc) error {
	if a.done {
		return nil
	}
	a.pending = append(a.pending, chunk...)

	for {
		idx := bytes.IndexByte(a.pending, '\n')
		if idx < 0 {
			break
		}
		line := a.pending[:idx]
		a.pending = a.pending[idx+1:]

		if err := a.processLine(line, fn); err != nil {
			return err
		}
		if a.done {
			a.pending = nil
			return nil
		}
	}

	if len(a.pending) > MaxLineSize {
		return ErrLineTooLong
	}
	// Compact so the backing array does not keep every consumed line alive.
	if len(a.pending) > 0 && cap(a.pending) > 4*len(a.pending) {
		a.pending = append([]byte(nil), a.pending...)
	}
	return nil
}

func (a *Assembler) processLine(raw []byte, fn DeltaFunc) error {
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	if !bytes.HasPrefix(raw, []byte(DataPrefix)) {
		return nil
	}

	payload, err := decodeUTF8(raw[len(DataPrefix):])
	if err != nil {
		return nil
	}
	if string(payload) == DoneSentinel {
		a.done = true
		return nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		// Heartbeats and partial envelopes are expected; skip them.
		return nil
	}
	if len(env.Choices) == 0 || env.Choices[0].Delta.Content == nil {
		return nil
	}
	delta := *env.Choices[0].Delta.Content
	if delta == "" {
		return nil
	}

	if err := fn(delta); err != nil {
		return err
	}
	a.delivered++
	return nil
}

// decodeUTF8 replaces invalid byte sequences with U+FFFD, matching what a
// browser TextDecoder would hand to JSON.parse.
func decodeUTF8(b []byte) ([]byte, error) {
	return unicode.UTF8.NewDecoder().Bytes(b)
}

// Consume reads body until EOF, the termination sentinel, a DeltaFunc error or
// cancellation of ctx. A trailing partial line at EOF is dropped. Once ctx is
// cancelled no further delta is delivered, even from an already-read chunk.
func Consume(ctx context.Context, body io.Reader, fn DeltaFunc) error {
	var a Assembler
	guarded := func(delta string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(delta)
	}

	buf := make([]byte, readBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if err := a.Feed(buf[:n], guarded); err != nil {
				return err
			}
			if a.Done() {
				return nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &StreamError{Delivered: a.Delivered(), Err: readErr}
		}
	}
}
