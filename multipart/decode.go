package multipart

import (
	"errors"
	"fmt"
	"io"
)

// ReadAll drives the decode to completion and aggregates every part into
// one Form. Content before the first boundary is discarded. A decoder
// that has been driven before, in either mode, returns ErrAlreadyConsumed.
func (d *Decoder) ReadAll() (*Form, error) {
	if d.mode != modeIdle {
		return nil, ErrAlreadyConsumed
	}
	d.mode = modeEager
	if d.lines.bufferSize == 0 {
		d.lines.bufferSize = DefaultReadAllBufferSize
	}

	form := &Form{Fields: make(map[string]string)}
	for {
		part, err := d.next()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return nil, err
		}
		if part.IsFile() {
			form.Files = append(form.Files, *part.File)
		} else {
			form.Fields[part.Name] = part.Value
		}
	}
}

// Next returns the next fully parsed part, or io.EOF after the final
// boundary. The sequence is forward only and not restartable; a consumer
// that stops pulling simply leaves the rest of the body unread. Calling
// Next on a decoder drained by ReadAll returns ErrAlreadyConsumed.
func (d *Decoder) Next() (*Part, error) {
	if d.mode == modeEager {
		return nil, ErrAlreadyConsumed
	}
	d.mode = modeStream
	return d.next()
}

func (d *Decoder) next() (*Part, error) {
	if d.err != nil {
		return nil, d.err
	}
	part, err := d.advance()
	if err != nil {
		d.err = err
	}
	return part, err
}

// advance runs the per-part state machine:
// AwaitBoundary -> ReadHeaders -> Accumulate -> Emit -> (AwaitBoundary | Done).
func (d *Decoder) advance() (*Part, error) {
	if !d.started {
		if err := d.seekFirstBoundary(); err != nil {
			return nil, err
		}
		d.started = true
	}

	for {
		if d.done {
			return nil, io.EOF
		}

		headers, err := d.readPartHeaders()
		if err != nil {
			return nil, err
		}
		value, ok := headers["content-disposition"]
		if !ok {
			return nil, fmt.Errorf("%w: part without a content-disposition header", ErrMalformedBody)
		}
		disp, err := parseDisposition(value)
		if err != nil {
			return nil, err
		}

		part, kind, err := d.readPartBody(headers, disp)
		if err != nil {
			return nil, err
		}
		if kind == boundaryFinal {
			d.done = true
		}
		if part == nil {
			// Dropped over a spill permission failure; move on.
			continue
		}
		return part, nil
	}
}

// seekFirstBoundary skips the preamble. Everything before the first
// boundary line is discarded, as RFC 2046 allows.
func (d *Decoder) seekFirstBoundary() error {
	for {
		line, err := d.lines.next()
		switch d.boundary.classify(line) {
		case boundaryPart:
			return nil
		case boundaryFinal:
			d.done = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: no boundary found", ErrUnexpectedEOF)
		}
	}
}
