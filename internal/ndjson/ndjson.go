// Package ndjson provides newline-delimited JSON framing over byte streams.
//
// The Reader splits an io.Reader into lines with an optional hard cap on
// line length. An oversized line is fully consumed and reported with its
// true byte count, so the stream stays aligned and subsequent lines remain
// readable. That matters when the other end of the pipe is a subprocess we
// do not control.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// LineTooLongError reports a line that exceeded the reader's cap. Size is
// the full byte length of the discarded line, not just the portion read
// before the cap was hit.
type LineTooLongError struct {
	Size  int
	Limit int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("ndjson: line of %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

// Reader reads newline-delimited lines from an underlying stream.
type Reader struct {
	br  *bufio.Reader
	buf []byte
	max int
}

// NewReader creates a Reader with no line length cap.
func NewReader(r io.Reader) *Reader {
	return NewReaderLimit(r, 0)
}

// NewReaderLimit creates a Reader that rejects lines longer than
// maxLineBytes. A non-positive limit disables the cap.
func NewReaderLimit(r io.Reader, maxLineBytes int) *Reader {
	return &Reader{
		br:  bufio.NewReader(r),
		max: maxLineBytes,
	}
}

// ReadLine returns the next line with its terminator stripped. Both \n and
// \r\n terminators are handled. A final unterminated line is returned
// before io.EOF; io.EOF itself means the stream is cleanly exhausted.
//
// If the line exceeds the cap it is consumed in full and a LineTooLongError
// carrying the true size is returned; the next call reads the following
// line. The returned slice is only valid until the next ReadLine call.
func (r *Reader) ReadLine() ([]byte, error) {
	r.buf = r.buf[:0]
	total := 0
	dropping := false

	for {
		chunk, err := r.br.ReadSlice('\n')
		if len(chunk) > 0 {
			if err == nil {
				chunk = chunk[:len(chunk)-1]
			}
			total += len(chunk)
			if !dropping && r.max > 0 && total > r.max {
				dropping = true
				r.buf = r.buf[:0]
			}
			if !dropping {
				r.buf = append(r.buf, chunk...)
			}
		}

		switch err {
		case bufio.ErrBufferFull:
			continue
		case nil:
			if dropping {
				return nil, &LineTooLongError{Size: total, Limit: r.max}
			}
			return trimCR(r.buf), nil
		case io.EOF:
			if total == 0 {
				return nil, io.EOF
			}
			if dropping {
				return nil, &LineTooLongError{Size: total, Limit: r.max}
			}
			return trimCR(r.buf), nil
		default:
			return nil, err
		}
	}
}

func trimCR(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte{'\r'})
}

// Writer writes newline-delimited lines to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRaw writes a pre-encoded line followed by a newline.
func (w *Writer) WriteRaw(line []byte) error {
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{'\n'})
	return err
}

// Encode marshals v as JSON and writes it as one line.
func (w *Writer) Encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteRaw(data)
}
