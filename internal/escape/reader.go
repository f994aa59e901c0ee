package escape

import (
	"io"
)

// Reader decodes sequences from an io.Reader, blocking until each sequence
// is complete.
type Reader struct {
	r     io.Reader
	d     *Decoder
	chunk []byte
	err   error
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader, utf8 bool) *Reader {
	return &Reader{r: r, d: NewDecoder(utf8), chunk: make([]byte, 4096)}
}

// ReadSequence returns the next sequence. At the end of input it returns
// io.EOF, or io.ErrUnexpectedEOF if the input stopped inside a sequence.
// Decode errors are returned as they occur and reading may continue.
func (r *Reader) ReadSequence() (Sequence, error) {
	for {
		seq, err := r.d.Next()
		if err != ErrIncomplete {
			return seq, err
		}
		if r.err != nil {
			if r.err == io.EOF && r.d.Buffered() > 0 {
				return Sequence{}, io.ErrUnexpectedEOF
			}
			return Sequence{}, r.err
		}
		n, err := r.r.Read(r.chunk)
		r.d.Feed(r.chunk[:n])
		r.err = err
	}
}
