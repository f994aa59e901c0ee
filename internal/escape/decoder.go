package escape

// DefaultMaxSequence bounds how many bytes an unterminated sequence may
// buffer before it is abandoned.
const DefaultMaxSequence = 64 << 10

// Decoder decodes a stream fed in arbitrary chunks. Bytes of a partial
// sequence stay buffered until the rest arrives. A Decoder is not safe for
// concurrent use; one goroutine feeds it and drains it.
type Decoder struct {
	utf8 bool
	max  int

	buf []byte
	off int

	// skipping is set after a decode error until a resync point is found.
	skipping bool
}

// NewDecoder returns a Decoder. With utf8 set plain characters are decoded
// as UTF-8.
func NewDecoder(utf8 bool) *Decoder {
	return &Decoder{utf8: utf8, max: DefaultMaxSequence}
}

// SetMaxSequence changes the unterminated sequence limit. Zero disables it.
func (d *Decoder) SetMaxSequence(n int) {
	d.max = n
}

// SetUTF8 switches character decoding between UTF-8 and single bytes.
func (d *Decoder) SetUTF8(on bool) {
	d.utf8 = on
}

// Feed appends input.
func (d *Decoder) Feed(p []byte) {
	if d.off > 0 {
		n := copy(d.buf, d.buf[d.off:])
		d.buf = d.buf[:n]
		d.off = 0
	}
	d.buf = append(d.buf, p...)
}

// Buffered returns the number of bytes not yet decoded.
func (d *Decoder) Buffered() int {
	return len(d.buf) - d.off
}

// Reset drops buffered input.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.off = 0
	d.skipping = false
}

// Next returns the next sequence. It returns ErrIncomplete when the buffered
// input is empty or ends inside a sequence, and a *DecodeError when a
// sequence is malformed. After a DecodeError the Decoder has already skipped
// ahead to the next ESC or control byte, so the caller simply keeps calling
// Next.
func (d *Decoder) Next() (Sequence, error) {
	if d.skipping {
		d.resync()
	}
	pending := d.buf[d.off:]
	if len(pending) == 0 {
		return Sequence{}, ErrIncomplete
	}

	seq, n, err := Decode(pending, d.utf8)
	switch e := err.(type) {
	case nil:
		d.off += n
		return seq, nil
	case *DecodeError:
		d.off += e.Offset + 1
		d.skipping = true
		d.resync()
		return Sequence{}, err
	}

	if d.max > 0 && len(pending) > d.max {
		d.off++
		d.skipping = true
		d.resync()
		return Sequence{}, &DecodeError{Offset: len(pending), Reason: "unterminated sequence too long"}
	}
	return Sequence{}, err
}

func (d *Decoder) resync() {
	pending := d.buf[d.off:]
	i := Resync(pending)
	d.off += i
	if i < len(pending) {
		d.skipping = false
	}
}
