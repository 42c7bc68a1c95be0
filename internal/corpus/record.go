package corpus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/jpequegn/kvbench/internal/pattern"
)

// ErrTruncatedRecord signals a record whose length prefix claims more bytes
// than the stream actually holds: a corrupt corpus, not a clean end of
// stream. Unlike io.EOF/io.ErrUnexpectedEOF hit while reading the length
// prefix itself (which the decoder treats as an ordinary rewind point), this
// is fatal — it can only happen mid-record, after a length has already been
// committed to.
var ErrTruncatedRecord = errors.New("corpus: truncated record payload")

// WriteRecord writes one length-prefixed, encoded ExecPattern record to w.
func WriteRecord(w io.Writer, p *pattern.ExecPattern) error {
	encoded := Encode(p)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(encoded)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("writing record length: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("writing record payload: %w", err)
	}
	return nil
}

// ReadRecord reads one length-prefixed record from r and decodes it.
//
// *buf is grown (never shrunk) to fit the record's length, so repeated
// calls across a long-running decode loop reuse the same backing array
// instead of allocating per record.
//
// A length-prefix read that hits EOF exactly at a record boundary returns
// io.EOF unchanged, and a partial length prefix returns io.ErrUnexpectedEOF
// unchanged — both signal a clean (or ambiguous-but-harmless) end of stream
// to the caller, which rewinds. A failure reading the payload itself always
// returns ErrTruncatedRecord, since a length was already committed to: that
// can only mean a corrupt record, and the caller must treat it as fatal.
func ReadRecord(r io.Reader, buf *[]byte) (*pattern.ExecPattern, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	length := binary.LittleEndian.Uint64(lenBuf[:])

	if cap(*buf) < int(length) {
		*buf = make([]byte, length)
	} else {
		*buf = (*buf)[:length]
	}

	if _, err := io.ReadFull(r, *buf); err != nil {
		// We already consumed the length prefix, so any failure here —
		// clean EOF or not — means the stream ended mid-record. That is
		// corruption, not a normal end of corpus, so it is never a rewind
		// trigger: wrap it as ErrTruncatedRecord and let the caller treat
		// it as fatal.
		return nil, fmt.Errorf("%w: %v", ErrTruncatedRecord, err)
	}

	p, err := Decode(*buf)
	if err != nil {
		return nil, fmt.Errorf("corrupt corpus record: %w", err)
	}
	return p, nil
}
