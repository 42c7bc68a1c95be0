// Package decoder turns a compressed corpus file into an endless stream of
// patterns: it reads records until the file is exhausted, then rewinds to
// the beginning and keeps going, so a benchmark run can outlast the finite
// corpus it was generated from.
package decoder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jpequegn/kvbench/internal/corpus"
	"github.com/jpequegn/kvbench/internal/pattern"
)

// Decoder reads ExecPatterns from a zstd-compressed corpus file, rewinding
// to the start of the file whenever it runs out of records. It is not safe
// for concurrent use — the dispatcher goroutine is its only caller.
type Decoder struct {
	file *os.File
	zr   zstdDecoder
	buf  []byte
	laps int
}

// zstdDecoder is the subset of *zstd.Decoder the decoder package depends on,
// so tests can substitute a fake without linking the real compressor.
type zstdDecoder interface {
	io.Reader
	Reset(r io.Reader) error
}

// Open opens path and prepares it for repeated reads.
func Open(path string) (*Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}

	zr, err := corpus.NewStreamReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening corpus stream: %w", err)
	}

	return &Decoder{file: f, zr: zr}, nil
}

// Next returns the next pattern in the corpus, transparently rewinding to
// the start of the file when the corpus is exhausted. It only returns an
// error for corruption or I/O failure — a clean end of the file is never
// visible to the caller.
//
// Only io.EOF/io.ErrUnexpectedEOF hit while reading a record's length prefix
// count as "exhausted": that is the sole rewind trigger (see SPEC_FULL.md's
// Open Question decision). A corpus.ErrTruncatedRecord — a length prefix
// that was read in full but whose payload the stream can't supply — is a
// corrupt corpus and is fatal, never a rewind.
func (d *Decoder) Next() (*pattern.ExecPattern, error) {
	for {
		p, err := corpus.ReadRecord(d.zr, &d.buf)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, corpus.ErrTruncatedRecord) {
			return nil, fmt.Errorf("reading corpus record: %w", err)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if err := d.rewind(); err != nil {
				return nil, err
			}
			continue
		}
		return nil, fmt.Errorf("reading corpus record: %w", err)
	}
}

func (d *Decoder) rewind() error {
	if _, err := d.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding corpus file: %w", err)
	}
	if err := d.zr.Reset(d.file); err != nil {
		return fmt.Errorf("resetting zstd decoder: %w", err)
	}
	d.laps++
	slog.Debug("decoder rewound to start of corpus", "lap", d.laps)
	return nil
}

// Close releases the underlying file handle.
func (d *Decoder) Close() error {
	return d.file.Close()
}
