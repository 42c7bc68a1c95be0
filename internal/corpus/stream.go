package corpus

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewStreamWriter wraps w in a zstd encoder at the given compression level
// (0 selects the library default), suitable for writing a sequence of
// WriteRecord calls. Callers must Close the returned writer to flush the
// final zstd frame.
func NewStreamWriter(w io.Writer, level int) (*zstd.Encoder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(encoderLevel(level)))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	return enc, nil
}

// encoderLevel maps a coarse 0-4 compression knob onto the library's
// EncoderLevel enum, defaulting to SpeedDefault for anything out of range.
func encoderLevel(level int) zstd.EncoderLevel {
	switch level {
	case 1:
		return zstd.SpeedFastest
	case 2:
		return zstd.SpeedDefault
	case 3:
		return zstd.SpeedBetterCompression
	case 4:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// NewStreamReader wraps r in a zstd decoder for reading a sequence of
// ReadRecord calls.
func NewStreamReader(r io.Reader) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return dec, nil
}
