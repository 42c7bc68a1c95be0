package corpus

import (
	"encoding/binary"
	"fmt"

	"github.com/jpequegn/kvbench/internal/pattern"
)

// Encode serializes p into the self-describing binary format described in
// the package doc: a u64_le-prefixed sequence of commands followed by a
// u64_le-prefixed sequence of prediction strings.
func Encode(p *pattern.ExecPattern) []byte {
	size := 8 + 8 // command count + prediction count
	for _, c := range p.Commands {
		size += commandSize(c)
	}
	for _, pred := range p.Predictions {
		size += 8 + len(pred)
	}

	buf := make([]byte, size)
	off := 0

	off += putUint64(buf[off:], uint64(len(p.Commands)))
	for _, c := range p.Commands {
		off += putCommand(buf[off:], c)
	}

	off += putUint64(buf[off:], uint64(len(p.Predictions)))
	for _, pred := range p.Predictions {
		off += putString(buf[off:], pred)
	}

	return buf[:off]
}

// Decode deserializes an ExecPattern previously produced by Encode. It
// returns an error if the buffer is truncated or carries an unknown command
// discriminant — both indicate corpus corruption, which is fatal to the
// benchmark (spec §7, item 1).
func Decode(buf []byte) (*pattern.ExecPattern, error) {
	commands, rest, err := readCommands(buf)
	if err != nil {
		return nil, fmt.Errorf("decoding commands: %w", err)
	}

	predictions, rest, err := readStrings(rest)
	if err != nil {
		return nil, fmt.Errorf("decoding predictions: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decoding exec pattern: %d trailing bytes", len(rest))
	}

	p := &pattern.ExecPattern{Commands: commands, Predictions: predictions}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func commandSize(c pattern.Command) int {
	size := 4 + 8 + len(c.Key) // tag + key
	if c.Kind == pattern.Set {
		size += 8 + len(c.Value)
	}
	return size
}

func putUint64(dst []byte, v uint64) int {
	binary.LittleEndian.PutUint64(dst, v)
	return 8
}

func putUint32(dst []byte, v uint32) int {
	binary.LittleEndian.PutUint32(dst, v)
	return 4
}

func putString(dst []byte, s string) int {
	off := putUint64(dst, uint64(len(s)))
	off += copy(dst[off:], s)
	return off
}

func putCommand(dst []byte, c pattern.Command) int {
	off := putUint32(dst, uint32(c.Kind))
	off += putString(dst[off:], c.Key)
	if c.Kind == pattern.Set {
		off += putString(dst[off:], c.Value)
	}
	return off
}

func readUint64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("truncated u64: have %d bytes", len(buf))
	}
	return binary.LittleEndian.Uint64(buf), buf[8:], nil
}

func readUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("truncated u32: have %d bytes", len(buf))
	}
	return binary.LittleEndian.Uint32(buf), buf[4:], nil
}

func readString(buf []byte) (string, []byte, error) {
	n, rest, err := readUint64(buf)
	if err != nil {
		return "", nil, fmt.Errorf("reading string length: %w", err)
	}
	if uint64(len(rest)) < n {
		return "", nil, fmt.Errorf("truncated string: need %d bytes, have %d", n, len(rest))
	}
	return string(rest[:n]), rest[n:], nil
}

func readStrings(buf []byte) ([]string, []byte, error) {
	n, rest, err := readUint64(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("reading string count: %w", err)
	}
	out := make([]string, n)
	for i := range out {
		var s string
		s, rest, err = readString(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("reading string %d of %d: %w", i, n, err)
		}
		out[i] = s
	}
	return out, rest, nil
}

func readCommand(buf []byte) (pattern.Command, []byte, error) {
	tag, rest, err := readUint32(buf)
	if err != nil {
		return pattern.Command{}, nil, fmt.Errorf("reading command tag: %w", err)
	}

	kind := pattern.Kind(tag)
	var key, value string
	key, rest, err = readString(rest)
	if err != nil {
		return pattern.Command{}, nil, fmt.Errorf("reading command key: %w", err)
	}

	switch kind {
	case pattern.Get, pattern.Del:
		// no further fields
	case pattern.Set:
		value, rest, err = readString(rest)
		if err != nil {
			return pattern.Command{}, nil, fmt.Errorf("reading command value: %w", err)
		}
	default:
		return pattern.Command{}, nil, fmt.Errorf("unknown command discriminant %d", tag)
	}

	return pattern.Command{Kind: kind, Key: key, Value: value}, rest, nil
}

func readCommands(buf []byte) ([]pattern.Command, []byte, error) {
	n, rest, err := readUint64(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("reading command count: %w", err)
	}
	out := make([]pattern.Command, n)
	for i := range out {
		var c pattern.Command
		c, rest, err = readCommand(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("reading command %d of %d: %w", i, n, err)
		}
		out[i] = c
	}
	return out, rest, nil
}
