// Package corpus implements the on-disk wire format for a benchmark corpus:
// a zstd-compressed stream of length-prefixed, self-describing binary
// records, each holding one pattern.Command sequence plus its
// predicted responses.
//
// # Wire format
//
//	record = u64_le(length) || encoded(ExecPattern)
//	stream = record*
//
// Within an encoded ExecPattern: sequences are u64_le(len) followed by
// elements; strings are UTF-8 with a u64_le byte-length prefix; a command's
// kind is a u32_le discriminant in declaration order (0=GET, 1=SET, 2=DEL).
// There is no file header or index — a reader decodes records until the
// underlying stream is exhausted.
package corpus
