package codec

import "golang.org/x/text/transform"

// scratchSize matches the source's tmp_buf_size: conversion proceeds in
// fixed 256-byte chunks regardless of how large src is.
const scratchSize = 256

// NewDecoder builds a fresh decoder instance for c, or nil if c performs no
// byte-to-stream conversion. Call once per opened stream and keep the
// result for the stream's lifetime — conversion state (shift sequences,
// split code units) must persist across repeated Decode calls on the same
// stream, the same way myfile's convstate survives across calls.
func NewDecoder(c Codec) transform.Transformer {
	if c.NewDecoder == nil {
		return nil
	}
	t := c.NewDecoder()
	t.Reset()
	return t
}

// NewEncoder builds a fresh encoder instance for c, or nil if c performs no
// stream-to-byte conversion. See NewDecoder for the persistence rationale.
func NewEncoder(c Codec) transform.Transformer {
	if c.NewEncoder == nil {
		return nil
	}
	t := c.NewEncoder()
	t.Reset()
	return t
}

// Decode runs src (file-store bytes) through t, the direction open() uses
// to fill a StreamBuffer's get area (convert_from_char). A nil t means raw
// copy — the noconv fast path.
func Decode(t transform.Transformer, src []byte) ([]byte, error) {
	return run(t, src)
}

// Encode runs src (a StreamBuffer's put area) through t, the direction
// flush_buffer uses before writing to the file-store (convert_buffer_to_char).
// A nil t means raw copy.
func Encode(t transform.Transformer, src []byte) ([]byte, error) {
	return run(t, src)
}

// run drives t to exhaustion over src using a fixed-size scratch buffer,
// accumulating output across as many Transform calls as needed. A nil err
// from Transform with source left over is treated as "call again" rather
// than "done", since a conforming Transformer only returns nil once src is
// fully consumed; any error other than transform.ErrShortDst aborts the
// whole conversion, mirroring the source's "default: failed conversion"
// branch.
func run(t transform.Transformer, src []byte) ([]byte, error) {
	if t == nil {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}

	var out []byte
	scratch := make([]byte, scratchSize)
	for {
		nDst, nSrc, err := t.Transform(scratch, src, true)
		out = append(out, scratch[:nDst]...)
		src = src[nSrc:]

		switch {
		case err == nil && len(src) == 0:
			return out, nil
		case err == nil, err == transform.ErrShortDst:
			continue
		default:
			return nil, err
		}
	}
}
