// Package codec bridges StreamBuffer's internal byte store and the bytes
// a caller pushes through a stream, mirroring the codecvt facet the source
// filebuf consults on open/flush (virt_filebuf.h's mycvt). Conversion is
// expressed with golang.org/x/text/transform.Transformer, whose
// Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error)
// contract is the idiomatic-Go shape of codecvt::in/out's ok/partial/error
// outcome space.
package codec

import "golang.org/x/text/transform"

// Codec names a pair of stateful transformers: Decode runs on open (file
// bytes -> stream bytes), Encode runs on flush (stream bytes -> file
// bytes). Either factory may be nil, meaning "no conversion" for that
// direction; a Codec with both nil is the identity codec and AlwaysNoConv
// reports true for it, the same fast path _init_mycvt takes when
// codecvt::always_noconv() holds.
//
// Transformers carry state across Transform calls (shift sequences,
// partial code units), so StreamBuffer keeps one instance per open stream
// rather than asking the factory for a fresh one on every flush: the
// factory exists so a stream and its reverse direction don't share state,
// and so opening the same named codec twice never aliases state between
// two streams.
type Codec struct {
	Name       string
	NewDecoder func() transform.Transformer
	NewEncoder func() transform.Transformer
}

// AlwaysNoConv reports whether c performs no byte transformation in either
// direction, the Go analogue of std::codecvt::always_noconv().
func (c Codec) AlwaysNoConv() bool {
	return c.NewDecoder == nil && c.NewEncoder == nil
}

// Identity is the always-no-conv codec: bytes pass through unchanged. It is
// registered under the name "identity" by init() in registry.go.
var Identity = Codec{Name: "identity"}
