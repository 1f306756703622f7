package codec

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Built-in codecs registered at package init, exercising the bridge beyond
// the raw-copy identity case: two real multi-byte-unit encodings
// (utf16le/utf16be, where a code point can straddle a Transform call) and
// one single-byte encoding with a lossy, error-producing mapping for
// non-Latin-1 code points (latin1).
func init() {
	Register(Codec{
		Name: "utf16le",
		NewDecoder: func() transform.Transformer {
			return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		},
		NewEncoder: func() transform.Transformer {
			return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
		},
	})

	Register(Codec{
		Name: "utf16be",
		NewDecoder: func() transform.Transformer {
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		},
		NewEncoder: func() transform.Transformer {
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
		},
	})

	Register(Codec{
		Name: "latin1",
		NewDecoder: func() transform.Transformer {
			return charmap.ISO8859_1.NewDecoder()
		},
		NewEncoder: func() transform.Transformer {
			return charmap.ISO8859_1.NewEncoder()
		},
	})
}
