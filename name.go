package mvfs

import (
	"unicode"
	"unicode/utf8"
)

// forbiddenNameChars are the characters no entry name may contain, on top
// of the control range 0x00-0x1F. Mirrors base_entry::check_name.
const forbiddenNameChars = `<>:"/\|?*`

// IsValidName reports whether s is usable as a single path component name:
// non-empty, not "." or ".." or any all-dots string, free of control
// characters and the forbidden punctuation set, and decodable as valid
// UTF-8 (the Go analogue of the ambient multibyte encoding the source
// validates against via mbrtowc).
func IsValidName(s string) bool {
	if s == "" || isAllDots(s) {
		return false
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return false
		}
		if r <= 0x1f {
			return false
		}
		for _, f := range forbiddenNameChars {
			if r == f {
				return false
			}
		}
		i += size
	}
	return true
}

// isAllDots reports whether s consists solely of '.' characters (covers
// "." and ".." and any longer run of dots, matching name_is_free's
// length<=2-all-dots special case's complement used by the validator).
func isAllDots(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			return false
		}
	}
	return true
}

// isDotNavigation reports whether s is "." or "..", the two dot-navigation
// components that lookup interprets specially. Unlike isAllDots, a longer
// run of dots (e.g. "...") is not dot-navigation even though it is also
// rejected by the validator.
func isDotNavigation(s string) bool {
	return s == "." || s == ".."
}

// IsNamed reports whether name matches query under case-insensitive,
// codepoint-wise folding, walking both strings as streams of decoded
// runes. Matches base_entry::is_named: an incomplete multibyte tail on one
// side falls back to an exact byte-range comparison of the remainder, but
// only when that side's decode failure is specifically an incomplete tail,
// not a hard decode error. A decode error or natural end-of-string on
// either side otherwise requires both sides to end simultaneously to
// match.
func IsNamed(name, query string) bool {
	li, ri := 0, 0
	for {
		lch, lnext, lincomplete, lok := nextNameRune(name, li)
		rch, rnext, _, rok := nextNameRune(query, ri)

		if !lok || !rok {
			if lincomplete {
				// Incomplete tail on the left: compare remaining bytes
				// verbatim on both sides.
				if len(name)-li != len(query)-ri {
					return false
				}
				return name[li:] == query[ri:]
			}
			// Hard decode error or exhaustion: match only if both sides
			// are simultaneously exhausted.
			return li == len(name) && ri == len(query)
		}

		if unicode.ToLower(lch) != unicode.ToLower(rch) {
			return false
		}
		li, ri = lnext, rnext
	}
}

// nextNameRune decodes the next rune from s starting at i. ok is false on
// decode failure or exhaustion; incomplete distinguishes "ran out of bytes
// mid-sequence" (the L'?' case in the source) from a hard encoding error or
// clean end-of-string.
func nextNameRune(s string, i int) (ch rune, next int, incomplete bool, ok bool) {
	if i >= len(s) {
		return 0, i, false, false
	}
	r, size := utf8.DecodeRuneInString(s[i:])
	if r == utf8.RuneError {
		if size == 0 {
			return 0, i, false, false
		}
		if !utf8.FullRuneInString(s[i:]) {
			// The remaining bytes are the start of a valid sequence cut
			// off by the end of the string: the incomplete-tail case the
			// source reports as -2.
			return 0, i, true, false
		}
		return 0, i, false, false
	}
	if r == 0 {
		// Null codepoint anywhere terminates comparison as a mismatch.
		return 0, i, false, false
	}
	return r, i + size, false, true
}
