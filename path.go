package mvfs

// Path is an ordered sequence of name components produced by splitting a
// raw string on either '/' or '\'. Neither separator is canonicalized to
// the other; both are treated as equivalent delimiters (source behavior,
// not a platform convention). Empty components from consecutive separators
// are preserved as-parsed. A path with zero separators yields exactly one
// component. The raw input string is retained verbatim for Raw().
type Path struct {
	raw   string
	parts []string
}

// ParsePath splits s into a Path. Always produces at least one component
// (possibly empty, if s is empty).
func ParsePath(s string) Path {
	return Path{raw: s, parts: splitPreserveEmpty(s)}
}

// splitPreserveEmpty splits on '/' or '\' without discarding empty
// components, matching the byte-for-byte component boundaries the source's
// path_t::parts_t::init produces.
func splitPreserveEmpty(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' || s[i] == '\\' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Raw returns the original, unsplit path string.
func (p Path) Raw() string {
	return p.raw
}

// Len returns the number of components.
func (p Path) Len() int {
	return len(p.parts)
}

// At returns the component at index i. It panics on an out-of-range index,
// matching the source's unchecked operator[].
func (p Path) At(i int) string {
	return p.parts[i]
}

// Components returns a copy of the ordered component slice. Mutating the
// result does not affect the Path.
func (p Path) Components() []string {
	out := make([]string, len(p.parts))
	copy(out, p.parts)
	return out
}

// Parent returns a Path over all but the last component, and the last
// component itself. If the Path has a single component, Parent's slice is
// empty.
func (p Path) Parent() (parent Path, last string) {
	if len(p.parts) == 0 {
		return Path{}, ""
	}
	last = p.parts[len(p.parts)-1]
	parent = Path{raw: p.raw, parts: p.parts[:len(p.parts)-1]}
	return parent, last
}
