package mvfs

// File is an entry owning a contiguous byte buffer (possibly empty) and a
// name (spec §3, §4.5). Grounded on file_entries.h's file_t and the
// teacher's filesystem.Node/Inode pair, stripped of fuse.Attr/hardlinks —
// Non-goals exclude permissions, ownership and timestamps, and this tree
// has no link operations.
type File struct {
	name    string
	parent  *Folder
	content []byte
}

func newFile(name string, parent *Folder) *File {
	return &File{name: name, parent: parent}
}

// Name returns the file's name.
func (f *File) Name() string { return f.name }

// Path returns the file's full path from the filesystem root.
func (f *File) Path() string { return pathOf(f) }

// IsFolder always reports false for a File.
func (f *File) IsFolder() bool { return false }

func (f *File) parentFolder() *Folder     { return f.parent }
func (f *File) setParentFolder(p *Folder) { f.parent = p }

// ReadAll returns a copy of the file's current content.
func (f *File) ReadAll() []byte {
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out
}

// Size returns the length of the file's current content.
func (f *File) Size() int { return len(f.content) }

// Write replaces the file's content with a copy of b (spec §4.5: write is
// allocating, replaces the backing buffer).
func (f *File) Write(b []byte) {
	f.content = append([]byte(nil), b...)
}

// Append extends the file's content with a copy of b.
func (f *File) Append(b []byte) {
	f.content = append(f.content, b...)
}

// Truncate sets the file's content length to 0.
func (f *File) Truncate() {
	f.content = nil
}
