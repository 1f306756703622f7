package mvfs

// NodeInfo is the read-only surface callers get back from a tree lookup or
// creation call, regardless of whether the underlying entry is a file or a
// folder. Grounded on the teacher's root-package NodeInfo interface
// (node.go), generalized away from FUSE node IDs/deletion flags (no
// links, no persistence) down to what spec §3's Entry actually carries.
type NodeInfo interface {
	// Name returns the entry's name (its final path component).
	Name() string
	// Path returns the entry's full path from the filesystem root.
	Path() string
	// IsFolder reports whether the entry is a Folder rather than a File.
	IsFolder() bool
}

// FileInfo is the subset of operations a caller may perform once a lookup
// has confirmed the entry is a File (spec §4.5).
type FileInfo interface {
	NodeInfo
	// ReadAll returns a copy of the file's current byte content.
	ReadAll() []byte
	// Size returns the length of the file's current content.
	Size() int
	// Write replaces the file's content with b.
	Write(b []byte)
	// Append extends the file's content with b.
	Append(b []byte)
	// Truncate sets the file's content length to 0.
	Truncate()
}

// FolderInfo is the subset of operations a caller may perform once a
// lookup has confirmed the entry is a Folder.
type FolderInfo interface {
	NodeInfo
	// Children returns the names of immediate children, in insertion
	// order.
	Children() []string
}
