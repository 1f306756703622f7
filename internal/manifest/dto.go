// Package manifest loads a batch of file/folder creation requests from a
// JSON document and applies them against an mvfs tree — the minus-HTTP-
// sources descendant of the teacher's requests package. Grounded on
// requests/dto.go's NodeRequestDTO/FileRequestDTO/DirRequestDTO, stripped
// of everything that only exists to carry remote FileSource adapters
// (UUID linking, atime/mtime/ctime, perms/owner/blksize — all FUSE-attr
// metadata this tree's Non-goals exclude) down to what an in-memory byte
// store actually needs: a path, a kind, and for files, the bytes
// themselves.
package manifest

// EntryType discriminates a manifest Entry the same way the teacher's
// webfs.NodeCreateRequestType discriminates a NodeRequestDTO, but as a
// plain string enum rather than an indirection through a shared
// NodeRequest embed — this package has no adapter-provider fan-out to
// justify that embed's weight.
type EntryType string

const (
	// FileEntry creates a file and, if Content is non-nil, writes it.
	FileEntry EntryType = "file"
	// FolderEntry creates an empty folder.
	FolderEntry EntryType = "folder"
)

// Entry is the JSON representation of a single file or folder creation
// request.
type Entry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	// Content holds a file entry's initial bytes. Nil leaves a created
	// file empty; ignored for folder entries.
	Content *string `json:"content,omitempty"`
}
