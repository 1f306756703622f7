package mount

import (
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/mvfslib/mvfs"
	"github.com/mvfslib/mvfs/internal/util"
)

// secondsToDuration converts a config timeout expressed in seconds (as a
// float64) into the time.Duration the go-fuse API expects.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// FuseRaw implements the low-level FUSE wire protocol as a thin adapter
// over Bridge. Operations this tree has no model for — links, xattrs,
// locks, rename, and remove (spec.md's Non-goals, plus §5's "no remove
// operation is specified") — fall through to the embedded
// fuse.NewDefaultRawFileSystem()'s ENOSYS stub, exactly as the teacher's
// own FuseRaw leaves most of the protocol to that default. Grounded on
// internal/core/fuse.go's Lookup/Forget/ReadDir/Access/Init/OnUnmount/
// String, extended with the Open/Create/Read/Write/Release/Flush/Mkdir/
// OpenDir handlers spec §3.4 needs for a mount a shell can actually read
// and write through.
type FuseRaw struct {
	fuse.RawFileSystem
	b      *Bridge
	server *fuse.Server
}

// NewFuseRaw constructs a FuseRaw bridging b.
func NewFuseRaw(b *Bridge) *FuseRaw {
	return &FuseRaw{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		b:             b,
	}
}

func (r *FuseRaw) Init(s *fuse.Server) {
	r.server = s
	initLogger := util.GetLogger("mount.Init")
	initLogger.Debug().Msg("FUSE server initialized")
}

func (r *FuseRaw) String() string { return "mvfs" }

func (r *FuseRaw) OnUnmount() {
	unmountLogger := util.GetLogger("mount.OnUnmount")
	unmountLogger.Info().Msg("filesystem unmounted")
}

// Access always grants access — this tree has no permission model
// (Non-goals), so there is nothing to check.
func (r *FuseRaw) Access(cancel <-chan struct{}, input *fuse.AccessIn) fuse.Status {
	return fuse.OK
}

// Lookup retrieves a named child of header.NodeId and registers it in the
// Bridge's NodeID registry.
func (r *FuseRaw) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	logger := util.GetLogger("mount.Lookup")

	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	parent, ok := r.b.node(header.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	parentFolder, ok := mvfs.AsFolder(parent)
	if !ok {
		return fuse.ENOTDIR
	}

	entry, err := parentFolder.GetEntry(name)
	if err != nil {
		logger.Debug().Str("name", name).Err(err).Msg("lookup miss")
		return statusFor(err)
	}

	id := r.b.idFor(entry)
	out.NodeId = id
	out.Attr = attrFor(id, entry)
	out.SetEntryTimeout(secondsToDuration(r.b.cfg.EntryTimeout))
	out.SetAttrTimeout(secondsToDuration(r.b.cfg.AttrTimeout))
	return fuse.OK
}

// Forget decrements nodeid's kernel lookup refcount by nlookup.
func (r *FuseRaw) Forget(nodeid, nlookup uint64) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.forget(nodeid, nlookup)
}

// GetAttr returns the synthesized attributes of input.NodeId.
func (r *FuseRaw) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()

	n, ok := r.b.node(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	out.Attr = attrFor(input.NodeId, n)
	out.SetTimeout(secondsToDuration(r.b.cfg.AttrTimeout))
	return fuse.OK
}

// Mkdir creates a new, empty folder under input.NodeId.
func (r *FuseRaw) Mkdir(cancel <-chan struct{}, input *fuse.MkdirIn, name string, out *fuse.EntryOut) fuse.Status {
	logger := util.GetLogger("mount.Mkdir")

	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	parent, ok := r.b.node(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	parentFolder, ok := mvfs.AsFolder(parent)
	if !ok {
		return fuse.ENOTDIR
	}

	folder, err := parentFolder.CreateFolder(mvfs.ParsePath(name), false)
	if err != nil {
		logger.Debug().Str("name", name).Err(err).Msg("mkdir failed")
		return statusFor(err)
	}

	id := r.b.idFor(folder)
	out.NodeId = id
	out.Attr = attrFor(id, folder)
	out.SetEntryTimeout(secondsToDuration(r.b.cfg.EntryTimeout))
	out.SetAttrTimeout(secondsToDuration(r.b.cfg.AttrTimeout))
	return fuse.OK
}

// Create makes a new, empty file under input.NodeId and opens it for
// writing in the same call, as the FUSE CREATE request requires.
func (r *FuseRaw) Create(cancel <-chan struct{}, input *fuse.CreateIn, name string, out *fuse.CreateOut) fuse.Status {
	logger := util.GetLogger("mount.Create")

	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	parent, ok := r.b.node(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	parentFolder, ok := mvfs.AsFolder(parent)
	if !ok {
		return fuse.ENOTDIR
	}

	file, err := parentFolder.CreateFile(mvfs.ParsePath(name), false)
	if err != nil {
		logger.Debug().Str("name", name).Err(err).Msg("create failed")
		return statusFor(err)
	}

	sb := mvfs.NewStreamBuffer(r.b.cfg.BufferChunkSize)
	if err := sb.Open(parentFolder, mvfs.ParsePath(name), mvfs.Out, false, r.b.codec); err != nil {
		logger.Error().Err(err).Str("name", name).Msg("failed to attach stream buffer to new file")
		return fuse.EIO
	}

	id := r.b.idFor(file)
	out.NodeId = id
	out.Attr = attrFor(id, file)
	out.SetEntryTimeout(secondsToDuration(r.b.cfg.EntryTimeout))
	out.SetAttrTimeout(secondsToDuration(r.b.cfg.AttrTimeout))
	out.OpenOut.Fh = r.b.openHandle(sb)
	if r.b.cfg.DirectIO {
		out.OpenOut.OpenFlags |= fuse.FOPEN_DIRECT_IO
	}
	return fuse.OK
}

// Open attaches a StreamBuffer to an existing file, translating the
// kernel's open(2) flags into an OpenMode.
func (r *FuseRaw) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	n, ok := r.b.node(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	file, ok := mvfs.AsFile(n)
	if !ok {
		return fuse.EISDIR
	}

	mode := openModeFromFlags(input.Flags)
	sb := mvfs.NewStreamBuffer(r.b.cfg.BufferChunkSize)
	if err := sb.Open(r.b.fsRoot.Root(), mvfs.ParsePath(file.Path()), mode, false, r.b.codec); err != nil {
		return statusFor(err)
	}

	out.Fh = r.b.openHandle(sb)
	if r.b.cfg.DirectIO {
		out.OpenFlags |= fuse.FOPEN_DIRECT_IO
	}
	return fuse.OK
}

// Read seeks the file handle to input.Offset and serves up to len(buf)
// bytes from there, advancing its position.
func (r *FuseRaw) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	sb, ok := r.b.handle(input.Fh)
	if !ok {
		return nil, fuse.EBADF
	}
	if _, err := sb.Seek(int64(input.Offset), 0); err != nil {
		return nil, fuse.EIO
	}
	n, err := sb.Read(buf)
	if err != nil && n == 0 {
		return fuse.ReadResultData(buf[:0]), fuse.OK
	}
	return fuse.ReadResultData(buf[:n]), fuse.OK
}

// Write seeks the file handle to input.Offset and stores data there,
// advancing its position.
func (r *FuseRaw) Write(cancel <-chan struct{}, input *fuse.WriteIn, data []byte) (uint32, fuse.Status) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	sb, ok := r.b.handle(input.Fh)
	if !ok {
		return 0, fuse.EBADF
	}
	if _, err := sb.Seek(int64(input.Offset), 0); err != nil {
		return 0, fuse.EIO
	}
	n, err := sb.Write(data)
	if err != nil {
		return uint32(n), fuse.EIO
	}
	return uint32(n), fuse.OK
}

// Flush syncs the file handle's pending writes without releasing it.
func (r *FuseRaw) Flush(cancel <-chan struct{}, input *fuse.FlushIn) fuse.Status {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	sb, ok := r.b.handle(input.Fh)
	if !ok {
		return fuse.EBADF
	}
	if err := sb.Sync(); err != nil && err != mvfs.ErrEmptyFlush {
		return fuse.EIO
	}
	return fuse.OK
}

// Fsync behaves exactly like Flush for this in-memory tree — there is no
// separate kernel page cache to push through (Non-goals: no mmap, no
// persistence).
func (r *FuseRaw) Fsync(cancel <-chan struct{}, input *fuse.FsyncIn) fuse.Status {
	return r.Flush(cancel, &fuse.FlushIn{InHeader: input.InHeader, Fh: input.Fh})
}

// Release closes and forgets the file handle.
func (r *FuseRaw) Release(cancel <-chan struct{}, input *fuse.ReleaseIn) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	if err := r.b.closeHandle(input.Fh); err != nil && err != mvfs.ErrEmptyFlush {
		releaseLogger := util.GetLogger("mount.Release")
		releaseLogger.Warn().Err(err).Uint64("fh", input.Fh).Msg("error flushing on release")
	}
}

// OpenDir validates that input.NodeId names a folder; this bridge does not
// track a separate handle for directory reads since ReadDir always
// re-derives the listing from the live tree.
func (r *FuseRaw) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	r.b.mu.RLock()
	defer r.b.mu.RUnlock()

	n, ok := r.b.node(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	if _, ok := mvfs.AsFolder(n); !ok {
		return fuse.ENOTDIR
	}
	return fuse.OK
}

func (r *FuseRaw) ReleaseDir(input *fuse.ReleaseIn) {}

// ReadDir lists input.NodeId's children, synthesizing "." and ".." ahead
// of them.
func (r *FuseRaw) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	logger := util.GetLogger("mount.ReadDir")

	r.b.mu.Lock()
	defer r.b.mu.Unlock()

	n, ok := r.b.node(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	folder, ok := mvfs.AsFolder(n)
	if !ok {
		return fuse.ENOTDIR
	}

	offset := int(input.Offset)
	idx := 0
	add := func(name string, isDir bool, ino uint64) bool {
		if idx < offset {
			idx++
			return true
		}
		mode := uint32(syscall.S_IFREG)
		if isDir {
			mode = syscall.S_IFDIR
		}
		ok := out.AddDirEntry(fuse.DirEntry{Name: name, Mode: mode, Ino: ino})
		idx++
		return ok
	}

	// "." and ".." are display entries only (no traversal uses them —
	// Lookup resolves ".."/"." itself via Folder.GetEntry), so both are
	// safe to report under the current folder's own NodeID.
	if !add(".", true, input.NodeId) {
		return fuse.OK
	}
	if !add("..", true, input.NodeId) {
		return fuse.OK
	}

	for _, name := range folder.Children() {
		entry, err := folder.GetEntry(name)
		if err != nil {
			logger.Warn().Str("name", name).Err(err).Msg("child vanished mid-readdir")
			continue
		}
		id := r.b.idFor(entry)
		if !add(name, entry.IsFolder(), id) {
			return fuse.OK
		}
	}
	return fuse.OK
}
