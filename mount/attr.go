package mount

import (
	"os"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/mvfslib/mvfs"
)

// Fixed mode bits for the two entry kinds this tree has. spec.md's
// Non-goals exclude modeling permissions or ownership as stored state, so
// every node of a given kind reports the same constant permission bits —
// these are not persisted metadata, just values the FUSE wire protocol's
// Attr struct requires on every response.
const (
	dirPerm  = 0o755
	filePerm = 0o644

	// blockSize is the Attr.Blksize this bridge advertises, matching the
	// teacher's newDefaultAttr.
	blockSize = 4096
)

// attrFor synthesizes a fuse.Attr for n under id. Ino is the bridge's own
// NodeID, Size/Blocks reflect a file's actual content length (spec §4.5
// data, not metadata, so it is not subject to the Non-goals), and every
// other field — owner, Nlink, block size — is a fixed constant stamped
// with the mounting process's own uid/gid.
func attrFor(id uint64, n mvfs.NodeInfo) fuse.Attr {
	attr := fuse.Attr{
		Ino:     id,
		Nlink:   1,
		Blksize: blockSize,
		Owner: fuse.Owner{
			Uid: uint32(os.Getuid()),
			Gid: uint32(os.Getgid()),
		},
	}

	if _, ok := mvfs.AsFolder(n); ok {
		attr.Mode = uint32(syscall.S_IFDIR) | dirPerm
		return attr
	}

	file, _ := mvfs.AsFile(n)
	attr.Mode = uint32(syscall.S_IFREG) | filePerm
	attr.Size = uint64(file.Size())
	attr.Blocks = (attr.Size + 511) / 512
	return attr
}

// statusFor maps an *mvfs.Error's Kind onto the nearest FUSE errno status.
// Errors without a Kind (a codec failure, a nil file) surface as EIO.
func statusFor(err error) fuse.Status {
	kind, ok := mvfs.KindOf(err)
	if !ok {
		return fuse.EIO
	}
	switch kind {
	case mvfs.Exists:
		return fuse.Status(syscall.EEXIST)
	case mvfs.NotFound:
		return fuse.ENOENT
	case mvfs.NotADirectory:
		return fuse.ENOTDIR
	case mvfs.InvalidPath:
		return fuse.Status(syscall.EINVAL)
	case mvfs.Permission:
		return fuse.EPERM
	default:
		return fuse.EIO
	}
}

// openModeFromFlags translates a FUSE/POSIX open(2) flag bitset into the
// OpenMode bitset StreamBuffer.Open expects.
func openModeFromFlags(flags uint32) mvfs.OpenMode {
	var mode mvfs.OpenMode
	switch flags & syscall.O_ACCMODE {
	case syscall.O_WRONLY:
		mode = mvfs.Out
	case syscall.O_RDWR:
		mode = mvfs.In | mvfs.Out
	default:
		mode = mvfs.In
	}
	if flags&syscall.O_APPEND != 0 {
		mode |= mvfs.App
	}
	if flags&syscall.O_TRUNC != 0 {
		mode |= mvfs.Trunc
	}
	return mode
}
