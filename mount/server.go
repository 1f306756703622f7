package mount

import (
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/mvfslib/mvfs"
	"github.com/mvfslib/mvfs/config"
)

// Server wraps the underlying fuse.Server, tying its lifecycle to a Bridge
// over a single FilesystemRoot. Grounded on internal/core/server.go's
// Mount/Serve/Unmount shape.
type Server struct {
	server *fuse.Server
	Bridge *Bridge
}

// Mount mounts fsRoot's tree at mountPoint according to cfg. Returns a
// Server the caller must Serve() and eventually Unmount().
func Mount(fsRoot *mvfs.FilesystemRoot, mountPoint string, cfg *config.Config) (*Server, error) {
	bridge := New(fsRoot, cfg)
	raw := NewFuseRaw(bridge)

	opts := &fuse.MountOptions{
		FsName:   cfg.MountOptions.FsName,
		Name:     cfg.MountOptions.Name,
		Debug:    cfg.MountOptions.Debug,
		MaxWrite: cfg.MaxWrite,
	}
	srv, err := fuse.NewServer(raw, mountPoint, opts)
	if err != nil {
		return nil, err
	}
	return &Server{server: srv, Bridge: bridge}, nil
}

// Serve starts serving FUSE requests in the background and blocks until
// the mount is established.
func (s *Server) Serve() error {
	go s.server.Serve()
	return s.server.WaitMount()
}

// Unmount cleanly unmounts the filesystem.
func (s *Server) Unmount() error {
	return s.server.Unmount()
}
