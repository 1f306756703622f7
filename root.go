package mvfs

import (
	"sync"

	"github.com/google/uuid"
)

// FilesystemRoot is a process-wide instance holding the root folder (spec
// §4.4). It is non-copyable by convention (callers hold a pointer) and
// carries a uuid.UUID instance identity purely for diagnostics — useful
// when a process constructs more than one root (e.g. in tests) and wants
// log lines attributable to a specific instance, filling the role the
// teacher's per-request UUID linking played in webfs's request.go.
type FilesystemRoot struct {
	id    uuid.UUID
	root  *Folder
	hooks Hooks
}

// Hooks are optional lifecycle callbacks run once at construction
// (Init) and once before the tree is torn down (BeforeUninit), matching
// spec §4.4's init/before_uninit hooks. Either may be nil.
type Hooks struct {
	Init         func(root *Folder)
	BeforeUninit func(root *Folder)
}

// NewFilesystemRoot constructs a FilesystemRoot with a root folder named
// ".", running hooks.Init if set.
func NewFilesystemRoot(hooks Hooks) *FilesystemRoot {
	fsRoot := &FilesystemRoot{
		id:    uuid.New(),
		root:  newFolder(".", nil),
		hooks: hooks,
	}
	if hooks.Init != nil {
		hooks.Init(fsRoot.root)
	}
	return fsRoot
}

// ID returns the instance's diagnostic identity.
func (fs *FilesystemRoot) ID() uuid.UUID { return fs.id }

// Root returns the root folder.
func (fs *FilesystemRoot) Root() *Folder { return fs.root }

// Close runs hooks.BeforeUninit, if set, then releases the tree. The
// folder and all descendants become unreachable; per spec §5 (post-order,
// single-owner destruction) nothing further needs to happen in a garbage-
// collected runtime beyond dropping the reference.
func (fs *FilesystemRoot) Close() {
	if fs.hooks.BeforeUninit != nil {
		fs.hooks.BeforeUninit(fs.root)
	}
	fs.root = nil
}

// process-wide singleton support (spec §4.4), lazily constructed. Explicit
// construction via NewFilesystemRoot is preferred (per spec §9's design
// note); DefaultRoot exists only for callers that genuinely want a single
// ambient instance analogous to a process's cwd.
var (
	defaultRootOnce sync.Once
	defaultRoot     *FilesystemRoot
)

// DefaultRoot returns the process-wide FilesystemRoot, constructing it
// with no hooks on first use.
func DefaultRoot() *FilesystemRoot {
	defaultRootOnce.Do(func() {
		defaultRoot = NewFilesystemRoot(Hooks{})
	})
	return defaultRoot
}
