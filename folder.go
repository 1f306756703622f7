package mvfs

// Folder is an entry owning an ordered sequence of child entries in
// insertion order (spec §3, §4.3). Grounded on filesystem/fs.go's
// AddFileNode/AddDirNode walk and filesystem/node.go's child map, stripped
// of sync.RWMutex/xsync.Map/atomic (spec §5: no concurrency) and of the
// NodeID registry (that belongs to the optional mount bridge, not the
// core tree).
type Folder struct {
	name     string
	parent   *Folder
	children []node
}

func newFolder(name string, parent *Folder) *Folder {
	return &Folder{name: name, parent: parent}
}

// Name returns the folder's name.
func (f *Folder) Name() string { return f.name }

// Path returns the folder's full path from the filesystem root. The root
// folder's Path is "".
func (f *Folder) Path() string {
	if f.parent == nil {
		return ""
	}
	return pathOf(f)
}

// IsFolder always reports true for a Folder.
func (f *Folder) IsFolder() bool { return true }

func (f *Folder) parentFolder() *Folder     { return f.parent }
func (f *Folder) setParentFolder(p *Folder) { f.parent = p }

// Children returns the names of immediate children, in insertion order.
func (f *Folder) Children() []string {
	out := make([]string, len(f.children))
	for i, c := range f.children {
		out[i] = c.Name()
	}
	return out
}

// GetEntry resolves a single path component against this folder's
// children. "" and "." resolve to the folder itself; ".." resolves to the
// parent (NotFound if this folder is root). Otherwise a linear,
// case-insensitive scan over children (spec §4.3).
func (f *Folder) GetEntry(name string) (NodeInfo, error) {
	switch name {
	case "", ".":
		return f, nil
	case "..":
		if f.parent == nil {
			return nil, NewError(NotFound, "get_entry", "..", nil)
		}
		return f.parent, nil
	}
	for _, c := range f.children {
		if IsNamed(c.Name(), name) {
			return c, nil
		}
	}
	return nil, NewError(NotFound, "get_entry", name, nil)
}

// NameIsFree reports whether name is available for a new child: false for
// any all-dots string of length <= 2 (i.e. "." or ".."), otherwise true
// iff no existing child matches under IsNamed.
func (f *Folder) NameIsFree(name string) bool {
	if isDotNavigation(name) {
		return false
	}
	for _, c := range f.children {
		if IsNamed(c.Name(), name) {
			return false
		}
	}
	return true
}

// Lookup resolves path starting from this folder. For each component it
// rejects traversal through a file (NotADirectory) before resolving the
// next component via GetEntry. Returns the terminal entry.
func (f *Folder) Lookup(path Path) (NodeInfo, error) {
	var cur NodeInfo = f
	for i := 0; i < path.Len(); i++ {
		folder, ok := AsFolder(cur)
		if !ok {
			return nil, NewError(NotADirectory, "lookup", path.Raw(), nil)
		}
		next, err := folder.GetEntry(path.At(i))
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// LookupString is a convenience wrapper parsing s before calling Lookup.
func (f *Folder) LookupString(s string) (NodeInfo, error) {
	return f.Lookup(ParsePath(s))
}

// CreateFile creates a new, empty file at path. If createParents is true,
// any missing ancestor folders are synthesized along the way (equivalent
// to "mkdir -p" for the parent chain); a NotFound at any ancestor step is
// otherwise propagated. Creation is not transactional: if createParents
// synthesizes folders and the terminal name then fails validation, the
// synthesized folders remain (spec §4.3, §9 — source behavior, not
// "fixed").
func (f *Folder) CreateFile(path Path, createParents bool) (*File, error) {
	parent, name, err := f.resolveParent(path, createParents, "create_file")
	if err != nil {
		return nil, err
	}
	if err := parent.validateNewName(name, "create_file", path.Raw()); err != nil {
		return nil, err
	}
	file := newFile(name, parent)
	parent.children = append(parent.children, file)
	return file, nil
}

// CreateFolder creates a new, empty folder at path, with the same
// parent-synthesis and non-transactional semantics as CreateFile.
func (f *Folder) CreateFolder(path Path, createParents bool) (*Folder, error) {
	parent, name, err := f.resolveParent(path, createParents, "create_folder")
	if err != nil {
		return nil, err
	}
	if err := parent.validateNewName(name, "create_folder", path.Raw()); err != nil {
		return nil, err
	}
	folder := newFolder(name, parent)
	parent.children = append(parent.children, folder)
	return folder, nil
}

// resolveParent walks path's parent components from f, synthesizing
// missing folders in place when createParents is set, and returns the
// terminal parent folder plus the final path component (the name to
// create under it).
func (f *Folder) resolveParent(path Path, createParents bool, op string) (*Folder, string, error) {
	parentPath, name := path.Parent()
	cur := f
	for i := 0; i < parentPath.Len(); i++ {
		comp := parentPath.At(i)
		entry, err := cur.GetEntry(comp)
		if err != nil {
			if !createParents || !isErrKind(err, NotFound) {
				return nil, "", err
			}
			synthesized := newFolder(comp, cur)
			cur.children = append(cur.children, synthesized)
			cur = synthesized
			continue
		}
		folder, ok := AsFolder(entry)
		if !ok {
			return nil, "", NewError(NotADirectory, op, path.Raw(), nil)
		}
		cur = folder
	}
	return cur, name, nil
}

// validateNewName checks name can become a new child of f: INVALID_PATH
// if it fails the validator, EXISTS if it collides with an existing
// sibling under the case-insensitive matcher.
func (f *Folder) validateNewName(name, op, fullPath string) error {
	if !f.NameIsFree(name) {
		return NewError(Exists, op, fullPath, nil)
	}
	if !IsValidName(name) {
		return NewError(InvalidPath, op, fullPath, nil)
	}
	return nil
}

func isErrKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
