package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvfslib/mvfs"
)

func TestLoad_ParsesFileAndFolderEntries(t *testing.T) {
	t.Parallel()

	data := []byte(`[
		{"path": "docs", "type": "folder"},
		{"path": "docs/readme.txt", "type": "file", "content": "hello"},
		{"path": "empty.txt", "type": "file"}
	]`)

	entries, err := Load(data)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, FolderEntry, entries[0].Type)
	assert.Equal(t, FileEntry, entries[1].Type)
	require.NotNil(t, entries[1].Content)
	assert.Equal(t, "hello", *entries[1].Content)
	assert.Nil(t, entries[2].Content)
}

func TestLoad_InvalidJSONFails(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("not json"))
	assert.Error(t, err)
}

func TestApply_CreatesFoldersAndFilesWithContent(t *testing.T) {
	t.Parallel()

	fsRoot := mvfs.NewFilesystemRoot(mvfs.Hooks{})
	t.Cleanup(fsRoot.Close)

	content := "hello world"
	entries := []Entry{
		{Path: "docs", Type: FolderEntry},
		{Path: "docs/readme.txt", Type: FileEntry, Content: &content},
		{Path: "empty.txt", Type: FileEntry},
	}

	result := Apply(fsRoot.Root(), entries)
	assert.Equal(t, 1, result.FoldersCreated)
	assert.Equal(t, 2, result.FilesCreated)

	entry, err := fsRoot.Root().LookupString("docs/readme.txt")
	require.NoError(t, err)
	file, ok := mvfs.AsFile(entry)
	require.True(t, ok)
	assert.Equal(t, content, string(file.ReadAll()))

	entry, err = fsRoot.Root().LookupString("empty.txt")
	require.NoError(t, err)
	file, ok = mvfs.AsFile(entry)
	require.True(t, ok)
	assert.Equal(t, 0, file.Size())
}

func TestApply_SkipsInvalidEntriesAndContinues(t *testing.T) {
	t.Parallel()

	fsRoot := mvfs.NewFilesystemRoot(mvfs.Hooks{})
	t.Cleanup(fsRoot.Close)

	entries := []Entry{
		{Path: "a.txt", Type: FileEntry},
		{Path: "a.txt", Type: FileEntry}, // duplicate: Exists
		{Path: "b.txt", Type: "bogus"},
	}

	result := Apply(fsRoot.Root(), entries)
	assert.Equal(t, 1, result.FilesCreated)
}

func TestLoadAndApply_EndToEnd(t *testing.T) {
	t.Parallel()

	fsRoot := mvfs.NewFilesystemRoot(mvfs.Hooks{})
	t.Cleanup(fsRoot.Close)

	data := []byte(`[{"path": "a.txt", "type": "file", "content": "x"}]`)
	result, err := LoadAndApply(fsRoot.Root(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesCreated)
}
