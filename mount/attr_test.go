package mount

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvfslib/mvfs"
)

func TestAttrFor_Folder(t *testing.T) {
	t.Parallel()

	fsRoot := mvfs.NewFilesystemRoot(mvfs.Hooks{})
	t.Cleanup(fsRoot.Close)
	folder, err := fsRoot.Root().CreateFolder(mvfs.ParsePath("a"), false)
	require.NoError(t, err)

	attr := attrFor(42, folder)
	assert.Equal(t, uint64(42), attr.Ino)
	assert.Equal(t, uint32(syscall.S_IFDIR)|dirPerm, attr.Mode)
	assert.Equal(t, uint32(1), attr.Nlink)
}

func TestAttrFor_FileReflectsSize(t *testing.T) {
	t.Parallel()

	fsRoot := mvfs.NewFilesystemRoot(mvfs.Hooks{})
	t.Cleanup(fsRoot.Close)
	file, err := fsRoot.Root().CreateFile(mvfs.ParsePath("a.txt"), false)
	require.NoError(t, err)
	file.Write([]byte("hello"))

	attr := attrFor(7, file)
	assert.Equal(t, uint32(syscall.S_IFREG)|filePerm, attr.Mode)
	assert.Equal(t, uint64(5), attr.Size)
}

func TestStatusFor_MapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int32
	}{
		{"exists", mvfs.NewError(mvfs.Exists, "op", "p", nil), int32(syscall.EEXIST)},
		{"not found", mvfs.NewError(mvfs.NotFound, "op", "p", nil), int32(syscall.ENOENT)},
		{"not a directory", mvfs.NewError(mvfs.NotADirectory, "op", "p", nil), int32(syscall.ENOTDIR)},
		{"invalid path", mvfs.NewError(mvfs.InvalidPath, "op", "p", nil), int32(syscall.EINVAL)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.EqualValues(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestStatusFor_UnknownErrorIsEIO(t *testing.T) {
	t.Parallel()
	assert.EqualValues(t, syscall.EIO, statusFor(assert.AnError))
}

func TestOpenModeFromFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, mvfs.In, openModeFromFlags(syscall.O_RDONLY))
	assert.Equal(t, mvfs.Out, openModeFromFlags(syscall.O_WRONLY))
	assert.Equal(t, mvfs.In|mvfs.Out, openModeFromFlags(syscall.O_RDWR))
	assert.Equal(t, mvfs.Out|mvfs.App, openModeFromFlags(syscall.O_WRONLY|syscall.O_APPEND))
	assert.Equal(t, mvfs.Out|mvfs.Trunc, openModeFromFlags(syscall.O_WRONLY|syscall.O_TRUNC))
}
