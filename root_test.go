package mvfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilesystemRoot_RunsInitHook(t *testing.T) {
	t.Parallel()

	var initedRoot *Folder
	fsRoot := NewFilesystemRoot(Hooks{
		Init: func(root *Folder) { initedRoot = root },
	})

	require.NotNil(t, initedRoot)
	assert.Same(t, fsRoot.Root(), initedRoot)
}

func TestFilesystemRoot_Close_RunsBeforeUninitThenClears(t *testing.T) {
	t.Parallel()

	var uninited bool
	fsRoot := NewFilesystemRoot(Hooks{
		BeforeUninit: func(root *Folder) { uninited = true },
	})

	fsRoot.Close()

	assert.True(t, uninited)
	assert.Nil(t, fsRoot.Root())
}

func TestDefaultRoot_IsASingleton(t *testing.T) {
	a := DefaultRoot()
	b := DefaultRoot()
	assert.Same(t, a, b)
}
