package mvfs

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvfslib/mvfs/codec"
)

func TestStreamBuffer_OpenForWrite_CreatesFile(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	sb := NewStreamBuffer(0)

	err := sb.Open(root, ParsePath("a.txt"), Out, false, codec.Identity)
	require.NoError(t, err)
	require.True(t, sb.IsOpen())

	n, err := sb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, sb.Close())

	entry, err := root.GetEntry("a.txt")
	require.NoError(t, err)
	file, ok := AsFile(entry)
	require.True(t, ok)
	assert.Equal(t, "hello", string(file.ReadAll()))
}

func TestStreamBuffer_OpenWithoutCreateFailsOnMissingFile(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	sb := NewStreamBuffer(0)

	err := sb.Open(root, ParsePath("missing.txt"), In, false, codec.Identity)
	require.Error(t, err)
}

func TestStreamBuffer_ReadRoundTrip(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	file, err := root.CreateFile(ParsePath("a.txt"), false)
	require.NoError(t, err)
	file.Write([]byte("abcdef"))

	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), In, false, codec.Identity))

	got := make([]byte, 6)
	n, err := sb.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "abcdef", string(got))

	_, err = sb.Read(got)
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamBuffer_AppendAppendsToExistingContent(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	file, err := root.CreateFile(ParsePath("a.txt"), false)
	require.NoError(t, err)
	file.Write([]byte("abc"))

	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), App, false, codec.Identity))

	_, err = sb.Write([]byte("def"))
	require.NoError(t, err)
	require.NoError(t, sb.Close())

	assert.Equal(t, "abcdef", string(file.ReadAll()))
}

func TestStreamBuffer_TruncRewritesExistingContent(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	file, err := root.CreateFile(ParsePath("a.txt"), false)
	require.NoError(t, err)
	file.Write([]byte("old content"))

	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), Out|Trunc, false, codec.Identity))

	_, err = sb.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, sb.Close())

	assert.Equal(t, "new", string(file.ReadAll()))
}

func TestStreamBuffer_SeekThenRead(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	file, err := root.CreateFile(ParsePath("a.txt"), false)
	require.NoError(t, err)
	file.Write([]byte("0123456789"))

	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), In, false, codec.Identity))

	pos, err := sb.Seek(5, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	got := make([]byte, 3)
	n, err := sb.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "567", string(got))
}

func TestStreamBuffer_PushBackThenRead(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	file, err := root.CreateFile(ParsePath("a.txt"), false)
	require.NoError(t, err)
	file.Write([]byte("abc"))

	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), In, false, codec.Identity))

	first, err := sb.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), first)

	require.NoError(t, sb.PushBack('x'))

	redo, err := sb.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), redo, "pushed-back byte is re-read even though it differs from the underlying buffer")

	next, err := sb.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), next)
}

func TestStreamBuffer_SyncWithEmptyPutAreaFails(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), Out, false, codec.Identity))

	err := sb.Sync()
	assert.ErrorIs(t, err, ErrEmptyFlush)
}

func TestStreamBuffer_OpenGrowsBufferBeyondOneChunk(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	sb := NewStreamBuffer(4)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), Out, false, codec.Identity))

	big := make([]byte, 1000)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	_, err := sb.Write(big)
	require.NoError(t, err)
	require.NoError(t, sb.Close())

	entry, err := root.GetEntry("a.txt")
	require.NoError(t, err)
	file, ok := AsFile(entry)
	require.True(t, ok)
	assert.Equal(t, big, file.ReadAll())
}

func TestStreamBuffer_NonIdentityCodecRoundTrip(t *testing.T) {
	t.Parallel()

	root := newFolder(".", nil)
	cdc, err := codec.Lookup("utf16le")
	require.NoError(t, err)

	sb := NewStreamBuffer(0)
	require.NoError(t, sb.Open(root, ParsePath("a.txt"), Out, false, cdc))
	_, err = sb.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, sb.Close())

	entry, err := root.GetEntry("a.txt")
	require.NoError(t, err)
	file, ok := AsFile(entry)
	require.True(t, ok)
	// "hi" encoded as UTF-16LE is 4 bytes: h\x00i\x00
	assert.Equal(t, []byte{'h', 0, 'i', 0}, file.ReadAll())

	sb2 := NewStreamBuffer(0)
	require.NoError(t, sb2.Open(root, ParsePath("a.txt"), In, false, cdc))
	got := make([]byte, 2)
	n, err := sb2.Read(got)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "hi", string(got))
}
