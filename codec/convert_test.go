package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/transform"

	"github.com/mvfslib/mvfs/internal/mocks"
)

func TestRun_NilTransformerCopiesRaw(t *testing.T) {
	t.Parallel()

	out, err := run(nil, []byte("raw bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("raw bytes"), out)
}

func TestRun_Utf16leEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := Lookup("utf16le")
	require.NoError(t, err)

	enc := NewEncoder(c)
	encoded, err := Encode(enc, []byte("hello, world"))
	require.NoError(t, err)
	assert.Equal(t, len("hello, world")*2, len(encoded))

	dec := NewDecoder(c)
	decoded, err := Decode(dec, encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", string(decoded))
}

func TestRun_LargeInputSpansMultipleScratchChunks(t *testing.T) {
	t.Parallel()

	c, err := Lookup("utf16le")
	require.NoError(t, err)

	big := make([]byte, scratchSize*5)
	for i := range big {
		big[i] = byte('a' + i%26)
	}

	enc := NewEncoder(c)
	encoded, err := Encode(enc, big)
	require.NoError(t, err)

	dec := NewDecoder(c)
	decoded, err := Decode(dec, encoded)
	require.NoError(t, err)
	assert.Equal(t, big, decoded)
}

func TestRun_ForcedPartialContinuesUntilDone(t *testing.T) {
	t.Parallel()

	mockT := new(mocks.Transformer)
	mockT.On("Transform", mock.Anything, mock.Anything, true).Return(2, 2, transform.ErrShortDst).Once()
	mockT.On("Transform", mock.Anything, mock.Anything, true).Return(1, 1, nil).Once()

	out, err := run(mockT, []byte("abc"))
	require.NoError(t, err)
	assert.Len(t, out, 3)
	mockT.AssertExpectations(t)
}

func TestRun_ForcedErrorAbortsConversion(t *testing.T) {
	t.Parallel()

	mockT := new(mocks.Transformer)
	mockT.On("Transform", mock.Anything, mock.Anything, true).Return(0, 0, errors.New("boom"))

	_, err := run(mockT, []byte("abc"))
	assert.EqualError(t, err, "boom")
	mockT.AssertExpectations(t)
}

func TestRun_Latin1RejectsUnmappableCodepoint(t *testing.T) {
	t.Parallel()

	c, err := Lookup("latin1")
	require.NoError(t, err)

	enc := NewEncoder(c)
	_, err = Encode(enc, []byte("日本語"))
	assert.Error(t, err)
}
