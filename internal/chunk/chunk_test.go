package chunk

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 20000)
	chunks, err := Split(data, DefaultSize)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], DefaultSize)
	assert.Len(t, chunks[1], DefaultSize)
	assert.Len(t, chunks[2], 20000-2*DefaultSize)
	assert.Equal(t, data, Join(chunks))
}

func TestSplitExactMultiple(t *testing.T) {
	chunks, err := Split(bytes.Repeat([]byte{0x01}, 16), 8)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestSplitEmptyPayload(t *testing.T) {
	chunks, err := Split(nil, DefaultSize)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0])
}

func TestSplitRejectsBadSize(t *testing.T) {
	_, err := Split([]byte{0x01}, 0)
	assert.Error(t, err)
}

func TestIDsContiguous(t *testing.T) {
	ids, err := IDs(5, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 6, 7}, ids)
}

func TestIDsRejectsNodeZeroStart(t *testing.T) {
	_, err := IDs(0, 2)
	assert.Error(t, err)
}

func TestIDsRejectsOverflow(t *testing.T) {
	_, err := IDs(math.MaxUint64, 2)
	assert.Error(t, err)

	ids, err := IDs(math.MaxUint64, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{math.MaxUint64}, ids)
}
