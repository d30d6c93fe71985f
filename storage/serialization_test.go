package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageEmbeddingRoundTrip(t *testing.T) {
	record := &ImageEmbeddingRecord{
		URL:    "https://forum.example.com/uploads/a.png",
		Vector: []float32{0.25, -1.5, 0, float32(math.Pi)},
	}

	decoded, err := UnmarshalImageEmbedding(MarshalImageEmbedding(record))
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestImageEmbeddingEmptyVector(t *testing.T) {
	decoded, err := UnmarshalImageEmbedding(MarshalImageEmbedding(&ImageEmbeddingRecord{URL: "u"}))
	require.NoError(t, err)
	assert.Equal(t, "u", decoded.URL)
	assert.Empty(t, decoded.Vector)
}

func TestImageEmbeddingRecordMUS(t *testing.T) {
	record := ImageEmbeddingRecord{URL: "https://forum.example.com/b.png", Vector: []float32{1, -2, 0.5}}
	buf := make([]byte, ImageEmbeddingRecordMUS.Size(record))
	n := ImageEmbeddingRecordMUS.Marshal(record, buf)
	require.Equal(t, len(buf), n)

	// length-prefixed URL, one-byte dimension, then raw float32s
	assert.Equal(t, 1+len(record.URL)+1+3*4, n)

	skipped, err := ImageEmbeddingRecordMUS.Skip(buf)
	require.NoError(t, err)
	assert.Equal(t, n, skipped)

	decoded, m, err := ImageEmbeddingRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.Equal(t, record, decoded)
}

func TestUnmarshalImageEmbeddingErrors(t *testing.T) {
	full := MarshalImageEmbedding(&ImageEmbeddingRecord{URL: "https://x/y.png", Vector: []float32{1, 2}})

	t.Run("empty input", func(t *testing.T) {
		_, err := UnmarshalImageEmbedding(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated url", func(t *testing.T) {
		_, err := UnmarshalImageEmbedding(full[:4])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("vector longer than data", func(t *testing.T) {
		_, err := UnmarshalImageEmbedding(full[:len(full)-5])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("truncated vector", func(t *testing.T) {
		_, err := UnmarshalImageEmbedding(full[:len(full)-1])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := UnmarshalImageEmbedding(append(full, 0))
		assert.ErrorIs(t, err, ErrTruncatedData)
	})
}
