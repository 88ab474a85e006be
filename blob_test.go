package osmpbf

import (
	"encoding/binary"
	"testing"

	"github.com/pierrec/lz4/v4"

	"github.com/osmpbfio/pbfwriter/internal/wiretest"
	"github.com/stretchr/testify/require"
)

func TestBlobTaskFrameLengthPrefix(t *testing.T) {
	task := blobTask{payload: []byte("hello world"), blobType: blobTypeData, compression: CompressionNone}
	out, err := task.run()
	require.NoError(t, err)

	headerLen := binary.BigEndian.Uint32(out[:4])
	require.Equal(t, uint64(headerLen), uint64(len(out[4:4+headerLen])), "bytes 4..4+headerLen must be exactly the BlobHeader")
}

func TestBlobTaskDatasizeMatchesBlobLength(t *testing.T) {
	task := blobTask{payload: []byte("hello world"), blobType: blobTypeData, compression: CompressionNone}
	out, err := task.run()
	require.NoError(t, err)

	headerLen := binary.BigEndian.Uint32(out[:4])
	headerFields, err := wiretest.ParseMessage(out[4 : 4+headerLen])
	require.NoError(t, err)

	datasizeField, ok := wiretest.Find(headerFields, fieldBlobHeaderDatasize)
	require.True(t, ok)

	blobBytes := out[4+headerLen:]
	require.EqualValues(t, len(blobBytes), datasizeField.Varint)
}

func TestBlobTaskUncompressedRawField(t *testing.T) {
	payload := []byte("raw payload bytes")
	task := blobTask{payload: payload, blobType: blobTypeData, compression: CompressionNone}
	out, err := task.run()
	require.NoError(t, err)

	headerLen := binary.BigEndian.Uint32(out[:4])
	blobFields, err := wiretest.ParseMessage(out[4+headerLen:])
	require.NoError(t, err)

	raw, ok := wiretest.Find(blobFields, fieldBlobRaw)
	require.True(t, ok)
	require.Equal(t, payload, raw.Bytes)
}

func TestBlobTaskZlibRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated for compressibility, repeated for compressibility")
	task := blobTask{payload: payload, blobType: blobTypeData, compression: CompressionZlib, level: -1}
	out, err := task.run()
	require.NoError(t, err)

	headerLen := binary.BigEndian.Uint32(out[:4])
	blobFields, err := wiretest.ParseMessage(out[4+headerLen:])
	require.NoError(t, err)

	rawSize, ok := wiretest.Find(blobFields, fieldBlobRawSize)
	require.True(t, ok)
	require.EqualValues(t, len(payload), rawSize.Varint)

	_, ok = wiretest.Find(blobFields, fieldBlobZlibData)
	require.True(t, ok)
}

func TestBlobTaskHeaderType(t *testing.T) {
	task := blobTask{payload: []byte("x"), blobType: blobTypeHeader, compression: CompressionNone}
	out, err := task.run()
	require.NoError(t, err)

	headerLen := binary.BigEndian.Uint32(out[:4])
	headerFields, err := wiretest.ParseMessage(out[4 : 4+headerLen])
	require.NoError(t, err)

	typeField, ok := wiretest.Find(headerFields, fieldBlobHeaderType)
	require.True(t, ok)
	require.Equal(t, blobTypeHeader, string(typeField.Bytes))
}

func TestLZ4LevelMapsOntoLibraryConstants(t *testing.T) {
	require.Equal(t, lz4.Fast, lz4Level(0))
	require.Equal(t, lz4.Level1, lz4Level(1))
	require.Equal(t, lz4.Level9, lz4Level(16))

	require.Greater(t, int(lz4Level(1)), int(lz4.Fast), "a requested level above 0 must clear Fast's threshold")
	require.Greater(t, int(lz4Level(16)), int(lz4Level(1)), "level 16 must compress harder than level 1")
}

func TestBlobTaskRejectsUnknownCompression(t *testing.T) {
	task := blobTask{payload: []byte("x"), blobType: blobTypeData, compression: Compression("brotli")}
	_, err := task.run()
	require.Error(t, err)
	var unsupported *UnsupportedCompressionError
	require.ErrorAs(t, err, &unsupported)
}
