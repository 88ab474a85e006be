package osmpbf

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/osmpbfio/pbfwriter/internal/wire"
)

// blobTask is an owned payload plus the knobs needed to frame it.
// Running it is idempotent and retains no external state, so it can
// be handed to a worker pool and executed on any goroutine.
type blobTask struct {
	payload     []byte
	blobType    string // blobTypeHeader or blobTypeData
	compression Compression
	level       int
}

// run produces the complete framed bytes for one blob: the 4-byte
// big-endian BlobHeader length, the BlobHeader, and the Blob.
func (t blobTask) run() ([]byte, error) {
	if len(t.payload) > maxUncompressedBlobSize {
		return nil, &PayloadTooLargeError{Size: len(t.payload), Limit: maxUncompressedBlobSize}
	}

	blobBytes, err := t.buildBlob()
	if err != nil {
		return nil, err
	}

	header := wire.NewEncoder()
	header.String(fieldBlobHeaderType, t.blobType)
	header.Int32(fieldBlobHeaderDatasize, int32(len(blobBytes)))
	headerBytes := header.Bytes()

	out := make([]byte, 4+len(headerBytes)+len(blobBytes))
	binary.BigEndian.PutUint32(out[:4], uint32(len(headerBytes)))
	copy(out[4:], headerBytes)
	copy(out[4+len(headerBytes):], blobBytes)
	return out, nil
}

func (t blobTask) buildBlob() ([]byte, error) {
	enc := wire.NewEncoder()
	switch t.compression {
	case CompressionNone, "":
		enc.Message(fieldBlobRaw, t.payload)
	case CompressionZlib:
		compressed, err := compressZlib(t.payload, t.level)
		if err != nil {
			return nil, &CompressionFailedError{Codec: CompressionZlib, Err: err}
		}
		enc.Int32(fieldBlobRawSize, int32(len(t.payload)))
		enc.Message(fieldBlobZlibData, compressed)
	case CompressionLZ4:
		compressed, err := compressLZ4(t.payload, t.level)
		if err != nil {
			return nil, &CompressionFailedError{Codec: CompressionLZ4, Err: err}
		}
		enc.Int32(fieldBlobRawSize, int32(len(t.payload)))
		enc.Message(fieldBlobLz4Data, compressed)
	default:
		return nil, &UnsupportedCompressionError{Codec: t.compression}
	}

	out := enc.Bytes()
	if len(out) > maxUncompressedBlobSize*2 {
		return nil, &PayloadTooLargeError{Size: len(out), Limit: maxUncompressedBlobSize * 2}
	}
	return out, nil
}

func compressZlib(payload []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lz4Levels are the library's real CompressionLevel constants, in
// increasing order. lz4/v4 bit-shifts these (Level1 = 1<<9, ...,
// Level9 = 1<<17), so a validated 0-16 knob can't be cast straight
// into the type — every value below Level1's threshold collapses to
// Fast. lz4Level maps the validated range onto this set instead.
var lz4Levels = []lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

func lz4Level(level int) lz4.CompressionLevel {
	if level <= 0 {
		return lz4.Fast
	}
	idx := (level - 1) * len(lz4Levels) / 16
	if idx >= len(lz4Levels) {
		idx = len(lz4Levels) - 1
	}
	return lz4Levels[idx]
}

func compressLZ4(payload []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lz4Level(level))); err != nil {
		return nil, err
	}
	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
