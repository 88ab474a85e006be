package osmpbf

import "fmt"

// InvalidOptionError reports a configuration value rejected at
// construction time: an unknown value, a deprecated key, or a
// compression level that doesn't fit its codec.
type InvalidOptionError struct {
	Name   string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("osmpbf: invalid option %q: %s", e.Name, e.Reason)
}

// UnsupportedCompressionError reports a compression codec that was
// selected but is not available in this build.
type UnsupportedCompressionError struct {
	Codec Compression
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("osmpbf: unsupported compression codec %q", e.Codec)
}

// PayloadTooLargeError reports a finalized block payload that exceeds
// the uncompressed blob limit. The 95%% block-fullness guard should
// make this unreachable; seeing it indicates a bug in that guard.
type PayloadTooLargeError struct {
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("osmpbf: payload size %d exceeds blob limit %d", e.Size, e.Limit)
}

// CompressionFailedError wraps a failure from the underlying
// compression library.
type CompressionFailedError struct {
	Codec Compression
	Err   error
}

func (e *CompressionFailedError) Error() string {
	return fmt.Sprintf("osmpbf: %s compression failed: %v", e.Codec, e.Err)
}

func (e *CompressionFailedError) Unwrap() error { return e.Err }

// EncodingInvariantViolationError reports an internal assertion
// failure: a value that cannot be represented in its wire field (for
// example a version or uid past int32 range).
type EncodingInvariantViolationError struct {
	Field string
	Detail string
}

func (e *EncodingInvariantViolationError) Error() string {
	return fmt.Sprintf("osmpbf: encoding invariant violated on field %q: %s", e.Field, e.Detail)
}

// ErrCompressionLevelWithoutCompression is returned when a compression
// level is configured but Compression is CompressionNone: the level
// has nothing to apply to.
var ErrCompressionLevelWithoutCompression = &InvalidOptionError{
	Name:   "compression level",
	Reason: "set without a compression codec",
}

// ErrDeprecatedAddMetadataOption is returned by NewConfigFromFile when
// the retired pbf_add_metadata key is present.
var ErrDeprecatedAddMetadataOption = &InvalidOptionError{
	Name:   "pbf_add_metadata",
	Reason: "deprecated; use add_metadata instead",
}

// ErrClosed is returned by write operations called after Close or
// WriteEnd.
var ErrClosed = fmt.Errorf("osmpbf: encoder is closed")
