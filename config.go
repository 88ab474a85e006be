package osmpbf

import (
	"strconv"
	"strings"
)

// Compression selects the blob payload codec.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZlib Compression = "zlib"
	CompressionLZ4  Compression = "lz4"
)

// MetadataMask is a set over the metadata columns an object can
// carry: version, timestamp, changeset, uid, user. The zero value
// emits no metadata columns at all.
type MetadataMask struct {
	Version    bool
	Timestamp  bool
	Changeset  bool
	UID        bool
	User       bool
}

// any reports whether at least one metadata column is enabled.
func (m MetadataMask) any() bool {
	return m.Version || m.Timestamp || m.Changeset || m.UID || m.User
}

func allMetadata() MetadataMask {
	return MetadataMask{Version: true, Timestamp: true, Changeset: true, UID: true, User: true}
}

func parseMetadataMask(spec string) (MetadataMask, error) {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "", "none":
		return MetadataMask{}, nil
	case "all":
		return allMetadata(), nil
	}
	var m MetadataMask
	for _, part := range strings.Split(spec, ",") {
		switch strings.TrimSpace(part) {
		case "version":
			m.Version = true
		case "timestamp":
			m.Timestamp = true
		case "changeset":
			m.Changeset = true
		case "uid":
			m.UID = true
		case "user":
			m.User = true
		default:
			return MetadataMask{}, &InvalidOptionError{Name: "add_metadata", Reason: "unknown column " + strconv.Quote(part)}
		}
	}
	return m, nil
}

// Config is the fixed, read-once-at-construction configuration of an
// Encoder.
type Config struct {
	DenseNodes       bool
	Metadata         MetadataMask
	VisibleFlag      *bool // nil means "derive from header.HasMultipleObjectVersions"
	LocationsOnWays  bool
	Compression      Compression
	CompressionLevel *int // nil means "use the codec's default"
	Logger           Logger
}

// DefaultConfig mirrors the values the original writer defaults to
// when a caller supplies no options: DenseNodes on, zlib compression,
// no metadata.
func DefaultConfig() Config {
	return Config{
		DenseNodes:  true,
		Compression: CompressionZlib,
	}
}

// Option configures an Encoder at construction time.
type Option func(*Config)

// WithDenseNodes toggles the DenseNodes packing path for nodes.
func WithDenseNodes(enabled bool) Option {
	return func(c *Config) { c.DenseNodes = enabled }
}

// WithMetadata sets which metadata columns to emit.
func WithMetadata(mask MetadataMask) Option {
	return func(c *Config) { c.Metadata = mask }
}

// WithVisibleFlag sets whether the visible column is emitted,
// overriding Header.HasMultipleObjectVersions. Without this option the
// flag tracks that header field, matching the original writer.
func WithVisibleFlag(enabled bool) Option {
	return func(c *Config) { c.VisibleFlag = &enabled }
}

// WithLocationsOnWays enables the per-ref lat/lon columns on ways.
func WithLocationsOnWays(enabled bool) Option {
	return func(c *Config) { c.LocationsOnWays = enabled }
}

// WithCompression selects the blob compression codec.
func WithCompression(codec Compression) Option {
	return func(c *Config) { c.Compression = codec }
}

// WithCompressionLevel sets a codec-specific compression level. It is
// an error to call this with CompressionNone in effect.
func WithCompressionLevel(level int) Option {
	return func(c *Config) { c.CompressionLevel = &level }
}

// WithLogger installs a logger that receives header-write and
// block-flush diagnostics. The default Config is silent.
func WithLogger(logger Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// validate checks codec/level compatibility and normalizes the
// default level per codec, matching the original constructor's
// eager validation.
func (c *Config) validate() error {
	if c.CompressionLevel != nil && c.Compression == CompressionNone {
		return ErrCompressionLevelWithoutCompression
	}
	switch c.Compression {
	case CompressionNone, CompressionZlib, CompressionLZ4:
	default:
		return &InvalidOptionError{Name: "pbf_compression", Reason: "unknown codec " + strconv.Quote(string(c.Compression))}
	}
	if c.CompressionLevel != nil {
		lvl := *c.CompressionLevel
		switch c.Compression {
		case CompressionZlib:
			if lvl < 0 || lvl > 9 {
				return &InvalidOptionError{Name: "pbf_compression_level", Reason: "zlib level must be 0-9"}
			}
		case CompressionLZ4:
			if lvl < 0 || lvl > 16 {
				return &InvalidOptionError{Name: "pbf_compression_level", Reason: "lz4 level must be 0-16"}
			}
		}
	}
	return nil
}

// effectiveLevel returns the level to pass to the codec, substituting
// the codec's documented default when none was configured.
func (c *Config) effectiveLevel() int {
	if c.CompressionLevel != nil {
		return *c.CompressionLevel
	}
	switch c.Compression {
	case CompressionZlib:
		return -1 // klauspost/compress/zlib.DefaultCompression
	case CompressionLZ4:
		return 0
	default:
		return 0
	}
}

// File is a string-keyed configuration collaborator mirroring the
// option surface the original writer reads from a generic "File"
// object (pbf_dense_nodes, pbf_compression, ...). It lets callers
// migrating from a key/value configuration source build a Config
// without learning the functional-options surface.
type File map[string]string

// NewConfigFromFile builds a Config from a File, applying the same
// validation the original constructor performs, including the eager
// rejection of the deprecated pbf_add_metadata key.
func NewConfigFromFile(f File) (*Config, error) {
	if _, present := f["pbf_add_metadata"]; present {
		return nil, ErrDeprecatedAddMetadataOption
	}

	cfg := DefaultConfig()

	if v, ok := f["pbf_dense_nodes"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &InvalidOptionError{Name: "pbf_dense_nodes", Reason: "not a bool: " + v}
		}
		cfg.DenseNodes = b
	}

	if v, ok := f["pbf_compression"]; ok {
		switch v {
		case "none", "":
			cfg.Compression = CompressionNone
		case "zlib":
			cfg.Compression = CompressionZlib
		case "lz4":
			cfg.Compression = CompressionLZ4
		default:
			return nil, &InvalidOptionError{Name: "pbf_compression", Reason: "unknown codec " + strconv.Quote(v)}
		}
	}

	if v, ok := f["pbf_compression_level"]; ok {
		lvl, err := strconv.Atoi(v)
		if err != nil {
			return nil, &InvalidOptionError{Name: "pbf_compression_level", Reason: "not an integer: " + v}
		}
		cfg.CompressionLevel = &lvl
	}

	if v, ok := f["add_metadata"]; ok {
		mask, err := parseMetadataMask(v)
		if err != nil {
			return nil, err
		}
		cfg.Metadata = mask
	}

	if v, ok := f["locations_on_ways"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &InvalidOptionError{Name: "locations_on_ways", Reason: "not a bool: " + v}
		}
		cfg.LocationsOnWays = b
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewConfig builds a Config from functional options, applying the
// same validation NewConfigFromFile does.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
