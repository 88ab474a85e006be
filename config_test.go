package osmpbf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	require.True(t, cfg.DenseNodes)
	require.Equal(t, CompressionZlib, cfg.Compression)
}

func TestNewConfigRejectsLevelWithoutCompression(t *testing.T) {
	_, err := NewConfig(WithCompression(CompressionNone), WithCompressionLevel(5))
	require.ErrorIs(t, err, ErrCompressionLevelWithoutCompression)
}

func TestNewConfigValidatesZlibLevelRange(t *testing.T) {
	_, err := NewConfig(WithCompression(CompressionZlib), WithCompressionLevel(99))
	require.Error(t, err)
}

func TestNewConfigFromFileRejectsDeprecatedOption(t *testing.T) {
	_, err := NewConfigFromFile(File{"pbf_add_metadata": "all"})
	require.ErrorIs(t, err, ErrDeprecatedAddMetadataOption)
}

func TestNewConfigFromFileParsesAddMetadataAll(t *testing.T) {
	cfg, err := NewConfigFromFile(File{"add_metadata": "all"})
	require.NoError(t, err)
	require.True(t, cfg.Metadata.any())
	require.True(t, cfg.Metadata.User)
}

func TestNewConfigFromFileParsesAddMetadataSubset(t *testing.T) {
	cfg, err := NewConfigFromFile(File{"add_metadata": "version,uid"})
	require.NoError(t, err)
	require.True(t, cfg.Metadata.Version)
	require.True(t, cfg.Metadata.UID)
	require.False(t, cfg.Metadata.Timestamp)
}

func TestNewConfigFromFileRejectsUnknownColumn(t *testing.T) {
	_, err := NewConfigFromFile(File{"add_metadata": "bogus"})
	require.Error(t, err)
}

func TestNewConfigFromFileAndOptionsAgree(t *testing.T) {
	fromFile, err := NewConfigFromFile(File{"pbf_compression": "lz4", "pbf_dense_nodes": "false"})
	require.NoError(t, err)

	fromOpts, err := NewConfig(WithCompression(CompressionLZ4), WithDenseNodes(false))
	require.NoError(t, err)

	require.Equal(t, fromFile.Compression, fromOpts.Compression)
	require.Equal(t, fromFile.DenseNodes, fromOpts.DenseNodes)
}

func TestMetadataMaskAny(t *testing.T) {
	require.False(t, (MetadataMask{}).any())
	require.True(t, (MetadataMask{UID: true}).any())
}
