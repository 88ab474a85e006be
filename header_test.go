package osmpbf

import (
	"testing"

	"github.com/osmpbfio/pbfwriter/internal/wiretest"
	"github.com/stretchr/testify/require"
)

func TestBuildHeaderBlockRequiredFeatures(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	data, err := buildHeaderBlock(Header{Generator: "t"}, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)

	required := wiretest.FindAll(fields, fieldHeaderBlockRequiredFeatures)
	require.Len(t, required, 2)
	require.Equal(t, requiredFeatureOsmSchema, string(required[0].Bytes))
	require.Equal(t, requiredFeatureDenseNodes, string(required[1].Bytes))

	program, ok := wiretest.Find(fields, fieldHeaderBlockWritingProgram)
	require.True(t, ok)
	require.Equal(t, "t", string(program.Bytes))
}

func TestBuildHeaderBlockNoBBoxWhenNoBoxes(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	data, err := buildHeaderBlock(Header{}, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)
	_, ok := wiretest.Find(fields, fieldHeaderBlockBBox)
	require.False(t, ok)
}

func TestBuildHeaderBlockHistoricalInformationRequiredWhenMultipleVersions(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	data, err := buildHeaderBlock(Header{HasMultipleObjectVersions: true}, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)
	required := wiretest.FindAll(fields, fieldHeaderBlockRequiredFeatures)
	found := false
	for _, f := range required {
		if string(f.Bytes) == requiredFeatureHistoricalInformation {
			found = true
		}
	}
	require.True(t, found)
}

func TestBuildHeaderBlockLocationsOnWaysIsOptionalNotRequired(t *testing.T) {
	cfg, err := NewConfig(WithLocationsOnWays(true))
	require.NoError(t, err)
	data, err := buildHeaderBlock(Header{}, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)

	for _, f := range wiretest.FindAll(fields, fieldHeaderBlockRequiredFeatures) {
		require.NotEqual(t, optionalFeatureLocationsOnWays, string(f.Bytes))
	}
	optional := wiretest.FindAll(fields, fieldHeaderBlockOptionalFeatures)
	require.Len(t, optional, 1)
	require.Equal(t, optionalFeatureLocationsOnWays, string(optional[0].Bytes))
}

func TestBuildHeaderBlockSortingFeatureReadVerbatim(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	data, err := buildHeaderBlock(Header{Sorting: "Type_then_ID"}, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)
	optional := wiretest.FindAll(fields, fieldHeaderBlockOptionalFeatures)
	require.Len(t, optional, 1)
	require.Equal(t, optionalFeatureSortTypeThenID, string(optional[0].Bytes))
}

func TestBuildHeaderBlockJoinsBoundingBoxes(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	h := Header{Boxes: []Bounds{
		{MinLon: -0.2, MinLat: 51.5, MaxLon: -0.15, MaxLat: 51.55},
		{MinLon: -0.18, MinLat: 51.52, MaxLon: -0.1, MaxLat: 51.6},
	}}
	data, err := buildHeaderBlock(h, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)
	bbox, ok := wiretest.Find(fields, fieldHeaderBlockBBox)
	require.True(t, ok)

	inner, err := wiretest.ParseMessage(bbox.Bytes)
	require.NoError(t, err)

	left, _ := wiretest.Find(inner, fieldHeaderBBoxLeft)
	require.Equal(t, int64(-2000000), wiretest.DecodeZigZag64(left.Varint))

	top, _ := wiretest.Find(inner, fieldHeaderBBoxTop)
	require.Equal(t, int64(516000000), wiretest.DecodeZigZag64(top.Varint))
}

func TestBuildHeaderBlockOsmosisTimestampTruncatesThroughUint32(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	data, err := buildHeaderBlock(Header{OsmosisReplicationTimestamp: "2040-01-01T00:00:00Z"}, *cfg)
	require.NoError(t, err)

	fields, err := wiretest.ParseMessage(data)
	require.NoError(t, err)
	tsField, ok := wiretest.Find(fields, fieldHeaderBlockOsmosisTimestamp)
	require.True(t, ok)
	require.Less(t, int64(tsField.Varint), int64(1<<32))
}
